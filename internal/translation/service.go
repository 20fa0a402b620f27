package translation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dajeong-labs/dajeong/internal/gemini"
	"github.com/dajeong-labs/dajeong/internal/metrics"
	"github.com/dajeong-labs/dajeong/internal/secure"
	"github.com/dajeong-labs/dajeong/internal/usage"
)

// defaultHeartInterpretation accompanies every fallback-path response.
const defaultHeartInterpretation = "마음을 이해하려 노력하고 있어요."

// gate is the slice of the usage service the pipeline needs.
type gate interface {
	CheckCapacity(ctx context.Context) (usage.Snapshot, error)
	AdmitOne(ctx context.Context) (int, error)
	AIEnabled() bool
}

// rewriter is the external AI capability. *gemini.Client satisfies it.
type rewriter interface {
	Rewrite(ctx context.Context, koreanText string) (*gemini.Result, error)
}

// recorder persists completed translations. *Repository satisfies it.
type recorder interface {
	Create(ctx context.Context, rec *Record) error
}

// Service orchestrates one translate request: capacity check, AI attempt or
// fallback, admission bookkeeping, and the audit record.
type Service struct {
	gate     gate
	ai       rewriter
	recorder recorder
}

// NewService creates the translation pipeline. ai may be nil when no
// credential is configured; the gate's AIEnabled must then report false.
func NewService(g gate, ai rewriter, rec recorder) *Service {
	return &Service{gate: g, ai: ai, recorder: rec}
}

// Translate runs the pipeline for one validated input. The capacity read
// happens before the AI call and the admission after it succeeds, so a burst
// of concurrent requests at the quota boundary can admit slightly past the
// maximum. That tolerance is deliberate; tightening it would change
// observable behavior at the boundary.
func (s *Service) Translate(ctx context.Context, koreanText string) (*Result, error) {
	snap, err := s.gate.CheckCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking capacity: %w", err)
	}

	aiEligible := snap.HasCapacity() && s.gate.AIEnabled() && s.ai != nil

	res := &Result{
		HasCapacity:  snap.HasCapacity() && s.gate.AIEnabled(),
		CurrentCount: snap.UsersCount,
		MaxUsers:     snap.MaxUsers,
	}

	if aiEligible {
		aiRes, aiErr := s.ai.Rewrite(ctx, koreanText)
		if aiErr == nil {
			res.Translation = aiRes.SoftenedText
			res.EmotionalFocus = fmt.Sprintf("%s (강도: %d/10)", aiRes.Emotion, aiRes.Intensity)
			res.HeartInterpretation = aiRes.HeartInterpretation
			res.UsedAI = true

			// The admission is already earned; losing it would be a silently
			// wrong counter, so a failed increment fails the request.
			if _, err := s.gate.AdmitOne(ctx); err != nil {
				return nil, fmt.Errorf("recording admission: %w", err)
			}
		} else {
			slog.Warn("ai rewrite failed, falling back", "error", secure.Sanitize(aiErr.Error()))
			s.applyFallback(res, koreanText)
		}
	} else {
		s.applyFallback(res, koreanText)
		res.CapacityExhausted = !snap.HasCapacity()
		if res.CapacityExhausted {
			res.CuteMessage = usage.RandomExhaustedMessage()
		}
	}

	rec := &Record{
		ID:             uuid.New(),
		KoreanText:     koreanText,
		SoftenedText:   res.Translation,
		EmotionalFocus: res.EmotionalFocus,
		UsedAI:         res.UsedAI,
	}
	if err := s.recorder.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving translation: %w", err)
	}

	if res.UsedAI {
		metrics.TranslationsTotal.WithLabelValues("ai").Inc()
	} else {
		metrics.TranslationsTotal.WithLabelValues("fallback").Inc()
	}
	return res, nil
}

func (s *Service) applyFallback(res *Result, koreanText string) {
	fb := Fallback(koreanText)
	res.Translation = fb.Translation
	res.EmotionalFocus = fb.EmotionalFocus
	res.HeartInterpretation = defaultHeartInterpretation
	res.UsedAI = false
}
