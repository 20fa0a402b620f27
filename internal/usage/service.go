package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/dajeong-labs/dajeong/internal/config"
	"github.com/dajeong-labs/dajeong/internal/metrics"
)

// store is the persistence surface the gate needs. *Repository satisfies it.
type store interface {
	Get(ctx context.Context, date string, defaultMax int) (Snapshot, error)
	Increment(ctx context.Context, date string, defaultMax int) (int, error)
}

// Service is the usage gate: it owns all daily_usage mutation and decides
// AI-eligibility for the translation pipeline.
type Service struct {
	repo      store
	cache     *Cache
	maxUsers  int
	resetHour int
	loc       *time.Location
	aiEnabled bool
	now       func() time.Time
}

// NewService creates the usage gate. cache may be nil (no snapshot caching).
func NewService(repo store, cache *Cache, cfg config.QuotaConfig, aiEnabled bool) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading quota timezone: %w", err)
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		maxUsers:  cfg.MaxUsers,
		resetHour: cfg.ResetHour,
		loc:       loc,
		aiEnabled: aiEnabled,
		now:       time.Now,
	}, nil
}

// Today returns the current logical usage date.
func (s *Service) Today() string {
	return DateFor(s.now(), s.loc, s.resetHour)
}

// AIEnabled reports whether an AI credential is configured.
func (s *Service) AIEnabled() bool {
	return s.aiEnabled
}

// CheckCapacity reads today's quota snapshot. It never mutates anything:
// calling it any number of times leaves the counter untouched.
func (s *Service) CheckCapacity(ctx context.Context) (Snapshot, error) {
	return s.repo.Get(ctx, s.Today(), s.maxUsers)
}

// AdmitOne counts one AI-backed rewrite against today's quota and returns
// the new count. Only called after a successful AI rewrite.
func (s *Service) AdmitOne(ctx context.Context) (int, error) {
	date := s.Today()
	count, err := s.repo.Increment(ctx, date, s.maxUsers)
	if err != nil {
		return 0, err
	}
	metrics.AdmissionsTotal.Inc()
	if s.cache != nil {
		s.cache.Invalidate(ctx, date)
	}
	return count, nil
}

// Status computes the public usage-check payload. Reads go through the
// snapshot cache when one is configured; a service without a credential
// always reports no capacity, whatever the counter says.
func (s *Service) Status(ctx context.Context) (Status, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		HasCapacity: snap.HasCapacity() && s.aiEnabled,
		UsersCount:  snap.UsersCount,
		MaxUsers:    snap.MaxUsers,
		Remaining:   snap.Remaining(),
	}, nil
}

// AdminStats computes the admin usage-stats payload.
func (s *Service) AdminStats(ctx context.Context) (Stats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	rate := 0.0
	if snap.MaxUsers > 0 {
		rate = float64(snap.UsersCount) / float64(snap.MaxUsers)
	}
	return Stats{
		Date:            snap.Date,
		UsersCount:      snap.UsersCount,
		MaxUsers:        snap.MaxUsers,
		Remaining:       snap.Remaining(),
		UtilizationRate: rate,
		ResetTime:       fmt.Sprintf("%02d:00", s.resetHour),
		AIEnabled:       s.aiEnabled,
	}, nil
}

func (s *Service) snapshot(ctx context.Context) (Snapshot, error) {
	date := s.Today()
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, date); ok {
			return snap, nil
		}
	}
	snap, err := s.repo.Get(ctx, date, s.maxUsers)
	if err != nil {
		return Snapshot{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, snap)
	}
	return snap, nil
}
