// Package gemini adapts the Google generative-language REST API into the
// three-step gentle-rewrite capability: emotion analysis, softening rewrite,
// and heart interpretation.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dajeong-labs/dajeong/internal/config"
	"github.com/dajeong-labs/dajeong/internal/metrics"
	"github.com/dajeong-labs/dajeong/internal/secure"
)

// ErrUnavailable is returned for every adapter failure: unreachable service,
// timeout, or malformed upstream data. Callers fall back on it; they never
// see upstream detail.
var ErrUnavailable = errors.New("gemini: service unavailable")

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// EmotionalAnalysis is the structured result of the first upstream call.
type EmotionalAnalysis struct {
	Emotion   string `json:"emotion"`
	Intensity int    `json:"intensity"`
	Context   string `json:"context"`
}

// Result is the composed outcome of a full AI rewrite. Partial results are
// never surfaced; any step failing fails the whole rewrite.
type Result struct {
	SoftenedText        string
	Emotion             string
	Intensity           int
	Context             string
	HeartInterpretation string
}

type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewClient creates a Gemini client from config. The caller is responsible
// for not constructing one when no API key is configured.
func NewClient(cfg config.GeminiConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    baseURL,
	}
}

// Rewrite runs the three upstream calls in sequence. The rewrite and the
// interpretation both depend on the emotion analysis, so the calls cannot
// overlap.
func (c *Client) Rewrite(ctx context.Context, koreanText string) (*Result, error) {
	analysis, err := c.analyzeEmotion(ctx, koreanText)
	if err != nil {
		return nil, err
	}

	softened, err := c.softenText(ctx, koreanText, analysis)
	if err != nil {
		return nil, err
	}

	heart, err := c.interpretHeart(ctx, koreanText, analysis)
	if err != nil {
		return nil, err
	}

	return &Result{
		SoftenedText:        softened,
		Emotion:             analysis.Emotion,
		Intensity:           analysis.Intensity,
		Context:             analysis.Context,
		HeartInterpretation: heart,
	}, nil
}

const emotionSystemPrompt = `You are an expert in Korean emotional analysis.
Analyze the emotional tone and context of the Korean text.
Respond with JSON in this format:
{
  "emotion": "specific emotion in Korean (e.g., 기쁨, 슬픔, 화남, 걱정, 애정, 고마움)",
  "intensity": number between 1-10,
  "context": "brief description of emotional context in Korean"
}`

func (c *Client) analyzeEmotion(ctx context.Context, koreanText string) (*EmotionalAnalysis, error) {
	req := &generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: emotionSystemPrompt}}},
		Contents:          []content{{Parts: []part{{Text: koreanText}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &responseSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"emotion":   {Type: "string"},
					"intensity": {Type: "number"},
					"context":   {Type: "string"},
				},
				Required: []string{"emotion", "intensity", "context"},
			},
		},
	}

	raw, err := c.generate(ctx, "analyze_emotion", req)
	if err != nil {
		return nil, err
	}

	var analysis EmotionalAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("%w: malformed emotion analysis", ErrUnavailable)
	}
	if analysis.Emotion == "" {
		return nil, fmt.Errorf("%w: malformed emotion analysis", ErrUnavailable)
	}
	if analysis.Intensity < 1 {
		analysis.Intensity = 1
	} else if analysis.Intensity > 10 {
		analysis.Intensity = 10
	}
	return &analysis, nil
}

func (c *Client) softenText(ctx context.Context, koreanText string, analysis *EmotionalAnalysis) (string, error) {
	prompt := fmt.Sprintf(`다음 한국어 문장을 부드럽고 다정한 표현으로 한 문장으로 바꿔주세요.

원본: "%s"
감정: %s (강도: %d/10)

규칙:
- 거친 말은 따뜻한 말로 바꾸기
- 화내는 말은 걱정하는 말로 바꾸기
- 명령하는 말은 부탁하는 말로 바꾸기
- 설명이나 옵션 없이 오직 한 문장만 답변

예시:
입력: "그렇게밖에 못하겠냐?"
출력: 네 능력이라면 더 잘할 수 있을 텐데

입력: "짜증나"
출력: 마음이 많이 힘들구나

다정한 한 문장으로만 답변하세요:`, koreanText, analysis.Emotion, analysis.Intensity)

	text, err := c.generate(ctx, "soften_text", &generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) interpretHeart(ctx context.Context, koreanText string, analysis *EmotionalAnalysis) (string, error) {
	prompt := fmt.Sprintf(`다음 한국어 문장의 마음을 한 줄로 해석해주세요.
표면적인 말이 아닌, 그 말 속에 담긴 진정한 마음과 감정을 따뜻하게 해석해주세요.

원본 문장: "%s"
감지된 감정: %s (강도: %d/10)

예시:
- "지친 마음이 내게 쏟아졌지만, 그 말이 곧 진심은 아니에요."
- "힘든 하루를 보낸 마음이 잠깐 거칠어진 것 같아요."
- "사랑하는 마음이 걱정으로 표현된 것 같네요."

한 줄로 마음의 해석만 제공해주세요.`, koreanText, analysis.Emotion, analysis.Intensity)

	text, err := c.generate(ctx, "interpret_heart", &generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// generate posts one generateContent request and returns the first candidate's
// text. Errors never carry the API key: it travels in a header, not the URL,
// and upstream bodies are sanitized before they reach an error message.
func (c *Client) generate(ctx context.Context, operation string, genReq *generateRequest) (string, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return "", fmt.Errorf("%w: encoding request", ErrUnavailable)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building request", ErrUnavailable)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GeminiCallsTotal.WithLabelValues(operation, "error").Inc()
		slog.Warn("gemini call failed", "operation", operation, "error", secure.Sanitize(err.Error()))
		return "", fmt.Errorf("%w: %s", ErrUnavailable, operation)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.GeminiCallsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("%w: %s", ErrUnavailable, operation)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.GeminiCallsTotal.WithLabelValues(operation, "error").Inc()
		slog.Warn("gemini call rejected",
			"operation", operation,
			"status", resp.StatusCode,
			"body", sanitizeUpstreamBody(respBody),
		)
		return "", fmt.Errorf("%w: %s returned status %d", ErrUnavailable, operation, resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		metrics.GeminiCallsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("%w: %s returned malformed response", ErrUnavailable, operation)
	}

	text := genResp.text()
	if text == "" {
		metrics.GeminiCallsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("%w: %s returned empty response", ErrUnavailable, operation)
	}

	metrics.GeminiCallsTotal.WithLabelValues(operation, "ok").Inc()
	return text, nil
}

// sanitizeUpstreamBody prepares an upstream error body for logging: secret
// fields and credential-shaped substrings are redacted first.
func sanitizeUpstreamBody(body []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		clean, err := json.Marshal(secure.SanitizeMap(decoded))
		if err == nil {
			return string(clean)
		}
	}
	return secure.Sanitize(string(body))
}
