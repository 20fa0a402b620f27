package translation

import (
	"time"

	"github.com/google/uuid"
)

// Record matches the translations table schema. Append-only audit log: one
// row per completed request, never mutated.
type Record struct {
	ID             uuid.UUID `json:"id"`
	KoreanText     string    `json:"korean_text"`
	SoftenedText   string    `json:"softened_text"`
	EmotionalFocus string    `json:"emotional_focus"`
	UsedAI         bool      `json:"used_ai"`
	CreatedAt      time.Time `json:"created_at"`
}

// Request is the POST /api/translate body. The length bound counts runes,
// not bytes; Korean text would otherwise hit the limit three times early.
type Request struct {
	KoreanText string `json:"koreanText" validate:"required,min=1,max=500"`
}

// Result is the POST /api/translate response body.
type Result struct {
	Translation         string `json:"translation"`
	EmotionalFocus      string `json:"emotionalFocus"`
	HeartInterpretation string `json:"heartInterpretation"`
	UsedAI              bool   `json:"usedAI"`
	HasCapacity         bool   `json:"hasCapacity"`
	CapacityExhausted   bool   `json:"capacityExhausted"`
	CurrentCount        int    `json:"currentCount"`
	MaxUsers            int    `json:"maxUsers"`
	CuteMessage         string `json:"cuteMessage,omitempty"`
}
