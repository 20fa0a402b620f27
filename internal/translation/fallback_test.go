package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback_PatternMatch(t *testing.T) {
	res := Fallback("짜증나")
	assert.Equal(t, "마음이 많이 상했구나", res.Translation)
	assert.Equal(t, "화난 감정을 부드럽게 달래기", res.EmotionalFocus)
}

func TestFallback_ReplacesOnlyMatchedSpan(t *testing.T) {
	res := Fallback("아 진짜 짜증나 오늘")
	assert.Equal(t, "아 진짜 마음이 많이 상했구나 오늘", res.Translation)
}

func TestFallback_FirstPatternWins(t *testing.T) {
	// Matches both the anger entry (index 2) and the dislike entry (index 3);
	// the earlier entry must win.
	res := Fallback("짜증나 싫어")
	assert.Equal(t, "화난 감정을 부드럽게 달래기", res.EmotionalFocus)
	assert.Equal(t, "마음이 많이 상했구나 싫어", res.Translation)
}

func TestFallback_CaseInsensitiveLatin(t *testing.T) {
	res := Fallback("STOP")
	assert.Equal(t, "잠깐 쉬어가도 괜찮아", res.Translation)
	assert.Equal(t, "명령을 부드러운 제안으로", res.EmotionalFocus)
}

func TestFallback_StrongPunctuationHeuristic(t *testing.T) {
	res := Fallback("안돼!!")
	assert.Equal(t, "마음에 있는 말을 다정하게 전해드릴게요", res.Translation)
	assert.Equal(t, "강한 감정을 부드럽게 달래기", res.EmotionalFocus)
}

func TestFallback_QuestionMarksHeuristic(t *testing.T) {
	res := Fallback("왜??")
	assert.Equal(t, "마음에 있는 말을 다정하게 전해드릴게요", res.Translation)
}

func TestFallback_EllipsisHeuristic(t *testing.T) {
	for _, input := range []string{"글쎄..", "글쎄…"} {
		res := Fallback(input)
		assert.Equal(t, "깊은 생각이 담긴 말이네요", res.Translation, "input %q", input)
		assert.Equal(t, "여운과 생각을 소중히 여기기", res.EmotionalFocus)
	}
}

func TestFallback_PunctuationBeatsEllipsis(t *testing.T) {
	// Both heuristics could fire; strong punctuation has priority.
	res := Fallback("아니!! 글쎄...")
	assert.Equal(t, "마음에 있는 말을 다정하게 전해드릴게요", res.Translation)
}

func TestFallback_GenericWarmReply(t *testing.T) {
	res := Fallback("오늘 날씨 좋네")
	assert.Equal(t, "따뜻한 마음으로 전해드려요", res.Translation)
	assert.Equal(t, "모든 말에 담긴 마음을 소중히 하기", res.EmotionalFocus)
}

func TestFallback_Deterministic(t *testing.T) {
	inputs := []string{"짜증나", "안돼!!", "글쎄...", "오늘 날씨 좋네", "고마워요"}
	for _, input := range inputs {
		first := Fallback(input)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Fallback(input), "input %q", input)
		}
	}
}
