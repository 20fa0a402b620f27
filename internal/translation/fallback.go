package translation

import "regexp"

// FallbackResult is the output of the deterministic rewrite path.
type FallbackResult struct {
	Translation    string
	EmotionalFocus string
}

type emotionalPattern struct {
	pattern     *regexp.Regexp
	replacement string
	focus       string
}

// emotionalPatterns is evaluated in order; the first matching entry wins, so
// earlier entries take priority when several could match.
var emotionalPatterns = []emotionalPattern{
	{regexp.MustCompile(`(?i)너는 왜 그것도 못참니|왜 그렇게밖에 못하냐|그렇게밖에 못하겠냐`), "그게 참 힘들었겠구나", "비난을 이해와 공감으로 변환"},
	{regexp.MustCompile(`(?i)이건 대체 왜 이렇게밖에 못하냐`), "이 일이 생각보다 어려웠나 보네", "실망을 이해로 바꾸기"},
	{regexp.MustCompile(`(?i)짜증나|화나|열받아`), "마음이 많이 상했구나", "화난 감정을 부드럽게 달래기"},
	{regexp.MustCompile(`(?i)싫어|별로야|싫다`), "마음에 잘 안 들 수도 있지", "거부감을 부드럽게 표현"},
	{regexp.MustCompile(`(?i)못생겼어|추해`), "각자의 매력이 있는 거야", "외모 비하를 긍정으로 전환"},
	{regexp.MustCompile(`(?i)바보야|멍청해|stupid`), "아직 익숙하지 않은 거겠지", "지능 비하를 이해로 바꾸기"},
	{regexp.MustCompile(`(?i)하지마|그만해|stop`), "잠깐 쉬어가도 괜찮아", "명령을 부드러운 제안으로"},
	{regexp.MustCompile(`(?i)고생했어요|수고했어요`), "정말 많이 애썼구나", "인정과 격려의 따뜻한 마음"},
	{regexp.MustCompile(`(?i)고마워요|감사해요|고맙습니다`), "마음 깊이 고마워", "진심 어린 감사와 고마움"},
	{regexp.MustCompile(`(?i)사랑해요|사랑해`), "정말 소중한 사람이야", "깊은 애정과 따뜻한 사랑"},
	{regexp.MustCompile(`(?i)보고 싶어요|그리워요`), "떠올릴 때마다 마음이 따뜻해져", "그리움과 애틋한 마음"},
	{regexp.MustCompile(`(?i)미안해요|죄송해요|미안합니다`), "마음이 무거웠구나", "진심 어린 사과와 반성"},
	{regexp.MustCompile(`(?i)괜찮아요|괜찮습니다`), "모든 게 잘 풀릴 거야", "따뜻한 위로와 이해"},
	{regexp.MustCompile(`(?i)힘내요|힘내세요|화이팅`), "네가 할 수 있다는 걸 알고 있어", "응원과 희망의 메시지"},
	{regexp.MustCompile(`(?i)푹 쉬세요|쉬어요`), "마음 편히 쉬어도 돼", "따뜻한 배려와 위로"},
	{regexp.MustCompile(`(?i)행복해요|기뻐요`), "마음이 따뜻해 보여서 좋다", "기쁨과 행복감의 표현"},
	{regexp.MustCompile(`(?i)슬퍼요|우울해요`), "마음이 많이 아프겠구나", "슬픔을 부드럽게 이해하기"},
	{regexp.MustCompile(`(?i)피곤해요|지쳐요`), "많이 힘들었나 보네", "피로를 따뜻하게 달래기"},
	{regexp.MustCompile(`(?i)뭐야|뭔데|what`), "궁금한 게 있구나", "의문을 부드러운 호기심으로"},
	{regexp.MustCompile(`(?i)어쩌라고|그래서`), "어떻게 하면 좋을까", "무관심을 관심으로 바꾸기"},
}

var (
	strongPunctuation = regexp.MustCompile(`[!]{2,}|[?]{2,}`)
	trailingThought   = regexp.MustCompile(`\.{2,}|…`)
)

// Fallback rewrites koreanText without any external call. It is total and
// deterministic: a pattern match replaces only the matched span; otherwise a
// punctuation heuristic or a generic warm reply produces a fixed sentence.
func Fallback(koreanText string) FallbackResult {
	for _, p := range emotionalPatterns {
		if loc := p.pattern.FindStringIndex(koreanText); loc != nil {
			return FallbackResult{
				Translation:    koreanText[:loc[0]] + p.replacement + koreanText[loc[1]:],
				EmotionalFocus: p.focus,
			}
		}
	}

	switch {
	case strongPunctuation.MatchString(koreanText):
		return FallbackResult{
			Translation:    "마음에 있는 말을 다정하게 전해드릴게요",
			EmotionalFocus: "강한 감정을 부드럽게 달래기",
		}
	case trailingThought.MatchString(koreanText):
		return FallbackResult{
			Translation:    "깊은 생각이 담긴 말이네요",
			EmotionalFocus: "여운과 생각을 소중히 여기기",
		}
	default:
		return FallbackResult{
			Translation:    "따뜻한 마음으로 전해드려요",
			EmotionalFocus: "모든 말에 담긴 마음을 소중히 하기",
		}
	}
}
