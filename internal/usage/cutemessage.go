package usage

import "math/rand/v2"

// CuteMessage is a character/message pair shown by the UI while polling the
// quota state.
type CuteMessage struct {
	Character string `json:"character"`
	Message   string `json:"message"`
}

var cuteMessages = []CuteMessage{
	{
		Character: "🐻",
		Message:   "오늘의 AI 크레딧이 모두 사용되어\n부드러운 번역 알고리즘으로 제공됩니다 😊\n\n하루 125명의 이용자분께\nAI 번역을 제공하고 있어요!\n내일 새벽 5시에 다시 만나요 ✨",
	},
	{
		Character: "🐱",
		Message:   "📢 오늘의 AI 번역 서비스가 마감되었어요!\n125명의 이용자님께 제공 완료!\n\n걱정 마세요~ 기본 번역 기능은\n계속 사용하실 수 있어요 💝\n내일 새벽 5시에 AI가 다시 시작해요!",
	},
	{
		Character: "🐇",
		Message:   "오늘 125명 정원이 꽉 찼어요!\nAI가 잠시 쉬는 동안\n저희 감성 번역기가 대신\n정성껏 번역해드릴게요 🌙\n\n새벽 5시에 다시 만나요!",
	},
}

var exhaustedMessages = []string{
	"🐻 오늘의 마법(✨)이 다 떨어졌어요!\nAI 번역 요정이 오늘은 잠깐 쉬는 중이에요.\n대신 저희 다정한 번역기가 직접\n다정하게 말을 다듬어 드릴게요 ☁️\n내일 아침엔 다시 AI 요정이 돌아옵니다!",
	"🐱 📢 오늘의 감정 번역 크레딧이 모두 소진되었어요.\nAI 감성 요정이 낮잠을 자는 중이에요.\n그래도 걱정 마세요!\n저희가 직접 말투를 다정하게 고쳐드릴게요.\n내일 다시 오시면 부드럽고 따뜻한 번역을 드릴 수 있어요!",
	"🐇 오늘의 감성 마법이 살~짝 부족해요!\n대신 우리가 손으로 정성껏 다듬어볼게요 💕\n내일 아침이면 AI 요정이 다시 깨어나요 ☀️",
}

const exhaustedSuffix = "\n\n⏰ 내일 오전 5시 이후 다시 이용하실 수 있어요!"

// RandomCuteMessage picks one UI message uniformly at random.
func RandomCuteMessage() CuteMessage {
	return cuteMessages[rand.IntN(len(cuteMessages))]
}

// RandomExhaustedMessage picks one capacity-exhausted message for the
// translate response.
func RandomExhaustedMessage() string {
	return exhaustedMessages[rand.IntN(len(exhaustedMessages))] + exhaustedSuffix
}
