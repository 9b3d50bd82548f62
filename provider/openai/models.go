package openai

// ChatModel represents an OpenAI chat model.
type ChatModel string

const (
	GPT52    ChatModel = "gpt-5.2"
	GPT51    ChatModel = "gpt-5.1"
	GPT5     ChatModel = "gpt-5"
	GPT5Mini ChatModel = "gpt-5-mini"
	GPT5Nano ChatModel = "gpt-5-nano"
	GPT41    ChatModel = "gpt-4.1"
	O4Mini   ChatModel = "o4-mini"

	// DefaultChatModel is the default model.
	DefaultChatModel ChatModel = GPT5Mini
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
