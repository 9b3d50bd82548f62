package anthropic

// ChatModel represents an Anthropic chat model.
type ChatModel string

const (
	// Claude 4.5 family aliases track the latest snapshot.
	ClaudeOpus45   ChatModel = "claude-opus-4-5"
	ClaudeSonnet45 ChatModel = "claude-sonnet-4-5"
	ClaudeHaiku45  ChatModel = "claude-haiku-4-5"

	// Pinned versions
	ClaudeSonnet45_20250929 ChatModel = "claude-sonnet-4-5-20250929"
	ClaudeHaiku45_20251001  ChatModel = "claude-haiku-4-5-20251001"

	// Bedrock cross-region inference profiles
	BedrockClaudeSonnet45 ChatModel = "us.anthropic.claude-sonnet-4-5-20250929-v1:0"
	BedrockClaudeHaiku45  ChatModel = "us.anthropic.claude-haiku-4-5-20251001-v1:0"

	// DefaultChatModel is the default for the direct API.
	DefaultChatModel ChatModel = ClaudeSonnet45

	// DefaultBedrockModel is the default for Bedrock.
	DefaultBedrockModel ChatModel = BedrockClaudeSonnet45
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
