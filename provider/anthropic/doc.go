// Package anthropic provides a Claude client implementing [scout.ChatProvider],
// either against the Anthropic API or through Amazon Bedrock.
//
// # Basic Usage
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//	resp, err := client.Chat(ctx, []scout.Message{scout.NewUserMessage("Hi")})
//
// # Bedrock
//
//	client := anthropic.NewBedrock(ctx, anthropic.WithModel(anthropic.BedrockClaudeHaiku45))
//
// # Tool Results
//
// Each scout tool message carries one result. Consecutive tool messages are
// merged into the single user message of tool_result blocks the API expects
// after an assistant turn with several tool_use blocks.
package anthropic
