// Package openai provides an OpenAI Chat Completions client implementing
// [scout.ChatProvider]. WithBaseURL points it at any compatible endpoint.
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"), openai.WithModel(openai.GPT41))
//	resp, err := client.Chat(ctx, []scout.Message{scout.NewUserMessage("Hi")})
package openai
