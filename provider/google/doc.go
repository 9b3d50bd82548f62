// Package google provides a Gemini client implementing [scout.ChatProvider]
// over the Gemini API (New) or Vertex AI (NewVertex).
//
//	client, err := google.New(ctx, os.Getenv("GOOGLE_API_KEY"))
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Chat(ctx, []scout.Message{scout.NewUserMessage("Hi")})
//
// Tool results are sent as function responses named after the tool that
// produced them; consecutive results share one content turn.
package google
