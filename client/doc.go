// Package client selects and constructs the chat provider an agent runs on.
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: scout.ProviderOpenAI,
//	    APIKeys:  client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	})
//	if err != nil {
//	    return err
//	}
//	a := agent.New(c, registry)
//
// The returned Client embeds the provider, so it satisfies
// [scout.ChatProvider] directly, and reports the resolved model for cost
// accounting with the model package.
package client
