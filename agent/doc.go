// Package agent runs the tool-calling loop.
//
// An agent appends the user's prompt to its conversation, then calls the
// model with the conversation window and the registry's tools. When the
// model requests tools, the agent executes them, appends the assistant
// message followed by one tool message per result, and calls the model
// again. The loop ends when the model answers with plain text, or fails
// with ErrIterationLimitExceeded after MaxIterations model calls.
//
// # Basic Usage
//
//	type WeatherArgs struct {
//	    Location string `json:"location" desc:"City name" required:"true"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Get current weather",
//	        func(ctx context.Context, args WeatherArgs) (string, error) {
//	            return fmt.Sprintf("18C and clear in %s", args.Location), nil
//	        }),
//	)
//
//	a, err := agent.New(provider, registry, agent.WithMaxIterations(5))
//	if err != nil {
//	    return err
//	}
//	answer, err := a.Invoke(ctx, "What's the weather in Paris?")
//
// # Streaming Events
//
// RunStream executes the run in the background and reports progress:
//
//	for e := range a.RunStream(ctx, "What's the weather in Paris?") {
//	    switch e.Type {
//	    case event.MessageDelta:
//	        fmt.Print(e.Delta)
//	    case event.ToolCallStart:
//	        fmt.Printf("[tool: %s]\n", e.ToolCall.Name)
//	    case event.RunError:
//	        return e.Error
//	    }
//	}
//
// # Tool Failures
//
// Tool failures never end a run. An unknown tool name, a handler error, a
// panic and a handler timeout all become a ToolResult with IsError set and
// content prefixed "Error: ", which the model sees on its next call.
//
// # State
//
// Handlers reach two kinds of state through their context:
// RequestStateFrom returns a map that lives for one run, and AgentStateFrom
// returns the conversation's persistent agent state, which is never sent
// to the model.
package agent
