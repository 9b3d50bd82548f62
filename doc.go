// Package scout provides the core types for building tool-augmented
// conversational agents: research assistants that search and crawl the web,
// booking assistants that read and write reservations, and anything else that
// follows the "model asks, tools answer" loop.
//
// The root package holds the shared vocabulary:
//
//   - [Message], [ToolCall], [ToolResult] and [Response] describe the conversation.
//   - [Tool] describes a callable function and its JSON Schema.
//   - [ChatProvider] is the boundary to a language model.
//   - [Error] categorizes failures as transient, permanent or user input.
//
// The working parts live in subpackages:
//
//   - agent: the iterative tool-calling loop
//   - tool: the tool registry plus web search, crawl, extract and formatter tools
//   - conversation: bounded conversation history and agent state
//   - store: key-value persistence (memory, Redis, Postgres)
//   - booking, memory: restaurant booking and per-user memory tools
//   - provider/anthropic, provider/openai, provider/google: model backends
//   - client: provider selection from configuration
//   - model: token pricing and run cost
//   - agui, mcp: streaming and tool export surfaces
//
// # Basic Usage
//
//	registry := tool.NewRegistry().Add(
//	    tool.NewSearchTool(tavilyClient),
//	    tool.NewCrawlTool(tavilyClient),
//	)
//
//	a, err := agent.New(anthropic.New(apiKey), registry,
//	    agent.WithSystemPrompt("You are a research assistant."),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	answer, err := a.Invoke(ctx, "What changed in the latest Go release?")
package scout
