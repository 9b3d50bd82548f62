// Command scout runs a tool-using research and booking agent.
//
// Usage:
//
//	scout [chat]   interactive chat in the terminal (default)
//	scout serve    AG-UI over SSE: POST /invocations, GET /ping
//	scout mcp      expose the tools to MCP clients over stdio
//
// Configuration is via environment variables (a .env file is loaded when
// present):
//
//	SCOUT_PROVIDER       - anthropic, bedrock, openai, google or vertex (default: anthropic)
//	SCOUT_MODEL          - Model override (optional, uses provider default)
//	ANTHROPIC_API_KEY    - Anthropic API key
//	OPENAI_API_KEY       - OpenAI API key
//	GOOGLE_API_KEY       - Google API key
//	VERTEX_PROJECT       - Vertex AI project (vertex provider)
//	VERTEX_LOCATION      - Vertex AI location (vertex provider)
//	TAVILY_API_KEY       - Enables web_search, web_crawl and web_extract
//	SCOUT_MAX_ITERATIONS - Max model calls per request (default: 10)
//	SCOUT_WINDOW_SIZE    - Exchanges kept in the conversation (default: 20)
//	SCOUT_TIMEOUT        - Per-request timeout (default: 2m)
//	SCOUT_SYSTEM_PROMPT  - System prompt override
//	SCOUT_STORE          - memory, redis or postgres (default: memory)
//	SCOUT_STORE_TTL      - Expiry for Redis keys (default: none)
//	REDIS_URL            - Redis URL (redis store)
//	DATABASE_URL         - Postgres DSN (postgres store)
//	SCOUT_MCP_COMMAND    - Stdio MCP server whose tools are added (optional)
//	SCOUT_PORT           - Server port (default: 8080)
//	SCOUT_LOG_LEVEL      - debug, info, warn or error (default: info)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spetersoncode/scout/mcp"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("scout failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	mode := "chat"
	if len(args) > 0 {
		mode = args[0]
	}

	switch mode {
	case "chat", "serve", "mcp":
	case "-h", "--help", "help":
		fmt.Fprintln(os.Stderr, "usage: scout [chat|serve|mcp]")
		return nil
	default:
		return fmt.Errorf("unknown mode %q (want chat, serve or mcp)", mode)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Logs go to stderr; stdout carries the chat and the MCP protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	a, err := newApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	switch mode {
	case "serve":
		return runServe(a)
	case "mcp":
		return mcp.ServeStdio(a.registry, mcp.WithName("scout"), mcp.WithLogger(slog.Default()))
	default:
		return runChat(a, os.Stdin, os.Stdout)
	}
}
