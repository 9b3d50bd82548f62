package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/tool"
)

// Default identity reported to MCP clients.
const (
	DefaultName    = "scout"
	DefaultVersion = "0.1.0"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	logger  *slog.Logger
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger used for tool call logging.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		c.logger = logger
	}
}

// NewServer creates an MCP server exposing every tool in registry. Calls go
// through [tool.Registry.Execute], so handler failures reach the client as
// error results rather than protocol errors.
//
//	registry := tool.NewRegistry().Add(tool.NewSearchTool(tavily))
//	s := mcp.NewServer(registry, mcp.WithName("scout"))
//	server.ServeStdio(s)
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    DefaultName,
		version: DefaultVersion,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, t := range registry.Tools() {
		s.AddTool(ToMCPTool(t), callHandler(registry, t.Name, cfg.logger))
	}

	return s
}

func callHandler(registry *tool.Registry, name string, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			args = string(data)
		}

		call := scout.ToolCall{
			ID:        "mcp_" + uuid.NewString(),
			Name:      name,
			Arguments: args,
		}

		result, err := registry.Execute(ctx, call)
		if err != nil {
			logger.Warn("mcp tool call failed", "tool", name, "error", err)
		} else {
			logger.Debug("mcp tool call", "tool", name)
		}
		return ToMCPCallToolResult(result), nil
	}
}

// ServeStdio serves registry over stdin/stdout until the client disconnects.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
