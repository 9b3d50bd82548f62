package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/tool"
)

// Remote is a connection to an external MCP server whose tools can be
// registered alongside local ones.
type Remote struct {
	client *client.Client
	tools  []scout.Tool
}

// Dial starts command as a stdio MCP server and lists its tools.
func Dial(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: start %s: %w", command, err)
	}
	return Connect(ctx, c)
}

// Connect initializes an MCP session over c and lists its tools. The
// client is closed if the session cannot be established.
func Connect(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    DefaultName,
				Version: DefaultVersion,
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize: %w", err)
	}

	list, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: list tools: %w", err)
	}

	r := &Remote{client: c}
	for _, t := range list.Tools {
		r.tools = append(r.tools, FromMCPTool(t))
	}
	return r, nil
}

// Tools returns the tools the server advertised at connect time.
func (r *Remote) Tools() []scout.Tool {
	out := make([]scout.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// RegisterInto adds every remote tool to registry with a handler that
// proxies the call. A remote error result is returned as a handler error so
// the registry reports it to the model.
func (r *Remote) RegisterInto(registry *tool.Registry) error {
	var errs []error
	for _, t := range r.tools {
		if err := registry.Register(t, r.handler(t.Name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Remote) handler(name string) tool.Handler {
	return func(ctx context.Context, call scout.ToolCall) (string, error) {
		var args map[string]any
		if err := tool.DecodeArgs(call.Arguments, &args); err != nil {
			return "", err
		}

		result, err := r.client.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: args},
		})
		if err != nil {
			return "", err
		}

		text := resultText(result)
		if result.IsError {
			return "", errors.New(text)
		}
		return text, nil
	}
}

// Close shuts down the connection.
func (r *Remote) Close() error {
	return r.client.Close()
}
