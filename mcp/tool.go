package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/scout"
)

// emptySchema is advertised for tools without parameters; MCP requires an
// object schema.
var emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

// ToMCPTool converts a scout Tool to an MCP Tool using its parameter schema
// as the raw input schema.
func ToMCPTool(t scout.Tool) mcp.Tool {
	schema := t.Parameters
	if len(schema) == 0 {
		schema = emptySchema
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
}

// FromMCPTool converts an MCP Tool to a scout Tool.
func FromMCPTool(t mcp.Tool) scout.Tool {
	schema := t.RawInputSchema
	if len(schema) == 0 {
		if data, err := json.Marshal(t.InputSchema); err == nil {
			schema = data
		}
	}
	return scout.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// ToMCPCallToolResult converts a tool result for an MCP client.
func ToMCPCallToolResult(result scout.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}

// resultText flattens an MCP call result to text. Non-text content is
// included as JSON.
func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}
	return strings.Join(parts, "\n")
}
