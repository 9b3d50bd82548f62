package google

import (
	"encoding/json"
	"testing"

	"github.com/spetersoncode/scout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertMessages(t *testing.T) {
	msgs := []scout.Message{
		{Role: scout.RoleSystem, Content: "be helpful"},
		scout.NewUserMessage("weather in Paris and Rome?"),
		{Role: scout.RoleAssistant, ToolCalls: []scout.ToolCall{
			{ID: "a", Name: "web_search", Arguments: `{"query":"paris"}`},
			{ID: "b", Name: "web_search", Arguments: `{"query":"rome"}`},
		}},
		scout.NewToolResultMessage(scout.ToolResult{ToolCallID: "a", Name: "web_search", Content: "sunny"}),
		scout.NewToolResultMessage(scout.ToolResult{ToolCallID: "b", Name: "web_search", Content: `{"temp":21}`}),
		{Role: scout.RoleAssistant, Content: "Both sunny."},
	}

	contents, system := convertMessages(msgs)

	require.Len(t, system, 1)
	assert.Equal(t, "be helpful", system[0].Text)

	require.Len(t, contents, 4)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	require.Len(t, contents[1].Parts, 2)
	assert.Equal(t, map[string]any{"query": "paris"}, contents[1].Parts[0].FunctionCall.Args)

	responses := contents[2].Parts
	require.Len(t, responses, 2, "results of one turn share a content")
	assert.Equal(t, "web_search", responses[0].FunctionResponse.Name)
	assert.Equal(t, map[string]any{"output": "sunny"}, responses[0].FunctionResponse.Response)
	assert.Equal(t, map[string]any{"temp": float64(21)}, responses[1].FunctionResponse.Response)

	assert.Equal(t, "Both sunny.", contents[3].Parts[0].Text)
}

func TestFunctionResponseError(t *testing.T) {
	fr := functionResponse(scout.ToolResult{ToolCallID: "x", Name: "web_crawl", Content: "Error: boom", IsError: true})
	assert.Equal(t, map[string]any{"error": "Error: boom"}, fr.Response)
	assert.Equal(t, "x", fr.ID)
}

func TestConvertJSONSchema(t *testing.T) {
	schema := convertJSONSchema(json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The search query"},
			"time_range": {"type": "string", "enum": ["day", "week"]},
			"include_domains": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["query"]
	}`))
	require.NotNil(t, schema)

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"query"}, schema.Required)
	assert.Equal(t, "The search query", schema.Properties["query"].Description)
	assert.Equal(t, []string{"day", "week"}, schema.Properties["time_range"].Enum)
	assert.Equal(t, genai.TypeString, schema.Properties["include_domains"].Items.Type)

	assert.Nil(t, convertJSONSchema(nil))
	assert.Nil(t, convertJSONSchema(json.RawMessage(`not json`)))
}

func TestExtractToolCalls(t *testing.T) {
	parts := []*genai.Part{
		{Text: "thinking out loud"},
		{FunctionCall: &genai.FunctionCall{Name: "web_search", Args: map[string]any{"query": "go"}}},
		{FunctionCall: &genai.FunctionCall{ID: "given", Name: "web_crawl", Args: map[string]any{"url": "https://go.dev"}}},
	}

	calls := extractToolCalls(parts)
	require.Len(t, calls, 2)
	assert.Equal(t, "call_1_web_search", calls[0].ID)
	assert.JSONEq(t, `{"query":"go"}`, calls[0].Arguments)
	assert.Equal(t, "given", calls[1].ID)
}

func TestConvertToolChoice(t *testing.T) {
	assert.Equal(t, genai.FunctionCallingConfigModeAny, convertToolChoice(scout.ToolChoiceRequired).FunctionCallingConfig.Mode)
	assert.Equal(t, genai.FunctionCallingConfigModeNone, convertToolChoice(scout.ToolChoiceNone).FunctionCallingConfig.Mode)
	assert.Equal(t, genai.FunctionCallingConfigModeAuto, convertToolChoice(scout.ToolChoiceAuto).FunctionCallingConfig.Mode)
}

func TestBlockedErrorIsNotRetried(t *testing.T) {
	err := &BlockedError{Reason: "SAFETY"}
	assert.False(t, scout.IsTransient(err))
	assert.Contains(t, err.Error(), "SAFETY")
}
