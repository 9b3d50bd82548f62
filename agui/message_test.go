package agui

import (
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/scout"
)

func TestToMessages(t *testing.T) {
	msgs := ToMessages([]events.Message{
		{ID: "u1", Role: RoleUser, Content: ptr("find flights")},
		{ID: "a1", Role: RoleAssistant, ToolCalls: []events.ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: events.Function{Name: "web_search", Arguments: `{"query":"flights"}`},
		}}},
		{ID: "t1", Role: RoleTool, Content: ptr("3 results"), ToolCallID: ptr("call_1")},
		{Role: "developer", Content: ptr("odd role")},
	})

	require.Len(t, msgs, 4)

	assert.Equal(t, scout.RoleUser, msgs[0].Role)
	assert.Equal(t, "u1", msgs[0].ID)
	assert.Equal(t, "find flights", msgs[0].Content)

	assert.Equal(t, scout.RoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].ToolCalls, 1)
	assert.Equal(t, scout.ToolCall{ID: "call_1", Name: "web_search", Arguments: `{"query":"flights"}`}, msgs[1].ToolCalls[0])

	assert.Equal(t, scout.RoleTool, msgs[2].Role)
	assert.Empty(t, msgs[2].Content)
	assert.Equal(t, []scout.ToolResult{{ToolCallID: "call_1", Content: "3 results"}}, msgs[2].ToolResults)

	assert.Equal(t, scout.RoleUser, msgs[3].Role)
	assert.NotEmpty(t, msgs[3].ID)
}

func TestFromMessages(t *testing.T) {
	out := FromMessages([]scout.Message{
		{ID: "u1", Role: scout.RoleUser, Content: "hi"},
		{ID: "a1", Role: scout.RoleAssistant, ToolCalls: []scout.ToolCall{{ID: "c1", Name: "web_search", Arguments: "{}"}}},
		{ID: "t1", Role: scout.RoleTool, ToolResults: []scout.ToolResult{
			{ToolCallID: "c1", Content: "one"},
			{ToolCallID: "c2", Content: "two"},
		}},
	})

	require.Len(t, out, 4)

	assert.Equal(t, RoleUser, out[0].Role)
	require.NotNil(t, out[0].Content)
	assert.Equal(t, "hi", *out[0].Content)

	assert.Equal(t, RoleAssistant, out[1].Role)
	assert.Nil(t, out[1].Content)
	require.Len(t, out[1].ToolCalls, 1)
	assert.Equal(t, "function", out[1].ToolCalls[0].Type)
	assert.Equal(t, "web_search", out[1].ToolCalls[0].Function.Name)

	assert.Equal(t, "t1", out[2].ID)
	assert.Equal(t, "c1", *out[2].ToolCallID)
	assert.Equal(t, "two", *out[3].Content)
	assert.NotEqual(t, out[2].ID, out[3].ID)
}

func TestMessageRoundTripKeepsToolPairing(t *testing.T) {
	orig := []scout.Message{
		scout.NewUserMessage("q"),
		scout.NewAssistantMessage("", scout.ToolCall{ID: "c1", Name: "web_extract", Arguments: `{"urls":["https://go.dev"]}`}),
		scout.NewToolResultMessage(scout.ToolResult{ToolCallID: "c1", Content: "page"}),
	}

	back := ToMessages(FromMessages(orig))
	require.Len(t, back, 3)
	assert.Equal(t, orig[1].ToolCalls, back[1].ToolCalls)
	assert.Equal(t, "c1", back[2].ToolResults[0].ToolCallID)
	assert.Equal(t, "page", back[2].ToolResults[0].Content)
}
