package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spetersoncode/scout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageJSON = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5",
  "content": [
    {"type": "text", "text": "Let me check."},
    {"type": "tool_use", "id": "toolu_01", "name": "web_search", "input": {"query": "paris weather"}}
  ],
  "stop_reason": "tool_use",
  "stop_sequence": null,
  "usage": {"input_tokens": 42, "output_tokens": 7}
}`

func TestConvertMessages(t *testing.T) {
	msgs := []scout.Message{
		{Role: scout.RoleSystem, Content: "be helpful"},
		{Role: scout.RoleUser, Content: "weather in Paris and Rome?"},
		{Role: scout.RoleAssistant, ToolCalls: []scout.ToolCall{
			{ID: "a", Name: "web_search", Arguments: `{"query":"paris"}`},
			{ID: "b", Name: "web_search", Arguments: `not json`},
		}},
		scout.NewToolResultMessage(scout.ToolResult{ToolCallID: "a", Content: "sunny"}),
		scout.NewToolResultMessage(scout.ToolResult{ToolCallID: "b", Content: "Error: timeout", IsError: true}),
		{Role: scout.RoleAssistant, Content: "Sunny in Paris."},
		{Role: scout.RoleUser, Content: ""},
	}

	got, system := convertMessages(msgs)

	require.Len(t, system, 1)
	assert.Equal(t, "be helpful", system[0].Text)

	require.Len(t, got, 4, "empty user message dropped, tool results merged")
	assert.Len(t, got[1].Content, 2)
	require.Len(t, got[2].Content, 2)
	require.NotNil(t, got[2].Content[0].OfToolResult)
	assert.Equal(t, "a", got[2].Content[0].OfToolResult.ToolUseID)
	require.NotNil(t, got[2].Content[1].OfToolResult)
	assert.Equal(t, "b", got[2].Content[1].OfToolResult.ToolUseID)
}

func TestToolInput(t *testing.T) {
	assert.Equal(t, map[string]any{"q": "x"}, toolInput(`{"q":"x"}`))
	assert.Equal(t, map[string]any{}, toolInput(""))
	assert.Equal(t, map[string]any{}, toolInput(`"just a string"`))
}

func TestChat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageJSON)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL), WithModel(ClaudeHaiku45))
	tools := []scout.Tool{{
		Name:        "web_search",
		Description: "Search the web",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`),
	}}

	resp, err := c.Chat(context.Background(),
		[]scout.Message{scout.NewUserMessage("weather?")},
		scout.WithSystem("be brief"), scout.WithTools(tools), scout.WithMaxTokens(256))
	require.NoError(t, err)

	assert.Equal(t, "Let me check.", resp.Content)
	assert.Equal(t, "tool_use", resp.FinishReason)
	assert.Equal(t, scout.Usage{InputTokens: 42, OutputTokens: 7}, resp.Usage)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "toolu_01", resp.ToolCalls[0].ID)
	assert.JSONEq(t, `{"query":"paris weather"}`, resp.ToolCalls[0].Arguments)

	assert.Equal(t, "claude-haiku-4-5", body["model"])
	assert.EqualValues(t, 256, body["max_tokens"])
	require.Len(t, body["tools"], 1)
	system := body["system"].([]any)
	assert.Equal(t, "be brief", system[0].(map[string]any)["text"])
}

func TestChatCategorizesErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		transient bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"overloaded", 529, true},
		{"unauthorized", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "2")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"nope"}}`)
			}))
			defer srv.Close()

			c := New("k", WithBaseURL(srv.URL))
			_, err := c.Chat(context.Background(), []scout.Message{scout.NewUserMessage("hi")})
			require.Error(t, err)

			var se *scout.Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode())
			assert.Equal(t, tt.transient, scout.IsTransient(err))
			assert.Equal(t, 2*time.Second, scout.RetryAfterOf(err))
		})
	}
}
