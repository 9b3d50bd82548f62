package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spetersoncode/scout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-5-mini",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": "",
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "web_crawl", "arguments": "{\"url\":\"https://example.com\"}"}
      }]
    }
  }],
  "usage": {"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42}
}`

func TestConvertMessages(t *testing.T) {
	msgs := []scout.Message{
		scout.NewUserMessage("crawl example.com"),
		{Role: scout.RoleAssistant, ToolCalls: []scout.ToolCall{{ID: "call_1", Name: "web_crawl", Arguments: `{"url":"https://example.com"}`}}},
		scout.NewToolResultMessage(scout.ToolResult{ToolCallID: "call_1", Content: "RESULT 1:"}),
		{Role: scout.RoleAssistant, Content: "Done."},
	}

	got := convertMessages(msgs, "be brief")
	require.Len(t, got, 5)
	require.NotNil(t, got[0].OfSystem)
	require.NotNil(t, got[1].OfUser)
	require.NotNil(t, got[2].OfAssistant)
	assert.Len(t, got[2].OfAssistant.ToolCalls, 1)
	require.NotNil(t, got[3].OfTool)
	assert.Equal(t, "call_1", got[3].OfTool.ToolCallID)
	require.NotNil(t, got[4].OfAssistant)
}

func TestChat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionJSON)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	tools := []scout.Tool{{
		Name:        "web_crawl",
		Description: "Crawl a site",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"url":{"type":"string"}},"required":["url"]}`),
	}}

	resp, err := c.Chat(context.Background(),
		[]scout.Message{scout.NewUserMessage("crawl it")},
		scout.WithTools(tools), scout.WithToolChoice(scout.ToolChoiceAuto))
	require.NoError(t, err)

	assert.Equal(t, "tool_calls", resp.FinishReason)
	assert.Equal(t, scout.Usage{InputTokens: 30, OutputTokens: 12}, resp.Usage)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, scout.ToolCall{ID: "call_1", Name: "web_crawl", Arguments: `{"url":"https://example.com"}`}, resp.ToolCalls[0])

	assert.Equal(t, "gpt-5-mini", body["model"])
	assert.Equal(t, "auto", body["tool_choice"])
	require.Len(t, body["tools"], 1)
}

func TestChatCategorizesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"busy","type":"server_error"}}`)
	}))
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	_, err := c.Chat(context.Background(), []scout.Message{scout.NewUserMessage("hi")})
	require.Error(t, err)
	assert.True(t, scout.IsTransient(err))

	var se *scout.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode())
}
