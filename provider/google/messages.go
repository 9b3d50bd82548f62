package google

import (
	"encoding/json"

	"github.com/spetersoncode/scout"
	"google.golang.org/genai"
)

// convertMessages maps a conversation onto Gemini contents. System
// messages are returned separately for the system instruction.
func convertMessages(messages []scout.Message) ([]*genai.Content, []*genai.Part) {
	var contents []*genai.Content
	var system []*genai.Part

	for _, msg := range messages {
		switch msg.Role {
		case scout.RoleSystem:
			if msg.Content != "" {
				system = append(system, &genai.Part{Text: msg.Content})
			}
			continue
		case scout.RoleTool:
			parts := make([]*genai.Part, 0, len(msg.ToolResults))
			for _, tr := range msg.ToolResults {
				parts = append(parts, &genai.Part{FunctionResponse: functionResponse(tr)})
			}
			if len(parts) == 0 {
				continue
			}
			// Responses to one model turn travel together.
			if n := len(contents); n > 0 && isFunctionResponses(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, parts...)
				continue
			}
			contents = append(contents, &genai.Content{Role: "user", Parts: parts})
			continue
		}

		role := "user"
		if msg.Role == scout.RoleAssistant {
			role = "model"
		}

		var parts []*genai.Part
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}
		for _, tc := range msg.ToolCalls {
			var args map[string]any
			_ = json.Unmarshal([]byte(tc.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args},
			})
		}
		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	return contents, system
}

// functionResponse wraps a tool result. Gemini matches responses by
// function name; JSON object results are passed through as structured data.
func functionResponse(tr scout.ToolResult) *genai.FunctionResponse {
	var response map[string]any
	if err := json.Unmarshal([]byte(tr.Content), &response); err != nil || response == nil {
		key := "output"
		if tr.IsError {
			key = "error"
		}
		response = map[string]any{key: tr.Content}
	}
	return &genai.FunctionResponse{ID: tr.ToolCallID, Name: tr.Name, Response: response}
}

func isFunctionResponses(c *genai.Content) bool {
	if len(c.Parts) == 0 {
		return false
	}
	for _, p := range c.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return true
}
