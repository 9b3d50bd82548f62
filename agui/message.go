package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/scout"
)

// Role constants matching the AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ToMessages converts AG-UI messages to scout messages.
func ToMessages(msgs []events.Message) []scout.Message {
	out := make([]scout.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, ToMessage(msg))
	}
	return out
}

// ToMessage converts a single AG-UI message. Unknown roles become user
// messages.
func ToMessage(msg events.Message) scout.Message {
	m := scout.Message{ID: msg.ID, Role: toRole(msg.Role)}
	if m.ID == "" {
		m.ID = scout.GenerateMessageID()
	}

	var content string
	if msg.Content != nil {
		content = *msg.Content
	}

	if m.Role == scout.RoleTool {
		var callID string
		if msg.ToolCallID != nil {
			callID = *msg.ToolCallID
		}
		m.ToolResults = []scout.ToolResult{{ToolCallID: callID, Content: content}}
		return m
	}

	m.Content = content
	for _, tc := range msg.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, scout.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return m
}

// FromMessages converts scout messages to AG-UI messages, for example to
// build a MESSAGES_SNAPSHOT. A tool message carrying several results expands
// into one AG-UI message per result.
func FromMessages(msgs []scout.Message) []events.Message {
	out := make([]events.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, FromMessage(msg)...)
	}
	return out
}

// FromMessage converts a single scout message.
func FromMessage(msg scout.Message) []events.Message {
	id := msg.ID
	if id == "" {
		id = events.GenerateMessageID()
	}

	if msg.Role == scout.RoleTool {
		out := make([]events.Message, 0, len(msg.ToolResults))
		for i, tr := range msg.ToolResults {
			mid := id
			if i > 0 {
				mid = events.GenerateMessageID()
			}
			out = append(out, events.Message{
				ID:         mid,
				Role:       RoleTool,
				Content:    ptr(tr.Content),
				ToolCallID: ptr(tr.ToolCallID),
			})
		}
		return out
	}

	m := events.Message{ID: id, Role: fromRole(msg.Role)}
	if msg.Content != "" {
		m.Content = ptr(msg.Content)
	}
	for _, tc := range msg.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, events.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: events.Function{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return []events.Message{m}
}

func toRole(role string) scout.Role {
	switch role {
	case RoleAssistant:
		return scout.RoleAssistant
	case RoleSystem:
		return scout.RoleSystem
	case RoleTool:
		return scout.RoleTool
	default:
		return scout.RoleUser
	}
}

func fromRole(role scout.Role) string {
	switch role {
	case scout.RoleAssistant:
		return RoleAssistant
	case scout.RoleSystem:
		return RoleSystem
	case scout.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}

func ptr(s string) *string { return &s }
