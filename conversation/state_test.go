package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(i int) []scout.Message {
	return []scout.Message{
		{Role: scout.RoleUser, Content: fmt.Sprintf("q%d", i)},
		{Role: scout.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
	}
}

func contents(msgs []scout.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestWindowKeepsMostRecentPairs(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 20} {
		for _, m := range []int{n + 1, n + 2, 2*n + 3} {
			t.Run(fmt.Sprintf("N=%d M=%d", n, m), func(t *testing.T) {
				s := New(WithWindowSize(n))
				for i := 0; i < m; i++ {
					s.Append(pair(i)...)
				}

				var want []string
				for i := m - n; i < m; i++ {
					want = append(want, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
				}
				assert.Equal(t, want, contents(s.Snapshot()))
				assert.Equal(t, n, s.Exchanges())
			})
		}
	}
}

func TestWindowKeepsToolTrafficWithItsExchange(t *testing.T) {
	s := New(WithWindowSize(1))
	s.Append(pair(0)...)
	s.Append(
		scout.Message{Role: scout.RoleUser, Content: "weather?"},
		scout.Message{Role: scout.RoleAssistant, ToolCalls: []scout.ToolCall{{ID: "c1", Name: "web_search"}}},
		scout.NewToolResultMessage(scout.ToolResult{ToolCallID: "c1", Content: "Sunny"}),
		scout.Message{Role: scout.RoleAssistant, Content: "It is sunny."},
	)

	snap := s.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, "weather?", snap[0].Content)
	assert.Equal(t, scout.RoleTool, snap[2].Role)
	assert.Equal(t, 1, s.Exchanges())
}

func TestWindowSizeFloor(t *testing.T) {
	s := New(WithWindowSize(0))
	assert.Equal(t, 1, s.WindowSize())
	assert.Equal(t, DefaultWindowSize, New().WindowSize())
}

func TestLeadingNonUserMessagesFormAnExchange(t *testing.T) {
	s := New(WithWindowSize(1))
	s.Append(scout.Message{Role: scout.RoleAssistant, Content: "Hi, how can I help?"})
	assert.Equal(t, 1, s.Exchanges())

	s.Append(pair(1)...)
	assert.Equal(t, []string{"q1", "a1"}, contents(s.Snapshot()))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Append(scout.Message{Role: scout.RoleAssistant, ToolCalls: []scout.ToolCall{{ID: "c1", Name: "search"}}})

	snap := s.Snapshot()
	snap[0].Content = "tampered"
	snap[0].ToolCalls[0].Name = "tampered"

	again := s.Snapshot()
	require.Len(t, again, 1)
	assert.Empty(t, again[0].Content)
	assert.Equal(t, "search", again[0].ToolCalls[0].Name)
}

func TestAppendCopiesInput(t *testing.T) {
	s := New()
	calls := []scout.ToolCall{{ID: "c1", Name: "search"}}
	s.Append(scout.Message{Role: scout.RoleAssistant, ToolCalls: calls})
	calls[0].Name = "changed"

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "search", last.ToolCalls[0].Name)
}

func TestClearKeepsAgentState(t *testing.T) {
	s := New()
	s.AgentState().Set("user_id", "u-1")
	s.Append(pair(0)...)

	s.Clear()
	assert.Zero(t, s.Len())
	_, ok := s.Last()
	assert.False(t, ok)
	assert.Equal(t, "u-1", s.AgentState().GetString("user_id"))
}

func TestWithAgentState(t *testing.T) {
	st := store.NewFrom(map[string]any{"k": "v"})
	s := New(WithAgentState(st))
	assert.Same(t, st, s.AgentState())
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewMemoryAdapter()
	key := store.Key("conversation", "session-1")

	s := New(WithWindowSize(5))
	for i := 0; i < 3; i++ {
		s.Append(pair(i)...)
	}
	require.NoError(t, s.Save(ctx, adapter, key))

	restored := New(WithWindowSize(2))
	require.NoError(t, restored.Load(ctx, adapter, key))
	assert.Equal(t, []string{"q1", "a1", "q2", "a2"}, contents(restored.Snapshot()))

	assert.ErrorIs(t, New().Load(ctx, adapter, "missing"), store.ErrKeyNotFound)
}
