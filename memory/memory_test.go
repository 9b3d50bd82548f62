package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/store"
	"github.com/spetersoncode/scout/tool"
)

// newTestService returns a service whose clock advances one minute per
// stored memory, so insertion order is observable.
func newTestService() *Service {
	s := NewService(store.NewMemoryAdapter())
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var n int
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func TestStoreValidation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Store(ctx, "", "likes tea")
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = s.Store(ctx, "u1", "   ")
	assert.ErrorIs(t, err, ErrEmpty)

	m, err := s.Store(ctx, " u1 ", " likes tea ")
	require.NoError(t, err)
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, "likes tea", m.Content)
	assert.NotEmpty(t, m.ID)
}

func TestRetrieveRanksByOverlap(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	for _, c := range []string{
		"Allergic to peanuts",
		"Prefers Italian restaurants in Rome",
		"Favourite Italian dish is carbonara",
		"Works as a nurse",
	} {
		_, err := s.Store(ctx, "u1", c)
		require.NoError(t, err)
	}
	_, err := s.Store(ctx, "u2", "Italian restaurants are the best")
	require.NoError(t, err)

	matches, err := s.Retrieve(ctx, "u1", "Italian restaurants?", 0)
	require.NoError(t, err)
	require.Len(t, matches, 2, "other users and unrelated memories are excluded")
	assert.Equal(t, "Prefers Italian restaurants in Rome", matches[0].Content)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Equal(t, "Favourite Italian dish is carbonara", matches[1].Content)
	assert.Equal(t, 0.5, matches[1].Score)

	limited, err := s.Retrieve(ctx, "u1", "italian", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Favourite Italian dish is carbonara", limited[0].Content, "newer memory wins a tie")

	none, err := s.Retrieve(ctx, "u1", "the and of", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListAndDelete(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	first, err := s.Store(ctx, "u1", "first")
	require.NoError(t, err)
	_, err = s.Store(ctx, "u1", "second")
	require.NoError(t, err)

	list, err := s.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)

	require.NoError(t, s.Delete(ctx, "u1", first.ID))
	assert.ErrorIs(t, s.Delete(ctx, "u1", first.ID), ErrNotFound)

	list, err = s.List(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTokenize(t *testing.T) {
	got := tokenize("The user's favourite city is Paris, France!")
	assert.True(t, got["paris"])
	assert.True(t, got["france"])
	assert.True(t, got["favourite"])
	assert.False(t, got["the"])
	assert.False(t, got["is"])
}

func TestMemoryTool(t *testing.T) {
	ctx := context.Background()
	registry := tool.NewRegistry().Add(NewTool(newTestService()))

	exec := func(args string) string {
		t.Helper()
		res, err := registry.Execute(ctx, scout.ToolCall{ID: "c", Name: "memory", Arguments: args})
		require.NoError(t, err)
		require.False(t, res.IsError)
		return res.Content
	}

	out := exec(`{"action":"store","user_id":"u1","content":"Vegetarian, no mushrooms"}`)
	require.True(t, strings.HasPrefix(out, "Stored memory "))
	id := strings.TrimSuffix(strings.TrimPrefix(out, "Stored memory "), ".")

	out = exec(`{"action":"retrieve","user_id":"u1","query":"is the guest vegetarian"}`)
	assert.Equal(t, "1. ["+id+"] Vegetarian, no mushrooms", out)

	assert.Equal(t, "No relevant memories found.", exec(`{"action":"retrieve","user_id":"u1","query":"wine"}`))
	assert.Equal(t, "A query is required to retrieve memories.", exec(`{"action":"retrieve","user_id":"u1"}`))
	assert.Contains(t, exec(`{"action":"list","user_id":"u1"}`), "Vegetarian")

	assert.Equal(t, "Deleted memory "+id+".", exec(`{"action":"delete","user_id":"u1","memory_id":"`+id+`"}`))
	assert.Equal(t, "No memories stored.", exec(`{"action":"list","user_id":"u1"}`))
	assert.Equal(t, "No memory found with ID "+id+".", exec(`{"action":"delete","user_id":"u1","memory_id":"`+id+`"}`))

	assert.Equal(t, "A user_id is required.", exec(`{"action":"list"}`))
	assert.Contains(t, exec(`{"action":"forget","user_id":"u1"}`), `Unknown action "forget"`)
	assert.Equal(t, "Nothing to store: content is empty.", exec(`{"action":"store","user_id":"u1"}`))
}
