// Package memory keeps long-term, per-user facts an agent can store and
// recall across conversations, and exposes them through a single "memory"
// tool.
//
// Memories are stored as JSON under "memory:<user>:<id>" in any
// [store.Adapter]. Retrieval ranks memories by how many of the query's
// words they share.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/spetersoncode/scout/store"
)

// DefaultLimit caps retrieve and list results when no limit is given.
const DefaultLimit = 5

const keyPrefix = "memory"

var (
	// ErrNotFound is returned when deleting a memory that does not exist.
	ErrNotFound = errors.New("memory: not found")

	// ErrEmpty is returned when storing blank content.
	ErrEmpty = errors.New("memory: content is empty")

	// ErrNoUser is returned when no user ID is given.
	ErrNoUser = errors.New("memory: user_id is required")
)

// Memory is one remembered fact about a user.
type Memory struct {
	ID        string    `json:"memory_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is a retrieved memory with its relevance score in (0, 1].
type Match struct {
	Memory
	Score float64
}

// Service stores memories in an adapter.
type Service struct {
	adapter store.Adapter
	now     func() time.Time
}

// NewService creates a Service backed by adapter.
func NewService(adapter store.Adapter) *Service {
	return &Service{adapter: adapter, now: time.Now}
}

// Key returns the storage key of a memory.
func Key(userID, id string) string {
	return store.Key(keyPrefix, userID, id)
}

// Store saves content for userID.
func (s *Service) Store(ctx context.Context, userID, content string) (Memory, error) {
	userID = strings.TrimSpace(userID)
	content = strings.TrimSpace(content)
	if userID == "" {
		return Memory{}, ErrNoUser
	}
	if content == "" {
		return Memory{}, ErrEmpty
	}

	m := Memory{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := store.SetJSON(ctx, s.adapter, Key(userID, m.ID), m); err != nil {
		return Memory{}, fmt.Errorf("memory: save: %w", err)
	}
	return m, nil
}

// List returns up to limit memories of userID, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Memory, error) {
	all, err := s.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all[:min(len(all), normalizeLimit(limit))], nil
}

// Retrieve returns up to limit memories of userID that share words with
// query, best match first. Ties go to the newer memory.
func (s *Service) Retrieve(ctx context.Context, userID, query string, limit int) ([]Match, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	all, err := s.all(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, m := range all {
		if score := overlap(terms, tokenize(m.Content)); score > 0 {
			matches = append(matches, Match{Memory: m, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches[:min(len(matches), normalizeLimit(limit))], nil
}

// Delete removes one memory of userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	key := Key(strings.TrimSpace(userID), strings.TrimSpace(id))
	ok, err := s.adapter.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("memory: lookup: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return s.adapter.Delete(ctx, key)
}

func (s *Service) all(ctx context.Context, userID string) ([]Memory, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrNoUser
	}

	keys, err := store.KeysWithPrefix(ctx, s.adapter, Key(userID, ""))
	if err != nil {
		return nil, fmt.Errorf("memory: list: %w", err)
	}

	out := make([]Memory, 0, len(keys))
	for _, k := range keys {
		var m Memory
		if err := store.GetJSON(ctx, s.adapter, k, &m); err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("memory: load: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func normalizeLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "do": true, "for": true, "from": true, "has": true,
	"have": true, "i": true, "in": true, "is": true, "it": true, "me": true,
	"my": true, "of": true, "on": true, "or": true, "that": true, "the": true,
	"to": true, "was": true, "what": true, "with": true, "you": true,
}

// tokenize returns the distinct lowercase words of s, minus stopwords.
func tokenize(s string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]bool, len(words))
	for _, w := range words {
		if !stopwords[w] {
			out[w] = true
		}
	}
	return out
}

// overlap is the fraction of query terms present in doc.
func overlap(query, doc map[string]bool) float64 {
	var hits int
	for t := range query {
		if doc[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}
