// Package store provides key-value persistence for conversations, agent
// state, bookings and memories.
//
// An [Adapter] is the persistence backend: [MemoryAdapter] for tests and
// single-process use, [RedisAdapter] and [PostgresAdapter] for anything that
// must survive a restart or be shared between replicas. Values are raw JSON.
//
// A [Store] is a typed, in-process cache over a namespace of an adapter,
// used as the agent's scratchpad between turns.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
)

// Adapter defines the interface for persistence backends.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Get retrieves a value by key. Returns nil, false, nil if not found.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Set stores a value by key.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes a key. No error if key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Has returns true if the key exists.
	Has(ctx context.Context, key string) (bool, error)

	// Keys returns all keys.
	Keys(ctx context.Context) ([]string, error)

	// Len returns the number of stored keys.
	Len(ctx context.Context) (int, error)

	// Clear removes all data.
	Clear(ctx context.Context) error

	// Load retrieves all data as a map.
	Load(ctx context.Context) (map[string]json.RawMessage, error)

	// Save stores all data from a map, replacing existing data.
	Save(ctx context.Context, data map[string]json.RawMessage) error
}

const keySeparator = ":"

// Key builds a composite key from parts, e.g. Key("booking", "Nonna's", id)
// yields "booking:Nonna's:<id>". Separators inside a part are replaced so
// parts cannot collide.
func Key(parts ...string) string {
	clean := make([]string, len(parts))
	for i, p := range parts {
		clean[i] = strings.ReplaceAll(strings.TrimSpace(p), keySeparator, "_")
	}
	return strings.Join(clean, keySeparator)
}

// KeysWithPrefix returns the sorted keys of a that start with prefix.
func KeysWithPrefix(ctx context.Context, a Adapter, prefix string) ([]string, error) {
	keys, err := a.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetJSON reads key from a and decodes it into v.
// Returns ErrKeyNotFound when the key is absent.
func GetJSON(ctx context.Context, a Adapter, key string, v any) error {
	raw, ok, err := a.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyNotFound
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return nil
}

// SetJSON encodes v and writes it to a under key.
func SetJSON(ctx context.Context, a Adapter, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return a.Set(ctx, key, raw)
}
