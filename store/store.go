package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Store is an in-process key-value cache over one namespace of an Adapter.
// Reads and writes touch only the cache; Sync and Reload move the namespace
// to and from the adapter. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	adapter   Adapter
	namespace string
	cache     map[string]any
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNamespace scopes Sync and Reload to keys under ns, so several stores
// (one per session, say) can share an adapter.
func WithNamespace(ns string) StoreOption {
	return func(s *Store) { s.namespace = ns }
}

// New creates a Store over adapter.
// If adapter is nil, a default in-memory adapter is used.
func New(adapter Adapter, opts ...StoreOption) *Store {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	s := &Store{
		adapter: adapter,
		cache:   make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFrom creates an in-memory Store initialized with data.
func NewFrom(data map[string]any) *Store {
	s := New(nil)
	for k, v := range data {
		s.cache[k] = v
	}
	return s
}

// Get retrieves a value from the store.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[key]
	return v, ok
}

// GetString retrieves a string value. Returns "" if missing or not a string.
func (s *Store) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt retrieves an int value. Returns 0 if missing or not numeric.
// Handles float64 from JSON unmarshaling.
func (s *Store) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return 0
}

// GetBool retrieves a bool value. Returns false if missing or not a bool.
func (s *Store) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Set stores a value in the store.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = value
}

// Delete removes a key from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
}

// Has returns true if the key exists.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[key]
	return ok
}

// Keys returns all keys in the store.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of keys in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Clone creates a shallow copy of the store over a new in-memory adapter.
func (s *Store) Clone() *Store {
	return NewFrom(s.Data())
}

// Data returns a shallow copy of the cached values.
func (s *Store) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := make(map[string]any, len(s.cache))
	for k, v := range s.cache {
		data[k] = v
	}
	return data
}

func (s *Store) fullKey(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + keySeparator + k
}

// Sync writes the cache to the adapter, replacing whatever the namespace
// held before. Keys outside the namespace are left alone.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.RLock()
	data := make(map[string]json.RawMessage, len(s.cache))
	for k, v := range s.cache {
		raw, err := json.Marshal(v)
		if err != nil {
			s.mu.RUnlock()
			return &SerializationError{Key: k, Err: err}
		}
		data[s.fullKey(k)] = raw
	}
	s.mu.RUnlock()

	if s.namespace == "" {
		return s.adapter.Save(ctx, data)
	}

	stale, err := KeysWithPrefix(ctx, s.adapter, s.namespace+keySeparator)
	if err != nil {
		return err
	}
	for _, k := range stale {
		if _, keep := data[k]; keep {
			continue
		}
		if err := s.adapter.Delete(ctx, k); err != nil {
			return err
		}
	}
	for k, raw := range data {
		if err := s.adapter.Set(ctx, k, raw); err != nil {
			return err
		}
	}
	return nil
}

// Reload replaces the cache with the namespace's contents in the adapter.
// A namespaced store fetches only its own keys.
func (s *Store) Reload(ctx context.Context) error {
	if s.namespace == "" {
		data, err := s.adapter.Load(ctx)
		if err != nil {
			return err
		}
		return s.replaceCache(data, "")
	}

	prefix := s.namespace + keySeparator
	keys, err := KeysWithPrefix(ctx, s.adapter, prefix)
	if err != nil {
		return err
	}
	data := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw, ok, err := s.adapter.Get(ctx, k)
		if err != nil {
			return err
		}
		if ok {
			data[k] = raw
		}
	}
	return s.replaceCache(data, prefix)
}

func (s *Store) replaceCache(data map[string]json.RawMessage, prefix string) error {
	cache := make(map[string]any, len(data))
	for k, raw := range data {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return &SerializationError{Key: k, Err: err}
		}
		cache[strings.TrimPrefix(k, prefix)] = v
	}

	s.mu.Lock()
	s.cache = cache
	s.mu.Unlock()
	return nil
}

// Adapter returns the underlying adapter.
func (s *Store) Adapter() Adapter {
	return s.adapter
}

// Open builds an adapter for a backend name: "memory", "redis" (url is a
// redis:// URL) or "postgres" (url is a DSN). The prefix scopes Redis keys
// and names the Postgres table.
func Open(ctx context.Context, backend, url, prefix string, ttl time.Duration) (Adapter, error) {
	switch strings.ToLower(backend) {
	case "", "memory":
		return NewMemoryAdapter(), nil
	case "redis":
		return ConnectRedis(ctx, url, prefix, ttl)
	case "postgres", "postgresql":
		table := DefaultPostgresTable
		if prefix != "" {
			table = prefix + "_kv"
		}
		return ConnectPostgres(ctx, url, table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
