package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	rds "github.com/redis/go-redis/v9"
)

// RedisAdapter stores values as Redis strings under a key prefix.
// Only keys under the prefix are visible through the adapter, so several
// adapters can share one database.
type RedisAdapter struct {
	client *rds.Client
	prefix string
	ttl    time.Duration
}

// NewRedisAdapter wraps an existing client. A zero ttl stores keys without
// expiry.
func NewRedisAdapter(client *rds.Client, prefix string, ttl time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, prefix: prefix, ttl: ttl}
}

// ConnectRedis parses a redis:// URL, connects and pings the server.
func ConnectRedis(ctx context.Context, url, prefix string, ttl time.Duration) (*RedisAdapter, error) {
	opts, err := rds.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("store: parse redis url: %w", err)
	}
	client := rds.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: connect redis: %w", err)
	}
	return NewRedisAdapter(client, prefix, ttl), nil
}

// Close closes the underlying client.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

func (r *RedisAdapter) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + keySeparator + k
}

func (r *RedisAdapter) pattern() string {
	if r.prefix == "" {
		return "*"
	}
	return r.prefix + keySeparator + "*"
}

// Get retrieves a value by key.
func (r *RedisAdapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return json.RawMessage(val), true, nil
}

// Set stores a value by key.
func (r *RedisAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	return r.client.Set(ctx, r.key(key), []byte(value), r.ttl).Err()
}

// Delete removes a key.
func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Has returns true if the key exists.
func (r *RedisAdapter) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// scan returns the full Redis keys under the prefix.
func (r *RedisAdapter) scan(ctx context.Context) ([]string, error) {
	var cursor uint64
	var keys []string
	for {
		ks, cur, err := r.client.Scan(ctx, cursor, r.pattern(), 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, ks...)
		if cur == 0 {
			break
		}
		cursor = cur
	}
	return keys, nil
}

func (r *RedisAdapter) trim(full string) string {
	if r.prefix == "" {
		return full
	}
	return strings.TrimPrefix(full, r.prefix+keySeparator)
}

// Keys returns all keys under the prefix, without the prefix, sorted.
func (r *RedisAdapter) Keys(ctx context.Context) ([]string, error) {
	full, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(full))
	for i, k := range full {
		keys[i] = r.trim(k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of keys under the prefix.
func (r *RedisAdapter) Len(ctx context.Context) (int, error) {
	keys, err := r.scan(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Clear removes every key under the prefix.
func (r *RedisAdapter) Clear(ctx context.Context) error {
	keys, err := r.scan(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Load retrieves every key under the prefix.
func (r *RedisAdapter) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	keys, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		out[r.trim(keys[i])] = json.RawMessage(s)
	}
	return out, nil
}

// Save replaces everything under the prefix with data in one transaction.
func (r *RedisAdapter) Save(ctx context.Context, data map[string]json.RawMessage) error {
	existing, err := r.scan(ctx)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe rds.Pipeliner) error {
		if len(existing) > 0 {
			pipe.Del(ctx, existing...)
		}
		for k, v := range data {
			pipe.Set(ctx, r.key(k), []byte(v), r.ttl)
		}
		return nil
	})
	return err
}

var _ Adapter = (*RedisAdapter)(nil)
