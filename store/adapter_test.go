package store

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAdapterContract exercises the behavior every Adapter must share.
// The adapter must start empty.
func testAdapterContract(t *testing.T, adapter Adapter) {
	ctx := context.Background()

	t.Run("get set", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`"value1"`)))

		raw, ok, err := adapter.Get(ctx, "key1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `"value1"`, string(raw))

		_, ok, err = adapter.Get(ctx, "nonexistent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`{"n":2}`)))
		raw, _, err := adapter.Get(ctx, "key1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":2}`, string(raw))
	})

	t.Run("has and delete", func(t *testing.T) {
		has, err := adapter.Has(ctx, "key1")
		require.NoError(t, err)
		assert.True(t, has)

		require.NoError(t, adapter.Delete(ctx, "key1"))
		require.NoError(t, adapter.Delete(ctx, "key1"), "deleting a missing key is not an error")

		has, err = adapter.Has(ctx, "key1")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("keys and len", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, Key("booking", "b"), json.RawMessage(`1`)))
		require.NoError(t, adapter.Set(ctx, Key("booking", "a"), json.RawMessage(`2`)))
		require.NoError(t, adapter.Set(ctx, Key("memory", "x"), json.RawMessage(`3`)))

		n, err := adapter.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		keys, err := KeysWithPrefix(ctx, adapter, "booking:")
		require.NoError(t, err)
		assert.Equal(t, []string{"booking:a", "booking:b"}, keys)
	})

	t.Run("save replaces and load returns all", func(t *testing.T) {
		require.NoError(t, adapter.Save(ctx, map[string]json.RawMessage{
			"a": json.RawMessage(`"A"`),
			"b": json.RawMessage(`[1,2]`),
		}))

		data, err := adapter.Load(ctx)
		require.NoError(t, err)
		require.Len(t, data, 2)
		assert.JSONEq(t, `"A"`, string(data["a"]))
		assert.JSONEq(t, `[1,2]`, string(data["b"]))
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, adapter.Clear(ctx))
		n, err := adapter.Len(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestMemoryAdapter(t *testing.T) {
	testAdapterContract(t, NewMemoryAdapter())
}

func TestMemoryAdapter_CopiesValues(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	buf := json.RawMessage(`"abc"`)
	require.NoError(t, adapter.Set(ctx, "k", buf))
	buf[1] = 'X'

	raw, _, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(raw))
}

func TestMemoryAdapter_Concurrent(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = adapter.Set(ctx, "key", json.RawMessage(`1`))
		}()
		go func() {
			defer wg.Done()
			_, _, _ = adapter.Get(ctx, "key")
		}()
	}
	wg.Wait()
	has, _ := adapter.Has(ctx, "key")
	assert.True(t, has)
}

func TestRedisAdapter(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	adapter, err := ConnectRedis(ctx, url, "scout-test-"+uuid.NewString(), time.Minute)
	if err != nil {
		t.Skipf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = adapter.Clear(ctx)
		_ = adapter.Close()
	})
	testAdapterContract(t, adapter)
}

func TestPostgresAdapter(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	table := "scout_test_" + uuid.NewString()[:8]
	adapter, err := ConnectPostgres(ctx, dsn, table)
	if err != nil {
		t.Skipf("connect: %v", err)
	}
	t.Cleanup(func() {
		_, _ = adapter.pool.Exec(ctx, "DROP TABLE IF EXISTS "+adapter.table)
		_ = adapter.Close()
	})
	testAdapterContract(t, adapter)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "booking:Luigi's:abc", Key("booking", " Luigi's ", "abc"))
	assert.Equal(t, "booking:a_b:c", Key("booking", "a:b", "c"))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "etcd", "", "", 0)
	assert.ErrorIs(t, err, ErrUnknownBackend)

	a, err := Open(context.Background(), "", "", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryAdapter{}, a)
}
