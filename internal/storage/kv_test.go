package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, found, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))
	v, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", v)

	require.NoError(t, kv.Close())
	assert.ErrorIs(t, kv.Set(ctx, "k", "v3"), ErrClosed)
}

func TestSQLiteKVUpsertAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)

	_, found, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, DefaultKey, "[]"))
	require.NoError(t, kv.Set(ctx, DefaultKey, `[{"id":"a"}]`))
	require.NoError(t, kv.Ping(ctx))
	require.NoError(t, kv.Close())

	// Migrations are idempotent and data survives the reopen.
	kv, err = NewSQLiteKV(path)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	v, found, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, v)
}
