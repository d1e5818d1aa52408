package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "garage.json")
	store := NewFileStore(path)

	_, err := store.Get(ctx, "fleet")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "fleet", `[{"id":"ABC1234"}]`))
	value, err := store.Get(ctx, "fleet")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"ABC1234"}]`, value)

	// A fresh store on the same file sees the value.
	reopened := NewFileStore(path)
	value, err = reopened.Get(ctx, "fleet")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"ABC1234"}]`, value)

	require.NoError(t, store.Remove(ctx, "fleet"))
	_, err = store.Get(ctx, "fleet")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStore_MultipleKeys(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "garage.json"))

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))

	a, err := store.Get(ctx, "a")
	require.NoError(t, err)
	b, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)
}

func TestFileStore_UnreadableFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "garage.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store := NewFileStore(path)
	_, err := store.Get(ctx, "fleet")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}
