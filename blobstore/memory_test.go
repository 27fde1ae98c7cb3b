package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("roundtrip", func(t *testing.T) {
		store := NewMemoryStore()

		w, err := store.Create(ctx, "out/result.mtx")
		require.NoError(t, err)

		_, err = w.Write([]byte("hello"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		r, err := store.Open(ctx, "out/result.mtx")
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("not found", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("content visible only after close", func(t *testing.T) {
		store := NewMemoryStore()

		w, err := store.Create(ctx, "blob")
		require.NoError(t, err)

		_, err = w.Write([]byte("data"))
		require.NoError(t, err)

		_, ok := store.Get("blob")
		assert.False(t, ok)

		require.NoError(t, w.Close())

		data, ok := store.Get("blob")
		assert.True(t, ok)
		assert.Equal(t, []byte("data"), data)
	})

	t.Run("put replaces", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put("blob", []byte("old"))
		store.Put("blob", []byte("new"))

		data, ok := store.Get("blob")
		require.True(t, ok)
		assert.Equal(t, []byte("new"), data)
	})
}
