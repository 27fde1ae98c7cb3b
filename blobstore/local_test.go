package blobstore

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("roundtrip", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())

		w, err := store.Create(ctx, "result.mtx")
		require.NoError(t, err)

		_, err = w.Write([]byte("%%MatrixMarket matrix coordinate real general\n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		r, err := store.Open(ctx, "result.mtx")
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Contains(t, string(data), "MatrixMarket")
	})

	t.Run("creates parent directories", func(t *testing.T) {
		root := t.TempDir()
		store := NewLocalStore(root)

		w, err := store.Create(ctx, filepath.Join("nested", "dir", "out.mtx"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		_, err = store.Open(ctx, filepath.Join("nested", "dir", "out.mtx"))
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())

		_, err := store.Open(ctx, "missing.mtx")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
