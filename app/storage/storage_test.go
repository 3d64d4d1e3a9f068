package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	t.Run("Put, Get and Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "avatars/a.jpg", strings.NewReader("jpeg bytes")))

		rc, err := store.Get(ctx, "avatars/a.jpg")
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(body))

		require.NoError(t, store.Delete(ctx, "avatars/a.jpg"))
		_, err = store.Get(ctx, "avatars/a.jpg")
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("Put overwrites", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "products/p.png", strings.NewReader("one")))
		require.NoError(t, store.Put(ctx, "products/p.png", strings.NewReader("two")))

		rc, err := store.Get(ctx, "products/p.png")
		require.NoError(t, err)
		defer rc.Close()
		body, _ := io.ReadAll(rc)
		assert.Equal(t, "two", string(body))
	})

	t.Run("Unknown key", func(t *testing.T) {
		assert.ErrorIs(t, store.Delete(ctx, "avatars/missing.jpg"), ErrBlobNotFound)
	})

	t.Run("Keys may not escape the root", func(t *testing.T) {
		for _, key := range []string{"", "/", "../etc/passwd", "avatars/../../x", "/abs.jpg", "avatars//a.jpg"} {
			err := store.Put(ctx, key, strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrInvalidKey, key)
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, store.Put(cctx, "avatars/c.jpg", strings.NewReader("x")), context.Canceled)
	})
}

func TestNewKey(t *testing.T) {
	key := NewKey(AvatarPrefix, "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, NewKey(AvatarPrefix, "Photo.JPG"))

	assert.True(t, strings.HasPrefix(NewKey(ImagePrefix, "x"), "products/"))
}
