package storage

import (
	"context"
	"path/filepath"
	"testing"

	"backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalBackend(t *testing.T) *LocalBackend {
	b, err := NewLocalBackend(config.StorageConfig{LocalPath: filepath.Join(t.TempDir(), "uploads")})
	require.NoError(t, err)
	return b
}

func TestLocalBackendRoundTrip(t *testing.T) {
	b := newTestLocalBackend(t)
	ctx := context.Background()
	key := "company-1/invoice/inv-1/receipt.pdf"

	require.NoError(t, b.Save(ctx, key, []byte("pdf bytes"), "application/pdf"))

	exists, err := b.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := b.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)

	require.NoError(t, b.Delete(ctx, key))

	exists, err = b.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalBackendMissingKey(t *testing.T) {
	b := newTestLocalBackend(t)
	ctx := context.Background()

	_, err := b.Load(ctx, "company-1/invoice/inv-1/nothing.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	err = b.Delete(ctx, "company-1/invoice/inv-1/nothing.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBackendRejectsTraversal(t *testing.T) {
	b := newTestLocalBackend(t)
	ctx := context.Background()

	for _, key := range []string{
		"../outside.txt",
		"company-1/../../outside.txt",
		"..",
	} {
		err := b.Save(ctx, key, []byte("x"), "text/plain")
		assert.Error(t, err, "key %q should be rejected", key)
	}
}
