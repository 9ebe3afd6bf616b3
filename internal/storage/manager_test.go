package storage

import (
	"context"
	"testing"

	"backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestManager(t *testing.T) *Manager {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	m, err := NewManager(context.Background(), config.StorageConfig{
		Backend:   config.StorageLocal,
		LocalPath: t.TempDir(),
	}, db)
	require.NoError(t, err)
	return m
}

func TestManagerSwitch(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	assert.Equal(t, config.StorageLocal, m.Mode())

	t.Run("switches new uploads to another backend", func(t *testing.T) {
		require.NoError(t, m.Switch(ctx, config.StorageDatabase))
		assert.Equal(t, config.StorageDatabase, m.Mode())

		require.NoError(t, m.Switch(ctx, config.StorageLocal))
		assert.Equal(t, config.StorageLocal, m.Mode())
	})

	t.Run("switching to the active mode is a no-op", func(t *testing.T) {
		require.NoError(t, m.Switch(ctx, m.Mode()))
	})

	t.Run("rejects s3 without a bucket", func(t *testing.T) {
		err := m.Switch(ctx, config.StorageS3)
		require.Error(t, err)
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		err := m.Switch(ctx, "tape")
		require.Error(t, err)
	})
}

func TestManagerDelegates(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	key := "company-1/invoice/inv-1/receipt.pdf"

	require.NoError(t, m.Save(ctx, key, []byte("pdf bytes"), "application/pdf"))

	data, err := m.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)

	exists, err := m.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.Delete(ctx, key))
}
