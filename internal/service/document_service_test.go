package service

import (
	"context"
	"testing"

	"backend/internal/config"
	"backend/internal/repository"
	"backend/internal/storage"
	"backend/internal/vat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageConfig(t *testing.T) {
	db, _ := setupPayrollTestDB(t)
	ctx := context.Background()

	store, err := storage.NewManager(ctx, config.StorageConfig{
		Backend:   config.StorageLocal,
		LocalPath: t.TempDir(),
	}, db)
	require.NoError(t, err)

	svc := &documentService{
		store:     store,
		auditRepo: repository.NewAuditRepository(db),
	}

	t.Run("reports the active backend", func(t *testing.T) {
		cfg := svc.GetStorageConfig(ctx)
		assert.Equal(t, config.StorageLocal, cfg.Backend)
		assert.Contains(t, cfg.AvailableBackends, config.StorageDatabase)
	})

	t.Run("switches the backend for new uploads", func(t *testing.T) {
		cfg, err := svc.SetStorageBackend(ctx, UpdateStorageConfigRequest{Backend: config.StorageDatabase}, "")
		require.NoError(t, err)
		assert.Equal(t, config.StorageDatabase, cfg.Backend)
		assert.Equal(t, config.StorageDatabase, store.Mode())
	})

	t.Run("rejects an unknown backend", func(t *testing.T) {
		_, err := svc.SetStorageBackend(ctx, UpdateStorageConfigRequest{Backend: "tape"}, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})
}
