package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAuditLogs(t *testing.T) {
	db, _ := setupPayrollTestDB(t)
	repo := repository.NewAuditRepository(db)
	svc := NewAuditService(repo)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []model.AuditLog{
		{ID: uuid.New(), Action: model.ActionCreateInvoice, EntityName: "INV-2026-0001", CreatedAt: base},
		{ID: uuid.New(), Action: model.ActionCreateExpense, EntityName: "Office rent", CreatedAt: base.Add(time.Minute)},
		{ID: uuid.New(), Action: model.ActionCreateInvoice, EntityName: "INV-2026-0002", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range entries {
		require.NoError(t, repo.Log(ctx, &entries[i]))
	}

	t.Run("lists everything newest first", func(t *testing.T) {
		logs, total, err := svc.GetAuditLogs(ctx, "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, logs, 3)
		assert.Equal(t, "INV-2026-0002", logs[0].EntityName)
	})

	t.Run("narrows to one action kind", func(t *testing.T) {
		logs, total, err := svc.GetAuditLogs(ctx, model.ActionCreateInvoice, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, logs, 2)
		for _, l := range logs {
			assert.Equal(t, model.ActionCreateInvoice, l.Action)
		}
	})

	t.Run("unknown action matches nothing", func(t *testing.T) {
		logs, total, err := svc.GetAuditLogs(ctx, "REBOOT_SERVER", 1, 20)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, logs)
	})
}
