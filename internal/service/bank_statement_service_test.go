package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMatchTarget(t *testing.T) {
	db := setupVATTestDB(t)
	svc := &bankStatementService{
		invoiceRepo: repository.NewInvoiceRepository(db),
		expenseRepo: repository.NewExpenseRepository(db),
	}
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("invoice cannot match a debit line", func(t *testing.T) {
		err := svc.checkMatchTarget(ctx, companyID, model.TransactionDebit, model.MatchedInvoice, uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("expense cannot match a credit line", func(t *testing.T) {
		err := svc.checkMatchTarget(ctx, companyID, model.TransactionCredit, model.MatchedExpense, uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("payroll cannot match a credit line", func(t *testing.T) {
		err := svc.checkMatchTarget(ctx, companyID, model.TransactionCredit, model.MatchedPayroll, uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("unknown entity type is rejected", func(t *testing.T) {
		err := svc.checkMatchTarget(ctx, companyID, model.TransactionCredit, "loan", uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("missing invoice is not found", func(t *testing.T) {
		err := svc.checkMatchTarget(ctx, companyID, model.TransactionCredit, model.MatchedInvoice, uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
