package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/vat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpenseService(t *testing.T) *expenseService {
	db := setupVATTestDB(t)
	return &expenseService{
		vatSvc: newTestVATService(t, db, true),
		cfg:    testVATConfig(true),
	}
}

func TestDeriveEWorker(t *testing.T) {
	svc := newTestExpenseService(t)

	t.Run("days times daily rate", func(t *testing.T) {
		net, days, rate, err := svc.deriveEWorker(CreateExpenseRequest{
			EWorkerDays: "10",
			EWorkerRate: "3.20",
		})
		require.NoError(t, err)
		assert.True(t, net.Equal(dec("32.00")), "net = %s", net)
		assert.True(t, days.Equal(dec("10")))
		assert.True(t, rate.Equal(dec("3.20")))
	})

	t.Run("fractional days round to cents", func(t *testing.T) {
		net, _, _, err := svc.deriveEWorker(CreateExpenseRequest{
			EWorkerDays: "21.5",
			EWorkerRate: "3.33",
		})
		require.NoError(t, err)
		// 21.5 * 3.33 = 71.595 -> 71.60
		assert.True(t, net.Equal(dec("71.60")), "net = %s", net)
	})

	t.Run("missing inputs are rejected", func(t *testing.T) {
		_, _, _, err := svc.deriveEWorker(CreateExpenseRequest{EWorkerDays: "10"})
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("negative days are rejected", func(t *testing.T) {
		_, _, _, err := svc.deriveEWorker(CreateExpenseRequest{
			EWorkerDays: "-1",
			EWorkerRate: "3.20",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})
}

func TestDeriveMileage(t *testing.T) {
	svc := newTestExpenseService(t)

	t.Run("km times the configured per-km rate", func(t *testing.T) {
		net, km, rate, err := svc.deriveMileage(CreateExpenseRequest{MileageKm: "100"})
		require.NoError(t, err)
		assert.True(t, net.Equal(dec("37.08")), "net = %s", net)
		assert.True(t, km.Equal(dec("100")))
		assert.True(t, rate.Equal(dec("0.3708")))
	})

	t.Run("explicit rate overrides the configured one", func(t *testing.T) {
		net, _, rate, err := svc.deriveMileage(CreateExpenseRequest{
			MileageKm:   "80",
			MileageRate: "0.25",
		})
		require.NoError(t, err)
		assert.True(t, net.Equal(dec("20.00")), "net = %s", net)
		assert.True(t, rate.Equal(dec("0.25")))
	})

	t.Run("missing km is rejected", func(t *testing.T) {
		_, _, _, err := svc.deriveMileage(CreateExpenseRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})
}

func TestResolveUsage(t *testing.T) {
	svc := newTestExpenseService(t)

	t.Run("explicit percentage wins", func(t *testing.T) {
		usage, err := svc.resolveUsage("60", &model.ExpenseCategory{
			SupportsBusinessUsage: true,
			DefaultBusinessUsage:  dec("50.00"),
		})
		require.NoError(t, err)
		assert.True(t, usage.Equal(dec("60")))
	})

	t.Run("category default applies when it supports usage", func(t *testing.T) {
		usage, err := svc.resolveUsage("", &model.ExpenseCategory{
			SupportsBusinessUsage: true,
			DefaultBusinessUsage:  dec("50.00"),
		})
		require.NoError(t, err)
		assert.True(t, usage.Equal(dec("50.00")))
	})

	t.Run("configured default applies otherwise", func(t *testing.T) {
		usage, err := svc.resolveUsage("", nil)
		require.NoError(t, err)
		assert.True(t, usage.Equal(dec("100.00")))
	})

	t.Run("malformed percentage is rejected", func(t *testing.T) {
		_, err := svc.resolveUsage("half", nil)
		require.Error(t, err)
	})
}

func TestExpenseComputeBreakdown(t *testing.T) {
	svc := newTestExpenseService(t)
	ctx := context.Background()

	t.Run("net with explicit rate and partial usage", func(t *testing.T) {
		res, err := svc.computeBreakdown(ctx, "200.00", "", nil, "23.00", dec("75"))
		require.NoError(t, err)
		assert.True(t, res.VATAmount.Equal(dec("46.00")))
		assert.True(t, res.GrossAmount.Equal(dec("246.00")))
		assert.True(t, res.DeductibleAmount.Equal(dec("150.00")))
	})

	t.Run("gross reverses into net", func(t *testing.T) {
		res, err := svc.computeBreakdown(ctx, "", "123.00", nil, "23.00", dec("100"))
		require.NoError(t, err)
		assert.True(t, res.NetAmount.Equal(dec("100.00")))
		assert.True(t, res.VATAmount.Equal(dec("23.00")))
	})

	t.Run("net and gross together are rejected", func(t *testing.T) {
		_, err := svc.computeBreakdown(ctx, "100.00", "123.00", nil, "23.00", dec("100"))
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("neither net nor gross is rejected", func(t *testing.T) {
		_, err := svc.computeBreakdown(ctx, "", "", nil, "23.00", dec("100"))
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("no rate input falls back to the standard rate", func(t *testing.T) {
		res, err := svc.computeBreakdown(ctx, "100.00", "", nil, "", dec("100"))
		require.NoError(t, err)
		assert.True(t, res.VATRatePercentage.Equal(dec("23.00")))
		assert.True(t, res.VATAmount.Equal(dec("23.00")))
	})
}
