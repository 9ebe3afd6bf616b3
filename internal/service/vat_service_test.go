package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// invoiceRowSQLite mirrors the invoices columns the summary query reads.
// The production model declares a Postgres uuid default that SQLite cannot
// migrate, so tests use this shape and set ids explicitly.
type invoiceRowSQLite struct {
	ID        string          `gorm:"primaryKey"`
	CompanyID string          `gorm:"index"`
	IssueDate time.Time       `gorm:"index"`
	NetAmount decimal.Decimal `gorm:"type:decimal(12,2)"`
	VATAmount decimal.Decimal `gorm:"type:decimal(12,2)"`
}

func (invoiceRowSQLite) TableName() string { return "invoices" }

type expenseRowSQLite struct {
	ID                      string          `gorm:"primaryKey"`
	CompanyID               string          `gorm:"index"`
	ExpenseDate             time.Time       `gorm:"index"`
	VATAmount               decimal.Decimal `gorm:"type:decimal(12,2)"`
	DeductibleAmount        decimal.Decimal `gorm:"type:decimal(12,2)"`
	BusinessUsagePercentage decimal.Decimal `gorm:"type:decimal(5,2)"`
}

func (expenseRowSQLite) TableName() string { return "expenses" }

func setupVATTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.VATRate{},
		&model.ExpenseCategory{},
		&model.BusinessUsageOption{},
		&invoiceRowSQLite{},
		&expenseRowSQLite{},
	)
	require.NoError(t, err)

	return db
}

func testVATConfig(fallback bool) config.VATConfig {
	return config.VATConfig{
		Country:              "Ireland",
		StandardRate:         dec("23.00"),
		FallbackToStandard:   fallback,
		MileageRatePerKm:     dec("0.3708"),
		DefaultBusinessUsage: dec("100.00"),
	}
}

func newTestVATService(t *testing.T, db *gorm.DB, fallback bool) VATService {
	return NewVATService(
		db,
		repository.NewVATRateRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewAuditRepository(db),
		testVATConfig(fallback),
	)
}

func seedRate(t *testing.T, db *gorm.DB, name, percentage string, active bool) model.VATRate {
	rate := model.VATRate{
		Country:        "Ireland",
		RateName:       name,
		RatePercentage: dec(percentage),
		IsActive:       active,
		EffectiveFrom:  time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&rate).Error)
	return rate
}

func TestResolvePercentage(t *testing.T) {
	db := setupVATTestDB(t)
	svc := newTestVATService(t, db, true)
	ctx := context.Background()

	reduced := seedRate(t, db, "Reduced", "13.50", true)
	retired := seedRate(t, db, "Old Standard", "21.00", false)

	t.Run("explicit percentage wins over rate id", func(t *testing.T) {
		explicit := dec("9.00")
		pct, err := svc.ResolvePercentage(ctx, &reduced.ID, &explicit)
		require.NoError(t, err)
		assert.True(t, pct.Equal(dec("9.00")))
	})

	t.Run("rate id resolves to its percentage", func(t *testing.T) {
		pct, err := svc.ResolvePercentage(ctx, &reduced.ID, nil)
		require.NoError(t, err)
		assert.True(t, pct.Equal(dec("13.50")))
	})

	t.Run("nothing supplied uses the standard rate", func(t *testing.T) {
		pct, err := svc.ResolvePercentage(ctx, nil, nil)
		require.NoError(t, err)
		assert.True(t, pct.Equal(dec("23.00")))
	})

	t.Run("unknown id falls back when fallback enabled", func(t *testing.T) {
		missing := uint(9999)
		pct, err := svc.ResolvePercentage(ctx, &missing, nil)
		require.NoError(t, err)
		assert.True(t, pct.Equal(dec("23.00")))
	})

	t.Run("inactive rate is treated as missing", func(t *testing.T) {
		pct, err := svc.ResolvePercentage(ctx, &retired.ID, nil)
		require.NoError(t, err)
		assert.True(t, pct.Equal(dec("23.00")))
	})

	t.Run("unknown id errors when fallback disabled", func(t *testing.T) {
		strict := newTestVATService(t, db, false)
		missing := uint(9999)
		_, err := strict.ResolvePercentage(ctx, &missing, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrRateNotFound)
	})
}

func TestExplicitFalseFlagsPersist(t *testing.T) {
	db := setupVATTestDB(t)
	ctx := context.Background()

	t.Run("inactive rate stays inactive", func(t *testing.T) {
		rateRepo := repository.NewVATRateRepository(db)
		rate := model.VATRate{
			Country:        "Ireland",
			RateName:       "Retired Standard",
			RatePercentage: dec("21.00"),
			IsActive:       false,
			EffectiveFrom:  time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, rateRepo.Create(ctx, &rate))

		got, err := rateRepo.FindByID(ctx, rate.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("receipt-free category with zero usage stays that way", func(t *testing.T) {
		catRepo := repository.NewCategoryRepository(db)
		cat := model.ExpenseCategory{
			CategoryName:         "Personal Mileage",
			CategoryType:         model.CategoryTypeMileage,
			DefaultBusinessUsage: dec("0.00"),
			RequiresReceipt:      false,
			IsActive:             true,
		}
		require.NoError(t, catRepo.Create(ctx, &cat))

		got, err := catRepo.FindByID(ctx, cat.ID)
		require.NoError(t, err)
		assert.False(t, got.RequiresReceipt)
		assert.True(t, got.DefaultBusinessUsage.Equal(dec("0.00")))
	})
}

func TestCalculate(t *testing.T) {
	db := setupVATTestDB(t)
	svc := newTestVATService(t, db, true)
	ctx := context.Background()

	reduced := seedRate(t, db, "Reduced", "13.50", true)

	t.Run("net amount forward", func(t *testing.T) {
		res, err := svc.Calculate(ctx, CalculateVATRequest{
			Amount:            "100.00",
			VATRatePercentage: "23.00",
		})
		require.NoError(t, err)
		assert.Equal(t, "100.00", res.NetAmount)
		assert.Equal(t, "23.00", res.VATAmount)
		assert.Equal(t, "123.00", res.GrossAmount)
	})

	t.Run("gross amount reverses into net and vat", func(t *testing.T) {
		res, err := svc.Calculate(ctx, CalculateVATRequest{
			Amount:            "123.00",
			AmountType:        "gross",
			VATRatePercentage: "23.00",
		})
		require.NoError(t, err)
		assert.Equal(t, "100.00", res.NetAmount)
		assert.Equal(t, "23.00", res.VATAmount)
	})

	t.Run("rate id drives the percentage", func(t *testing.T) {
		res, err := svc.Calculate(ctx, CalculateVATRequest{
			Amount:    "200.00",
			VATRateID: &reduced.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "13.50", res.VATRatePercentage)
		assert.Equal(t, "27.00", res.VATAmount)
	})

	t.Run("business usage scales the deductible", func(t *testing.T) {
		res, err := svc.Calculate(ctx, CalculateVATRequest{
			Amount:                  "200.00",
			VATRatePercentage:       "23.00",
			BusinessUsagePercentage: "50",
		})
		require.NoError(t, err)
		assert.Equal(t, "100.00", res.DeductibleAmount)
		assert.Equal(t, "50.00", res.BusinessUsagePercentage)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		_, err := svc.Calculate(ctx, CalculateVATRequest{
			Amount:            "-1.00",
			VATRatePercentage: "23.00",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("usage above 100 is rejected", func(t *testing.T) {
		_, err := svc.Calculate(ctx, CalculateVATRequest{
			Amount:                  "10.00",
			VATRatePercentage:       "23.00",
			BusinessUsagePercentage: "101",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("malformed amount is rejected", func(t *testing.T) {
		_, err := svc.Calculate(ctx, CalculateVATRequest{Amount: "ten euro"})
		require.Error(t, err)
	})
}

func TestCreateVATRate(t *testing.T) {
	db := setupVATTestDB(t)
	svc := newTestVATService(t, db, true)
	ctx := context.Background()

	t.Run("creates a rate with the configured default country", func(t *testing.T) {
		res, err := svc.CreateVATRate(ctx, CreateVATRateRequest{
			RateName:       "Second Reduced",
			RatePercentage: "9",
			EffectiveFrom:  "2024-01-01",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, "Ireland", res.Country)
		assert.Equal(t, "9.00", res.RatePercentage)
		assert.True(t, res.IsActive)
		assert.Nil(t, res.EffectiveUntil)
	})

	t.Run("rejects a negative percentage", func(t *testing.T) {
		_, err := svc.CreateVATRate(ctx, CreateVATRateRequest{
			RateName:       "Bogus",
			RatePercentage: "-5",
			EffectiveFrom:  "2024-01-01",
		}, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("rejects a malformed effective date", func(t *testing.T) {
		_, err := svc.CreateVATRate(ctx, CreateVATRateRequest{
			RateName:       "Standard",
			RatePercentage: "23",
			EffectiveFrom:  "01/01/2024",
		}, "")
		require.Error(t, err)
	})
}

func TestGetVATSummary(t *testing.T) {
	db := setupVATTestDB(t)
	svc := newTestVATService(t, db, true)
	ctx := context.Background()

	companyID := uuid.New()
	otherCompany := uuid.New()
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	invoices := []invoiceRowSQLite{
		{ID: uuid.NewString(), CompanyID: companyID.String(), IssueDate: jan, NetAmount: dec("1000.00"), VATAmount: dec("230.00")},
		{ID: uuid.NewString(), CompanyID: companyID.String(), IssueDate: jan, NetAmount: dec("500.00"), VATAmount: dec("67.50")},
		// outside the period
		{ID: uuid.NewString(), CompanyID: companyID.String(), IssueDate: feb.AddDate(1, 0, 0), NetAmount: dec("9999.00"), VATAmount: dec("2299.77")},
		// someone else's ledger
		{ID: uuid.NewString(), CompanyID: otherCompany.String(), IssueDate: jan, NetAmount: dec("400.00"), VATAmount: dec("92.00")},
	}
	require.NoError(t, db.Create(&invoices).Error)

	expenses := []expenseRowSQLite{
		// 23.00 vat at full business use
		{ID: uuid.NewString(), CompanyID: companyID.String(), ExpenseDate: jan, VATAmount: dec("23.00"), DeductibleAmount: dec("100.00"), BusinessUsagePercentage: dec("100.00")},
		// 46.00 vat at half business use reclaims 23.00
		{ID: uuid.NewString(), CompanyID: companyID.String(), ExpenseDate: feb, VATAmount: dec("46.00"), DeductibleAmount: dec("100.00"), BusinessUsagePercentage: dec("50.00")},
	}
	require.NoError(t, db.Create(&expenses).Error)

	t.Run("aggregates the period for one company", func(t *testing.T) {
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)

		res, err := svc.GetVATSummary(ctx, companyID, start, end)
		require.NoError(t, err)
		assert.Equal(t, "1500.00", res.TotalSales)
		assert.Equal(t, "297.50", res.TotalOutputVAT)
		assert.Equal(t, "200.00", res.TotalPurchases)
		assert.Equal(t, "46.00", res.TotalInputVAT)
		assert.Equal(t, "251.50", res.NetVATDue)
	})

	t.Run("empty period reports zeros", func(t *testing.T) {
		start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

		res, err := svc.GetVATSummary(ctx, companyID, start, end)
		require.NoError(t, err)
		assert.Equal(t, "0.00", res.TotalSales)
		assert.Equal(t, "0.00", res.NetVATDue)
	})
}
