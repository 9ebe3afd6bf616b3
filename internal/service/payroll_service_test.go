package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type companyRowSQLite struct {
	ID         string `gorm:"primaryKey"`
	Name       string
	OwnerEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (companyRowSQLite) TableName() string { return "companies" }

type payrollRowSQLite struct {
	ID             string `gorm:"primaryKey"`
	CompanyID      string `gorm:"index"`
	EmployeeID     *string
	EmployeeName   string
	PayPeriodStart time.Time
	PayPeriodEnd   time.Time
	PaymentDate    time.Time
	GrossPay       decimal.Decimal `gorm:"type:decimal(18,2)"`
	PAYE           decimal.Decimal `gorm:"column:paye;type:decimal(18,2)"`
	PRSI           decimal.Decimal `gorm:"column:prsi;type:decimal(18,2)"`
	USC            decimal.Decimal `gorm:"column:usc;type:decimal(18,2)"`
	NetPay         decimal.Decimal `gorm:"type:decimal(18,2)"`
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (payrollRowSQLite) TableName() string { return "payroll_entries" }

type auditRowSQLite struct {
	ID         string `gorm:"primaryKey"`
	UserID     *string
	Action     string
	EntityID   string
	EntityName string
	Details    string
	CreatedAt  time.Time
}

func (auditRowSQLite) TableName() string { return "audit_logs" }

func setupPayrollTestDB(t *testing.T) (*gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&companyRowSQLite{}, &payrollRowSQLite{}, &auditRowSQLite{})
	require.NoError(t, err)

	companyID := uuid.New()
	company := companyRowSQLite{ID: companyID.String(), Name: "Acme Consulting Ltd", OwnerEmail: "owner@acme.ie"}
	require.NoError(t, db.Create(&company).Error)

	return db, companyID
}

func newTestPayrollService(db *gorm.DB) PayrollService {
	return NewPayrollService(
		repository.NewPayrollRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func payrollRequest() CreatePayrollRequest {
	return CreatePayrollRequest{
		EmployeeName:   "Mary Byrne",
		PayPeriodStart: "2026-01-01",
		PayPeriodEnd:   "2026-01-31",
		PaymentDate:    "2026-01-31",
		GrossPay:       "3000.00",
		PAYE:           "550.00",
		PRSI:           "120.00",
		USC:            "90.00",
	}
}

func TestCreatePayrollEntry(t *testing.T) {
	db, companyID := setupPayrollTestDB(t)
	svc := newTestPayrollService(db)
	ctx := context.Background()

	t.Run("derives net pay from gross minus deductions", func(t *testing.T) {
		res, err := svc.CreatePayrollEntry(ctx, companyID, payrollRequest(), "")
		require.NoError(t, err)
		assert.Equal(t, "2240.00", res.NetPay)
		assert.Equal(t, "3000.00", res.GrossPay)
		assert.Equal(t, "550.00", res.PAYE)
	})

	t.Run("accepts a supplied net pay that matches", func(t *testing.T) {
		req := payrollRequest()
		req.NetPay = "2240.00"
		res, err := svc.CreatePayrollEntry(ctx, companyID, req, "")
		require.NoError(t, err)
		assert.Equal(t, "2240.00", res.NetPay)
	})

	t.Run("rejects a supplied net pay that does not match", func(t *testing.T) {
		req := payrollRequest()
		req.NetPay = "2500.00"
		_, err := svc.CreatePayrollEntry(ctx, companyID, req, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("rejects deductions exceeding gross pay", func(t *testing.T) {
		req := payrollRequest()
		req.GrossPay = "500.00"
		_, err := svc.CreatePayrollEntry(ctx, companyID, req, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("rejects negative gross pay", func(t *testing.T) {
		req := payrollRequest()
		req.GrossPay = "-100.00"
		_, err := svc.CreatePayrollEntry(ctx, companyID, req, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("rejects a pay period ending before it starts", func(t *testing.T) {
		req := payrollRequest()
		req.PayPeriodStart = "2026-02-01"
		req.PayPeriodEnd = "2026-01-01"
		_, err := svc.CreatePayrollEntry(ctx, companyID, req, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("requires an employee reference", func(t *testing.T) {
		req := payrollRequest()
		req.EmployeeName = ""
		_, err := svc.CreatePayrollEntry(ctx, companyID, req, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, vat.ErrInvalidArgument)
	})

	t.Run("unknown company is not found", func(t *testing.T) {
		_, err := svc.CreatePayrollEntry(ctx, uuid.New(), payrollRequest(), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
