package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseStatus enum constants
const (
	ExpensePending  = "pending"
	ExpenseApproved = "approved"
	ExpenseRejected = "rejected"
)

// Expense is a purchase/cost entry. Net amount is either entered directly
// or derived (e-worker: days x daily rate, mileage: km x per-km rate);
// vat_amount, gross_amount and deductible_amount come out of the
// calculation core and are stored with the row.
type Expense struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"company_id"`
	Company     *Company         `gorm:"foreignKey:CompanyID" json:"-"`
	ExpenseDate time.Time        `gorm:"type:date;not null;index" json:"expense_date"`
	CategoryID  *uint            `gorm:"index" json:"category_id"`
	Category    *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description string           `gorm:"type:text;not null" json:"description"`

	ExpenseType       string          `gorm:"type:varchar(20);not null;default:'general';index" json:"expense_type"` // general, eworker, mileage, subsistence
	NetAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_amount"`
	VATRateID         *uint           `gorm:"index" json:"vat_rate_id"`
	VATRatePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"vat_rate_percentage"`
	VATAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"vat_amount"`
	GrossAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"gross_amount"`

	// Deductibility
	BusinessUsagePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"business_usage_percentage"`
	DeductibleAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"deductible_amount"`

	// E-worker derivation inputs (expense_type = eworker)
	EWorkerDays *decimal.Decimal `gorm:"type:decimal(8,2)" json:"eworker_days"`
	EWorkerRate *decimal.Decimal `gorm:"type:decimal(18,2)" json:"eworker_rate"`

	// Mileage derivation inputs (expense_type = mileage)
	MileageKm   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"mileage_km"`
	MileageRate *decimal.Decimal `gorm:"type:decimal(10,4)" json:"mileage_rate"`

	SupplierName    string    `gorm:"type:varchar(255)" json:"supplier_name"`
	Paid            bool      `gorm:"not null" json:"paid"`
	ReceiptRequired bool      `gorm:"not null" json:"receipt_required"`
	Notes           string    `gorm:"type:text" json:"notes"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
