package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType enum constants
const (
	CategoryTypeGeneral     = "general"
	CategoryTypeEWorker     = "eworker"
	CategoryTypeMileage     = "mileage"
	CategoryTypeSubsistence = "subsistence"
)

// VATRate is a named percentage scoped to a country and an effective date
// range, e.g. Ireland "Standard" 23.00. Seeded at startup; treated as
// immutable once transactions reference it.
//
// Flag and percentage columns here and below carry no column default on
// purpose: gorm omits zero-valued fields that have one, so an explicit
// false or 0 would silently come back as the default. Writers set every
// flag explicitly.
type VATRate struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Country        string          `gorm:"type:varchar(100);not null;default:'Ireland';index" json:"country"`
	RateName       string          `gorm:"type:varchar(50);not null" json:"rate_name"` // Standard, Reduced, Second Reduced, Zero
	RatePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rate_percentage"`
	Description    string          `gorm:"type:text" json:"description,omitempty"`
	IsActive       bool            `gorm:"not null" json:"is_active"`
	EffectiveFrom  time.Time       `gorm:"type:date;not null" json:"effective_from"`
	EffectiveUntil *time.Time      `gorm:"type:date" json:"effective_until"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ExpenseCategory supplies per-category defaults for expense entry: the
// usual VAT rate, whether business usage applies and at what percentage,
// and whether a receipt is required.
type ExpenseCategory struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	CategoryName          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"category_name"`
	CategoryType          string          `gorm:"type:varchar(20);not null;default:'general'" json:"category_type"` // general, eworker, mileage, subsistence
	DefaultVATRateID      *uint           `gorm:"index" json:"default_vat_rate_id"`
	DefaultVATRate        *VATRate        `gorm:"foreignKey:DefaultVATRateID" json:"default_vat_rate,omitempty"`
	SupportsBusinessUsage bool            `gorm:"not null" json:"supports_business_usage"`
	DefaultBusinessUsage  decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"default_business_usage"`
	RequiresReceipt       bool            `gorm:"not null" json:"requires_receipt"`
	Description           string          `gorm:"type:text" json:"description,omitempty"`
	IsActive              bool            `gorm:"not null" json:"is_active"`
	CreatedAt             time.Time       `json:"created_at"`
}

// BusinessUsageOption is an advisory pick-list entry (100/75/50/25/10/0).
// Callers may submit any percentage in [0,100]; the list is UI sugar.
type BusinessUsageOption struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Label      string          `gorm:"type:varchar(100);not null" json:"label"`
	IsDefault  bool            `gorm:"not null" json:"is_default"`
}
