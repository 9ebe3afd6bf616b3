package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// Invoice is a sales document. The VAT breakdown (vat_amount, gross_amount)
// is computed by the calculation core on create/update and stored, so
// period summaries are plain aggregates.
type Invoice struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_company_number" json:"company_id"`
	Company           *Company        `gorm:"foreignKey:CompanyID" json:"-"`
	InvoiceNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_company_number" json:"invoice_number"`
	IssueDate         time.Time       `gorm:"type:date;not null;index" json:"issue_date"`
	DueDate           *time.Time      `gorm:"type:date" json:"due_date"`
	CustomerName      string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	NetAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_amount"`
	VATRateID         *uint           `gorm:"index" json:"vat_rate_id"`
	VATRatePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"vat_rate_percentage"`
	VATAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"vat_amount"`
	GrossAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"gross_amount"`
	Status            string          `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Notes             string          `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
