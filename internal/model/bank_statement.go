package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// Matched entity types for reconciliation
const (
	MatchedInvoice = "invoice"
	MatchedExpense = "expense"
	MatchedPayroll = "payroll"
)

// BankStatement is one imported or hand-entered bank transaction line.
// Reconciliation links a line to the ledger entry it settles.
type BankStatement struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Company           *Company        `gorm:"foreignKey:CompanyID" json:"-"`
	StatementDate     time.Time       `gorm:"type:date;not null;index" json:"statement_date"`
	Description       string          `gorm:"type:text;not null" json:"description"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Balance           *decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance"`
	TransactionType   string          `gorm:"type:varchar(10);not null;index" json:"transaction_type"` // credit or debit
	Reconciled        bool            `gorm:"not null;index" json:"reconciled"`
	MatchedEntityType *string         `gorm:"type:varchar(20)" json:"matched_entity_type"` // invoice, expense, payroll
	MatchedEntityID   *uuid.UUID      `gorm:"type:uuid" json:"matched_entity_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
