package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateCompany       = "CREATE_COMPANY"
	ActionCreateInvoice       = "CREATE_INVOICE"
	ActionUpdateInvoice       = "UPDATE_INVOICE"
	ActionDeleteInvoice       = "DELETE_INVOICE"
	ActionCreateExpense       = "CREATE_EXPENSE"
	ActionUpdateExpense       = "UPDATE_EXPENSE"
	ActionDeleteExpense       = "DELETE_EXPENSE"
	ActionCreatePayroll       = "CREATE_PAYROLL"
	ActionUpdatePayroll       = "UPDATE_PAYROLL"
	ActionDeletePayroll       = "DELETE_PAYROLL"
	ActionCreateBankStatement = "CREATE_BANK_STATEMENT"
	ActionUpdateBankStatement = "UPDATE_BANK_STATEMENT"
	ActionDeleteBankStatement = "DELETE_BANK_STATEMENT"
	ActionReconcileStatement  = "RECONCILE_BANK_STATEMENT"
	ActionCreateVATRate       = "CREATE_VAT_RATE"
	ActionUploadDocument      = "UPLOAD_DOCUMENT"
	ActionDeleteDocument      = "DELETE_DOCUMENT"
	ActionUpdateStorage       = "UPDATE_STORAGE_CONFIG"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
