package model

import (
	"time"

	"github.com/google/uuid"
)

// Entity types a document can attach to
const (
	EntityInvoice       = "invoice"
	EntityExpense       = "expense"
	EntityPayroll       = "payroll"
	EntityBankStatement = "bank_statement"
)

// Document is attachment metadata. The bytes live in the configured
// storage backend; for the database backend they sit on this row.
type Document struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Company          *Company   `gorm:"foreignKey:CompanyID" json:"-"`
	EntityType       string     `gorm:"type:varchar(30);not null;index:idx_documents_entity" json:"entity_type"`
	EntityID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_documents_entity" json:"entity_id"`
	FileName         string     `gorm:"type:varchar(255);not null" json:"file_name"` // Stored (unique) name
	OriginalFileName string     `gorm:"type:varchar(255);not null" json:"original_file_name"`
	ContentType      string     `gorm:"type:varchar(100);not null;default:'application/pdf'" json:"content_type"`
	FileSize         int64      `gorm:"not null" json:"file_size"`
	StorageBackend   string     `gorm:"type:varchar(20);not null" json:"storage_backend"` // local, database or s3
	StorageKey       string     `gorm:"type:text" json:"-"`                               // Path or object key; empty for database backend
	FileData         []byte     `gorm:"type:bytea" json:"-"`                              // Populated only for the database backend
	UploadedAt       time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
}
