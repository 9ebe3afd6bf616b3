package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the accounting entity everything else hangs off. Every
// invoice, expense, payroll entry and statement carries a company id.
type Company struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	OwnerEmail string    `gorm:"type:varchar(255);not null;index" json:"owner_email"`
	VATNumber  string    `gorm:"type:varchar(20)" json:"vat_number"` // Irish format IE1234567X
	Address    string    `gorm:"type:text" json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
