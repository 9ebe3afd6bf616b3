package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a payroll subject belonging to a company.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Company   *Company   `gorm:"foreignKey:CompanyID" json:"-"`
	FirstName string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string     `gorm:"type:varchar(255)" json:"email"`
	PPSNumber string     `gorm:"column:pps_number;type:varchar(20)" json:"pps_number"` // Irish personal public service number
	Position  string     `gorm:"type:varchar(100)" json:"position"`
	StartDate *time.Time `gorm:"type:date" json:"start_date"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
