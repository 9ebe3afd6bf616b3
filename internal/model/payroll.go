package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollEntry records one pay run line for an employee: gross pay and the
// Irish statutory deductions (PAYE income tax, PRSI, USC) down to net pay.
// Net pay must equal gross minus the three deductions; the service
// validates that before anything is stored.
type PayrollEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Company        *Company        `gorm:"foreignKey:CompanyID" json:"-"`
	EmployeeID     *uuid.UUID      `gorm:"type:uuid;index" json:"employee_id"`
	Employee       *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	EmployeeName   string          `gorm:"type:varchar(255);not null" json:"employee_name"`
	PayPeriodStart time.Time       `gorm:"type:date;not null" json:"pay_period_start"`
	PayPeriodEnd   time.Time       `gorm:"type:date;not null" json:"pay_period_end"`
	PaymentDate    time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	GrossPay       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"gross_pay"`
	PAYE           decimal.Decimal `gorm:"column:paye;type:decimal(18,2);not null" json:"paye"`
	PRSI           decimal.Decimal `gorm:"column:prsi;type:decimal(18,2);not null" json:"prsi"`
	USC            decimal.Decimal `gorm:"column:usc;type:decimal(18,2);not null" json:"usc"`
	NetPay         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_pay"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
