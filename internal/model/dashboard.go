package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetrics aggregates the company's financial position for a period
type DashboardMetrics struct {
	TotalIncome        decimal.Decimal `json:"total_income"`         // Sum of invoice net amounts
	TotalExpenses      decimal.Decimal `json:"total_expenses"`       // Sum of expense net amounts
	TotalDeductible    decimal.Decimal `json:"total_deductible"`     // Sum of expense deductible amounts
	TotalPayroll       decimal.Decimal `json:"total_payroll"`        // Sum of gross pay
	OutputVAT          decimal.Decimal `json:"output_vat"`           // VAT charged on invoices
	InputVAT           decimal.Decimal `json:"input_vat"`            // Deductible VAT on expenses
	NetVATDue          decimal.Decimal `json:"net_vat_due"`          // output - input
	Profit             decimal.Decimal `json:"profit"`               // income - expenses - payroll
	InvoiceCount       int64           `json:"invoice_count"`
	ExpenseCount       int64           `json:"expense_count"`
	UnreconciledCount  int64           `json:"unreconciled_count"`
	TimeRangeStartDate time.Time       `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time       `json:"time_range_end_date"`
}

// VATSummary is the VAT position for a filing period
type VATSummary struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalOutputVAT decimal.Decimal `json:"total_output_vat"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalInputVAT  decimal.Decimal `json:"total_input_vat"`
	NetVATDue      decimal.Decimal `json:"net_vat_due"`
}
