package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardService interface {
	GetMetrics(ctx context.Context, companyID uuid.UUID, start, end time.Time) (model.DashboardMetrics, error)
}

type dashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) DashboardService {
	return &dashboardService{db: db}
}

// GetMetrics aggregates the company's position for a period straight off
// the stored breakdown columns. No recalculation happens here; what the
// calculation core wrote at entry time is what gets summed.
func (s *dashboardService) GetMetrics(ctx context.Context, companyID uuid.UUID, start, end time.Time) (model.DashboardMetrics, error) {
	metrics := model.DashboardMetrics{
		TimeRangeStartDate: start,
		TimeRangeEndDate:   end,
	}

	var invoiceAgg struct {
		TotalIncome decimal.Decimal
		OutputVAT   decimal.Decimal
		Count       int64
	}
	err := s.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("COALESCE(SUM(net_amount), 0) as total_income, COALESCE(SUM(vat_amount), 0) as output_vat, COUNT(*) as count").
		Where("company_id = ? AND issue_date BETWEEN ? AND ?", companyID, start, end).
		Scan(&invoiceAgg).Error
	if err != nil {
		return model.DashboardMetrics{}, fmt.Errorf("failed to aggregate invoices: %w", err)
	}

	var expenseAgg struct {
		TotalExpenses   decimal.Decimal
		TotalDeductible decimal.Decimal
		InputVAT        decimal.Decimal
		Count           int64
	}
	err = s.db.WithContext(ctx).Model(&model.Expense{}).
		Select("COALESCE(SUM(net_amount), 0) as total_expenses, " +
			"COALESCE(SUM(deductible_amount), 0) as total_deductible, " +
			"COALESCE(SUM(vat_amount * business_usage_percentage / 100), 0) as input_vat, " +
			"COUNT(*) as count").
		Where("company_id = ? AND expense_date BETWEEN ? AND ?", companyID, start, end).
		Scan(&expenseAgg).Error
	if err != nil {
		return model.DashboardMetrics{}, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	var payrollTotal decimal.Decimal
	err = s.db.WithContext(ctx).Model(&model.PayrollEntry{}).
		Select("COALESCE(SUM(gross_pay), 0)").
		Where("company_id = ? AND payment_date BETWEEN ? AND ?", companyID, start, end).
		Scan(&payrollTotal).Error
	if err != nil {
		return model.DashboardMetrics{}, fmt.Errorf("failed to aggregate payroll: %w", err)
	}

	var unreconciled int64
	err = s.db.WithContext(ctx).Model(&model.BankStatement{}).
		Where("company_id = ? AND reconciled = ?", companyID, false).
		Count(&unreconciled).Error
	if err != nil {
		return model.DashboardMetrics{}, fmt.Errorf("failed to count unreconciled statements: %w", err)
	}

	metrics.TotalIncome = invoiceAgg.TotalIncome
	metrics.OutputVAT = invoiceAgg.OutputVAT
	metrics.InvoiceCount = invoiceAgg.Count
	metrics.TotalExpenses = expenseAgg.TotalExpenses
	metrics.TotalDeductible = expenseAgg.TotalDeductible
	metrics.InputVAT = expenseAgg.InputVAT.Round(2)
	metrics.ExpenseCount = expenseAgg.Count
	metrics.TotalPayroll = payrollTotal
	metrics.UnreconciledCount = unreconciled
	metrics.NetVATDue = metrics.OutputVAT.Sub(metrics.InputVAT)
	metrics.Profit = metrics.TotalIncome.Sub(metrics.TotalExpenses).Sub(metrics.TotalPayroll)

	return metrics, nil
}
