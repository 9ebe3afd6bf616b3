package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePayrollRequest struct {
	EmployeeID     string `json:"employee_id"` // Optional uuid; employee_name is used when absent
	EmployeeName   string `json:"employee_name"`
	PayPeriodStart string `json:"pay_period_start" binding:"required"` // YYYY-MM-DD
	PayPeriodEnd   string `json:"pay_period_end" binding:"required"`
	PaymentDate    string `json:"payment_date" binding:"required"`
	GrossPay       string `json:"gross_pay" binding:"required"` // Decimal string
	PAYE           string `json:"paye"`
	PRSI           string `json:"prsi"`
	USC            string `json:"usc"`
	NetPay         string `json:"net_pay"` // Derived when absent; validated when present
	Notes          string `json:"notes"`
}

type UpdatePayrollRequest struct {
	PayPeriodStart string `json:"pay_period_start"`
	PayPeriodEnd   string `json:"pay_period_end"`
	PaymentDate    string `json:"payment_date"`
	GrossPay       string `json:"gross_pay"`
	PAYE           string `json:"paye"`
	PRSI           string `json:"prsi"`
	USC            string `json:"usc"`
	Notes          string `json:"notes"`
}

type PayrollResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeID     *string `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	PayPeriodStart string  `json:"pay_period_start"`
	PayPeriodEnd   string  `json:"pay_period_end"`
	PaymentDate    string  `json:"payment_date"`
	GrossPay       string  `json:"gross_pay"`
	PAYE           string  `json:"paye"`
	PRSI           string  `json:"prsi"`
	USC            string  `json:"usc"`
	NetPay         string  `json:"net_pay"`
	Notes          string  `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// --- Interface ---

type PayrollService interface {
	CreatePayrollEntry(ctx context.Context, companyID uuid.UUID, req CreatePayrollRequest, userID string) (PayrollResponse, error)
	GetPayrollEntry(ctx context.Context, companyID, id uuid.UUID) (PayrollResponse, error)
	ListPayrollEntries(ctx context.Context, companyID uuid.UUID, page, limit int) ([]PayrollResponse, int64, error)
	UpdatePayrollEntry(ctx context.Context, companyID, id uuid.UUID, req UpdatePayrollRequest, userID string) (PayrollResponse, error)
	DeletePayrollEntry(ctx context.Context, companyID, id uuid.UUID, userID string) error
}

type payrollService struct {
	payrollRepo  repository.PayrollRepository
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          ChangeNotifier // optional websocket hub
}

func NewPayrollService(
	payrollRepo repository.PayrollRepository,
	employeeRepo repository.EmployeeRepository,
	companyRepo repository.CompanyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub ChangeNotifier,
) PayrollService {
	return &payrollService{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *payrollService) CreatePayrollEntry(ctx context.Context, companyID uuid.UUID, req CreatePayrollRequest, userID string) (PayrollResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		return PayrollResponse{}, fmt.Errorf("failed to check company: %w", err)
	}

	entry := model.PayrollEntry{
		CompanyID:    companyID,
		EmployeeName: req.EmployeeName,
		Notes:        req.Notes,
	}

	if req.EmployeeID != "" {
		empID, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return PayrollResponse{}, fmt.Errorf("invalid employee_id: %w", err)
		}
		employee, err := s.employeeRepo.FindByID(ctx, companyID, empID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return PayrollResponse{}, fmt.Errorf("employee %s: %w", empID, ErrNotFound)
			}
			return PayrollResponse{}, fmt.Errorf("failed to fetch employee: %w", err)
		}
		entry.EmployeeID = &empID
		entry.Employee = employee
		if entry.EmployeeName == "" {
			entry.EmployeeName = employee.FirstName + " " + employee.LastName
		}
	}
	if entry.EmployeeName == "" {
		return PayrollResponse{}, fmt.Errorf("employee_id or employee_name is required: %w", vat.ErrInvalidArgument)
	}

	var err error
	if entry.PayPeriodStart, err = parseDate("pay_period_start", req.PayPeriodStart); err != nil {
		return PayrollResponse{}, err
	}
	if entry.PayPeriodEnd, err = parseDate("pay_period_end", req.PayPeriodEnd); err != nil {
		return PayrollResponse{}, err
	}
	if entry.PaymentDate, err = parseDate("payment_date", req.PaymentDate); err != nil {
		return PayrollResponse{}, err
	}
	if entry.PayPeriodEnd.Before(entry.PayPeriodStart) {
		return PayrollResponse{}, fmt.Errorf("pay_period_end before pay_period_start: %w", vat.ErrInvalidArgument)
	}

	if entry.GrossPay, err = parsePay("gross_pay", req.GrossPay); err != nil {
		return PayrollResponse{}, err
	}
	if entry.PAYE, err = parsePayDefault("paye", req.PAYE); err != nil {
		return PayrollResponse{}, err
	}
	if entry.PRSI, err = parsePayDefault("prsi", req.PRSI); err != nil {
		return PayrollResponse{}, err
	}
	if entry.USC, err = parsePayDefault("usc", req.USC); err != nil {
		return PayrollResponse{}, err
	}

	// Net pay is an identity, not free input. Derive it, and when the caller
	// sent one anyway, reject a mismatch.
	derived := entry.GrossPay.Sub(entry.PAYE).Sub(entry.PRSI).Sub(entry.USC)
	if derived.IsNegative() {
		return PayrollResponse{}, fmt.Errorf("deductions exceed gross pay: %w", vat.ErrInvalidArgument)
	}
	if req.NetPay != "" {
		claimed, err := parsePay("net_pay", req.NetPay)
		if err != nil {
			return PayrollResponse{}, err
		}
		if !claimed.Equal(derived) {
			return PayrollResponse{}, fmt.Errorf("net_pay %s does not equal gross minus deductions %s: %w",
				claimed.StringFixed(2), derived.StringFixed(2), vat.ErrInvalidArgument)
		}
	}
	entry.NetPay = derived

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Create(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to create payroll entry: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreatePayroll, entry.ID.String(), entry.EmployeeName, req)
		return nil
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	notifyLedgerChange(s.hub, companyID, "payroll_created", entry.ID)

	return toPayrollResponse(entry), nil
}

func (s *payrollService) GetPayrollEntry(ctx context.Context, companyID, id uuid.UUID) (PayrollResponse, error) {
	entry, err := s.payrollRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, fmt.Errorf("payroll entry %s: %w", id, ErrNotFound)
		}
		return PayrollResponse{}, fmt.Errorf("failed to fetch payroll entry: %w", err)
	}
	return toPayrollResponse(*entry), nil
}

func (s *payrollService) ListPayrollEntries(ctx context.Context, companyID uuid.UUID, page, limit int) ([]PayrollResponse, int64, error) {
	entries, total, err := s.payrollRepo.ListByCompany(ctx, companyID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll entries: %w", err)
	}

	res := make([]PayrollResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toPayrollResponse(e))
	}
	return res, total, nil
}

func (s *payrollService) UpdatePayrollEntry(ctx context.Context, companyID, id uuid.UUID, req UpdatePayrollRequest, userID string) (PayrollResponse, error) {
	entry, err := s.payrollRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, fmt.Errorf("payroll entry %s: %w", id, ErrNotFound)
		}
		return PayrollResponse{}, fmt.Errorf("failed to fetch payroll entry: %w", err)
	}

	if req.PayPeriodStart != "" {
		if entry.PayPeriodStart, err = parseDate("pay_period_start", req.PayPeriodStart); err != nil {
			return PayrollResponse{}, err
		}
	}
	if req.PayPeriodEnd != "" {
		if entry.PayPeriodEnd, err = parseDate("pay_period_end", req.PayPeriodEnd); err != nil {
			return PayrollResponse{}, err
		}
	}
	if req.PaymentDate != "" {
		if entry.PaymentDate, err = parseDate("payment_date", req.PaymentDate); err != nil {
			return PayrollResponse{}, err
		}
	}
	if entry.PayPeriodEnd.Before(entry.PayPeriodStart) {
		return PayrollResponse{}, fmt.Errorf("pay_period_end before pay_period_start: %w", vat.ErrInvalidArgument)
	}
	if req.GrossPay != "" {
		if entry.GrossPay, err = parsePay("gross_pay", req.GrossPay); err != nil {
			return PayrollResponse{}, err
		}
	}
	if req.PAYE != "" {
		if entry.PAYE, err = parsePay("paye", req.PAYE); err != nil {
			return PayrollResponse{}, err
		}
	}
	if req.PRSI != "" {
		if entry.PRSI, err = parsePay("prsi", req.PRSI); err != nil {
			return PayrollResponse{}, err
		}
	}
	if req.USC != "" {
		if entry.USC, err = parsePay("usc", req.USC); err != nil {
			return PayrollResponse{}, err
		}
	}
	if req.Notes != "" {
		entry.Notes = req.Notes
	}

	entry.NetPay = entry.GrossPay.Sub(entry.PAYE).Sub(entry.PRSI).Sub(entry.USC)
	if entry.NetPay.IsNegative() {
		return PayrollResponse{}, fmt.Errorf("deductions exceed gross pay: %w", vat.ErrInvalidArgument)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Update(txCtx, entry); err != nil {
			return fmt.Errorf("failed to update payroll entry: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpdatePayroll, entry.ID.String(), entry.EmployeeName, req)
		return nil
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	notifyLedgerChange(s.hub, companyID, "payroll_updated", entry.ID)

	return toPayrollResponse(*entry), nil
}

func (s *payrollService) DeletePayrollEntry(ctx context.Context, companyID, id uuid.UUID, userID string) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Delete(txCtx, companyID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("payroll entry %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to delete payroll entry: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeletePayroll, id.String(), "", nil)
		return nil
	})
	if err != nil {
		return err
	}

	notifyLedgerChange(s.hub, companyID, "payroll_deleted", id)
	return nil
}

// --- Helpers ---

func parsePay(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative: %w", field, vat.ErrInvalidArgument)
	}
	return d, nil
}

func parsePayDefault(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parsePay(field, value)
}

func toPayrollResponse(e model.PayrollEntry) PayrollResponse {
	resp := PayrollResponse{
		ID:             e.ID.String(),
		CompanyID:      e.CompanyID.String(),
		EmployeeName:   e.EmployeeName,
		PayPeriodStart: e.PayPeriodStart.Format("2006-01-02"),
		PayPeriodEnd:   e.PayPeriodEnd.Format("2006-01-02"),
		PaymentDate:    e.PaymentDate.Format("2006-01-02"),
		GrossPay:       e.GrossPay.StringFixed(2),
		PAYE:           e.PAYE.StringFixed(2),
		PRSI:           e.PRSI.StringFixed(2),
		USC:            e.USC.StringFixed(2),
		NetPay:         e.NetPay.StringFixed(2),
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.EmployeeID != nil {
		id := e.EmployeeID.String()
		resp.EmployeeID = &id
	}
	return resp
}
