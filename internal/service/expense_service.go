package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// CreateExpenseRequest covers all expense types. For general expenses the
// net (or gross) amount is entered directly; for eworker the net is derived
// from days x daily rate, for mileage from km x per-km rate. Derivation
// inputs for the wrong type are rejected.
type CreateExpenseRequest struct {
	ExpenseDate             string `json:"expense_date" binding:"required"` // YYYY-MM-DD
	CategoryID              *uint  `json:"category_id"`
	Description             string `json:"description" binding:"required"`
	ExpenseType             string `json:"expense_type" binding:"omitempty,oneof=general eworker mileage subsistence"`
	NetAmount               string `json:"net_amount"`   // Decimal string
	GrossAmount             string `json:"gross_amount"` // Decimal string, alternative to net_amount
	VATRateID               *uint  `json:"vat_rate_id"`
	VATRatePercentage       string `json:"vat_rate_percentage"`
	BusinessUsagePercentage string `json:"business_usage_percentage"`

	// eworker derivation
	EWorkerDays string `json:"eworker_days"`
	EWorkerRate string `json:"eworker_rate"`

	// mileage derivation; rate defaults to the configured per-km rate
	MileageKm   string `json:"mileage_km"`
	MileageRate string `json:"mileage_rate"`

	SupplierName string `json:"supplier_name"`
	Paid         bool   `json:"paid"`
	Notes        string `json:"notes"`
}

type UpdateExpenseRequest struct {
	ExpenseDate             string `json:"expense_date"`
	CategoryID              *uint  `json:"category_id"`
	Description             string `json:"description"`
	NetAmount               string `json:"net_amount"`
	GrossAmount             string `json:"gross_amount"`
	VATRateID               *uint  `json:"vat_rate_id"`
	VATRatePercentage       string `json:"vat_rate_percentage"`
	BusinessUsagePercentage string `json:"business_usage_percentage"`
	SupplierName            string `json:"supplier_name"`
	Paid                    *bool  `json:"paid"`
	Status                  string `json:"status" binding:"omitempty,oneof=pending approved rejected"`
	Notes                   string `json:"notes"`
}

type ExpenseResponse struct {
	ID                      string  `json:"id"`
	CompanyID               string  `json:"company_id"`
	ExpenseDate             string  `json:"expense_date"`
	CategoryID              *uint   `json:"category_id"`
	CategoryName            string  `json:"category_name,omitempty"`
	Description             string  `json:"description"`
	ExpenseType             string  `json:"expense_type"`
	NetAmount               string  `json:"net_amount"`
	VATRateID               *uint   `json:"vat_rate_id"`
	VATRatePercentage       string  `json:"vat_rate_percentage"`
	VATAmount               string  `json:"vat_amount"`
	GrossAmount             string  `json:"gross_amount"`
	BusinessUsagePercentage string  `json:"business_usage_percentage"`
	DeductibleAmount        string  `json:"deductible_amount"`
	EWorkerDays             *string `json:"eworker_days,omitempty"`
	EWorkerRate             *string `json:"eworker_rate,omitempty"`
	MileageKm               *string `json:"mileage_km,omitempty"`
	MileageRate             *string `json:"mileage_rate,omitempty"`
	SupplierName            string  `json:"supplier_name,omitempty"`
	Paid                    bool    `json:"paid"`
	ReceiptRequired         bool    `json:"receipt_required"`
	Status                  string  `json:"status"`
	Notes                   string  `json:"notes,omitempty"`
	CreatedAt               string  `json:"created_at"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, companyID uuid.UUID, req CreateExpenseRequest, userID string) (ExpenseResponse, error)
	GetExpense(ctx context.Context, companyID, id uuid.UUID) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, companyID uuid.UUID, expenseType string, page, limit int) ([]ExpenseResponse, int64, error)
	UpdateExpense(ctx context.Context, companyID, id uuid.UUID, req UpdateExpenseRequest, userID string) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, companyID, id uuid.UUID, userID string) error
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	companyRepo repository.CompanyRepository
	catRepo     repository.CategoryRepository
	auditRepo   repository.AuditRepository
	vatSvc      VATService
	txManager   repository.TransactionManager
	cfg         config.VATConfig
	hub         ChangeNotifier // optional websocket hub
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	companyRepo repository.CompanyRepository,
	catRepo repository.CategoryRepository,
	auditRepo repository.AuditRepository,
	vatSvc VATService,
	txManager repository.TransactionManager,
	cfg config.VATConfig,
	hub ChangeNotifier,
) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		companyRepo: companyRepo,
		catRepo:     catRepo,
		auditRepo:   auditRepo,
		vatSvc:      vatSvc,
		txManager:   txManager,
		cfg:         cfg,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *expenseService) CreateExpense(ctx context.Context, companyID uuid.UUID, req CreateExpenseRequest, userID string) (ExpenseResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		return ExpenseResponse{}, fmt.Errorf("failed to check company: %w", err)
	}

	expenseDate, err := parseDate("expense_date", req.ExpenseDate)
	if err != nil {
		return ExpenseResponse{}, err
	}

	// Category supplies defaults for the type, rate and usage when the
	// request leaves them blank.
	var category *model.ExpenseCategory
	if req.CategoryID != nil {
		category, err = s.catRepo.FindByID(ctx, *req.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ExpenseResponse{}, fmt.Errorf("expense category %d: %w", *req.CategoryID, vat.ErrRateNotFound)
			}
			return ExpenseResponse{}, fmt.Errorf("failed to fetch expense category: %w", err)
		}
	}

	expenseType := req.ExpenseType
	if expenseType == "" {
		expenseType = model.CategoryTypeGeneral
		if category != nil {
			expenseType = category.CategoryType
		}
	}

	rateID := req.VATRateID
	if rateID == nil && req.VATRatePercentage == "" && category != nil {
		rateID = category.DefaultVATRateID
	}

	expense := model.Expense{
		CompanyID:    companyID,
		ExpenseDate:  expenseDate,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		ExpenseType:  expenseType,
		VATRateID:    rateID,
		SupplierName: req.SupplierName,
		Paid:         req.Paid,
		Status:       model.ExpensePending,
		Notes:        req.Notes,
	}
	if category != nil {
		expense.ReceiptRequired = category.RequiresReceipt
	} else {
		expense.ReceiptRequired = true
	}

	usage, err := s.resolveUsage(req.BusinessUsagePercentage, category)
	if err != nil {
		return ExpenseResponse{}, err
	}

	netStr, grossStr := req.NetAmount, req.GrossAmount
	switch expenseType {
	case model.CategoryTypeEWorker:
		net, days, rate, err := s.deriveEWorker(req)
		if err != nil {
			return ExpenseResponse{}, err
		}
		expense.EWorkerDays, expense.EWorkerRate = days, rate
		netStr, grossStr = net.String(), ""
	case model.CategoryTypeMileage:
		net, km, rate, err := s.deriveMileage(req)
		if err != nil {
			return ExpenseResponse{}, err
		}
		expense.MileageKm, expense.MileageRate = km, rate
		netStr, grossStr = net.String(), ""
	}

	breakdown, err := s.computeBreakdown(ctx, netStr, grossStr, rateID, req.VATRatePercentage, usage)
	if err != nil {
		return ExpenseResponse{}, err
	}
	applyBreakdown(&expense, breakdown)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Create(txCtx, &expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateExpense, expense.ID.String(), expense.Description, req)
		return nil
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	expense.Category = category
	notifyLedgerChange(s.hub, companyID, "expense_created", expense.ID)

	return toExpenseResponse(expense), nil
}

func (s *expenseService) GetExpense(ctx context.Context, companyID, id uuid.UUID) (ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		return ExpenseResponse{}, fmt.Errorf("failed to fetch expense: %w", err)
	}
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, companyID uuid.UUID, expenseType string, page, limit int) ([]ExpenseResponse, int64, error) {
	expenses, total, err := s.expenseRepo.ListByCompany(ctx, companyID, expenseType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}

	res := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		res = append(res, toExpenseResponse(e))
	}
	return res, total, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, companyID, id uuid.UUID, req UpdateExpenseRequest, userID string) (ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		return ExpenseResponse{}, fmt.Errorf("failed to fetch expense: %w", err)
	}

	if req.ExpenseDate != "" {
		expenseDate, err := parseDate("expense_date", req.ExpenseDate)
		if err != nil {
			return ExpenseResponse{}, err
		}
		expense.ExpenseDate = expenseDate
	}
	if req.CategoryID != nil {
		expense.CategoryID = req.CategoryID
	}
	if req.Description != "" {
		expense.Description = req.Description
	}
	if req.SupplierName != "" {
		expense.SupplierName = req.SupplierName
	}
	if req.Paid != nil {
		expense.Paid = *req.Paid
	}
	if req.Status != "" {
		expense.Status = req.Status
	}
	if req.Notes != "" {
		expense.Notes = req.Notes
	}

	recompute := req.NetAmount != "" || req.GrossAmount != "" ||
		req.VATRateID != nil || req.VATRatePercentage != "" ||
		req.BusinessUsagePercentage != ""
	if recompute {
		netStr, grossStr := req.NetAmount, req.GrossAmount
		if netStr == "" && grossStr == "" {
			netStr = expense.NetAmount.String()
		}
		rateID := req.VATRateID
		ratePct := req.VATRatePercentage
		if rateID == nil && ratePct == "" {
			rateID = expense.VATRateID
			if rateID == nil {
				ratePct = expense.VATRatePercentage.String()
			}
		}
		usage := expense.BusinessUsagePercentage
		if req.BusinessUsagePercentage != "" {
			usage, err = decimal.NewFromString(req.BusinessUsagePercentage)
			if err != nil {
				return ExpenseResponse{}, fmt.Errorf("invalid business_usage_percentage: %w", err)
			}
		}

		breakdown, err := s.computeBreakdown(ctx, netStr, grossStr, rateID, ratePct, usage)
		if err != nil {
			return ExpenseResponse{}, err
		}
		expense.VATRateID = rateID
		applyBreakdown(expense, breakdown)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Update(txCtx, expense); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpdateExpense, expense.ID.String(), expense.Description, req)
		return nil
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	notifyLedgerChange(s.hub, companyID, "expense_updated", expense.ID)

	return toExpenseResponse(*expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, companyID, id uuid.UUID, userID string) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Delete(txCtx, companyID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("expense %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteExpense, id.String(), "", nil)
		return nil
	})
	if err != nil {
		return err
	}

	notifyLedgerChange(s.hub, companyID, "expense_deleted", id)
	return nil
}

// --- Helpers ---

func (s *expenseService) resolveUsage(usageStr string, category *model.ExpenseCategory) (decimal.Decimal, error) {
	if usageStr != "" {
		usage, err := decimal.NewFromString(usageStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid business_usage_percentage: %w", err)
		}
		return usage, nil
	}
	if category != nil && category.SupportsBusinessUsage {
		return category.DefaultBusinessUsage, nil
	}
	return s.cfg.DefaultBusinessUsage, nil
}

func (s *expenseService) deriveEWorker(req CreateExpenseRequest) (decimal.Decimal, *decimal.Decimal, *decimal.Decimal, error) {
	if req.EWorkerDays == "" || req.EWorkerRate == "" {
		return decimal.Zero, nil, nil, fmt.Errorf("eworker_days and eworker_rate are required for eworker expenses: %w", vat.ErrInvalidArgument)
	}
	days, err := decimal.NewFromString(req.EWorkerDays)
	if err != nil {
		return decimal.Zero, nil, nil, fmt.Errorf("invalid eworker_days: %w", err)
	}
	rate, err := decimal.NewFromString(req.EWorkerRate)
	if err != nil {
		return decimal.Zero, nil, nil, fmt.Errorf("invalid eworker_rate: %w", err)
	}
	net, err := vat.EWorkerAmount(days, rate)
	if err != nil {
		return decimal.Zero, nil, nil, err
	}
	return net, &days, &rate, nil
}

func (s *expenseService) deriveMileage(req CreateExpenseRequest) (decimal.Decimal, *decimal.Decimal, *decimal.Decimal, error) {
	if req.MileageKm == "" {
		return decimal.Zero, nil, nil, fmt.Errorf("mileage_km is required for mileage expenses: %w", vat.ErrInvalidArgument)
	}
	km, err := decimal.NewFromString(req.MileageKm)
	if err != nil {
		return decimal.Zero, nil, nil, fmt.Errorf("invalid mileage_km: %w", err)
	}
	rate := s.cfg.MileageRatePerKm
	if req.MileageRate != "" {
		rate, err = decimal.NewFromString(req.MileageRate)
		if err != nil {
			return decimal.Zero, nil, nil, fmt.Errorf("invalid mileage_rate: %w", err)
		}
	}
	net, err := vat.MileageAmount(km, rate)
	if err != nil {
		return decimal.Zero, nil, nil, err
	}
	return net, &km, &rate, nil
}

func (s *expenseService) computeBreakdown(ctx context.Context, netStr, grossStr string, rateID *uint, ratePctStr string, usage decimal.Decimal) (vat.Result, error) {
	if netStr == "" && grossStr == "" {
		return vat.Result{}, fmt.Errorf("either net_amount or gross_amount is required: %w", vat.ErrInvalidArgument)
	}
	if netStr != "" && grossStr != "" {
		return vat.Result{}, fmt.Errorf("net_amount and gross_amount are mutually exclusive: %w", vat.ErrInvalidArgument)
	}

	var explicit *decimal.Decimal
	if ratePctStr != "" {
		p, err := decimal.NewFromString(ratePctStr)
		if err != nil {
			return vat.Result{}, fmt.Errorf("invalid vat_rate_percentage: %w", err)
		}
		explicit = &p
	}

	ratePct, err := s.vatSvc.ResolvePercentage(ctx, rateID, explicit)
	if err != nil {
		return vat.Result{}, err
	}

	if grossStr != "" {
		gross, err := decimal.NewFromString(grossStr)
		if err != nil {
			return vat.Result{}, fmt.Errorf("invalid gross_amount: %w", err)
		}
		return vat.CalculateFromGross(gross, ratePct, usage)
	}

	net, err := decimal.NewFromString(netStr)
	if err != nil {
		return vat.Result{}, fmt.Errorf("invalid net_amount: %w", err)
	}
	return vat.CalculateFromNet(net, ratePct, usage)
}

func applyBreakdown(expense *model.Expense, r vat.Result) {
	expense.NetAmount = r.NetAmount
	expense.VATRatePercentage = r.VATRatePercentage
	expense.VATAmount = r.VATAmount
	expense.GrossAmount = r.GrossAmount
	expense.BusinessUsagePercentage = r.BusinessUsagePercentage
	expense.DeductibleAmount = r.DeductibleAmount
}

func toExpenseResponse(e model.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:                      e.ID.String(),
		CompanyID:               e.CompanyID.String(),
		ExpenseDate:             e.ExpenseDate.Format("2006-01-02"),
		CategoryID:              e.CategoryID,
		Description:             e.Description,
		ExpenseType:             e.ExpenseType,
		NetAmount:               e.NetAmount.StringFixed(2),
		VATRateID:               e.VATRateID,
		VATRatePercentage:       e.VATRatePercentage.StringFixed(2),
		VATAmount:               e.VATAmount.StringFixed(2),
		GrossAmount:             e.GrossAmount.StringFixed(2),
		BusinessUsagePercentage: e.BusinessUsagePercentage.StringFixed(2),
		DeductibleAmount:        e.DeductibleAmount.StringFixed(2),
		SupplierName:            e.SupplierName,
		Paid:                    e.Paid,
		ReceiptRequired:         e.ReceiptRequired,
		Status:                  e.Status,
		Notes:                   e.Notes,
		CreatedAt:               e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.Category != nil {
		resp.CategoryName = e.Category.CategoryName
	}
	resp.EWorkerDays = decimalPtrString(e.EWorkerDays, 2)
	resp.EWorkerRate = decimalPtrString(e.EWorkerRate, 2)
	resp.MileageKm = decimalPtrString(e.MileageKm, 2)
	resp.MileageRate = decimalPtrString(e.MileageRate, 4)
	return resp
}

func decimalPtrString(d *decimal.Decimal, places int32) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(places)
	return &s
}
