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

// ErrNotFound marks a lookup that matched no row in the caller's company.
var ErrNotFound = errors.New("record not found")

// --- DTOs ---

// CreateInvoiceRequest accepts either amount direction: NetAmount plus a
// rate, or GrossAmount plus a rate (the net is derived). Exactly one of the
// two amounts must be set.
type CreateInvoiceRequest struct {
	InvoiceNumber     string `json:"invoice_number" binding:"required"`
	IssueDate         string `json:"issue_date" binding:"required"` // YYYY-MM-DD
	DueDate           string `json:"due_date"`
	CustomerName      string `json:"customer_name" binding:"required"`
	NetAmount         string `json:"net_amount"`   // Decimal string
	GrossAmount       string `json:"gross_amount"` // Decimal string, alternative to net_amount
	VATRateID         *uint  `json:"vat_rate_id"`
	VATRatePercentage string `json:"vat_rate_percentage"` // Decimal string, overrides vat_rate_id
	Status            string `json:"status" binding:"omitempty,oneof=draft sent paid overdue"`
	Notes             string `json:"notes"`
}

type UpdateInvoiceRequest struct {
	IssueDate         string `json:"issue_date"`
	DueDate           string `json:"due_date"`
	CustomerName      string `json:"customer_name"`
	NetAmount         string `json:"net_amount"`
	GrossAmount       string `json:"gross_amount"`
	VATRateID         *uint  `json:"vat_rate_id"`
	VATRatePercentage string `json:"vat_rate_percentage"`
	Status            string `json:"status" binding:"omitempty,oneof=draft sent paid overdue"`
	Notes             string `json:"notes"`
}

type InvoiceResponse struct {
	ID                string  `json:"id"`
	CompanyID         string  `json:"company_id"`
	InvoiceNumber     string  `json:"invoice_number"`
	IssueDate         string  `json:"issue_date"`
	DueDate           *string `json:"due_date"`
	CustomerName      string  `json:"customer_name"`
	NetAmount         string  `json:"net_amount"`
	VATRateID         *uint   `json:"vat_rate_id"`
	VATRatePercentage string  `json:"vat_rate_percentage"`
	VATAmount         string  `json:"vat_amount"`
	GrossAmount       string  `json:"gross_amount"`
	Status            string  `json:"status"`
	Notes             string  `json:"notes,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, companyID uuid.UUID, req CreateInvoiceRequest, userID string) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, companyID, id uuid.UUID) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, companyID uuid.UUID, page, limit int) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, companyID, id uuid.UUID, req UpdateInvoiceRequest, userID string) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, companyID, id uuid.UUID, userID string) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	auditRepo   repository.AuditRepository
	vatSvc      VATService
	txManager   repository.TransactionManager
	hub         ChangeNotifier // optional websocket hub
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	auditRepo repository.AuditRepository,
	vatSvc VATService,
	txManager repository.TransactionManager,
	hub ChangeNotifier,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		auditRepo:   auditRepo,
		vatSvc:      vatSvc,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, companyID uuid.UUID, req CreateInvoiceRequest, userID string) (InvoiceResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to check company: %w", err)
	}

	issueDate, err := parseDate("issue_date", req.IssueDate)
	if err != nil {
		return InvoiceResponse{}, err
	}
	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	breakdown, err := s.computeBreakdown(ctx, req.NetAmount, req.GrossAmount, req.VATRateID, req.VATRatePercentage)
	if err != nil {
		return InvoiceResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = model.InvoiceDraft
	}

	invoice := model.Invoice{
		CompanyID:         companyID,
		InvoiceNumber:     req.InvoiceNumber,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		CustomerName:      req.CustomerName,
		NetAmount:         breakdown.NetAmount,
		VATRateID:         req.VATRateID,
		VATRatePercentage: breakdown.VATRatePercentage,
		VATAmount:         breakdown.VATAmount,
		GrossAmount:       breakdown.GrossAmount,
		Status:            status,
		Notes:             req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNumber, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	notifyLedgerChange(s.hub, companyID, "invoice_created", invoice.ID)

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, companyID, id uuid.UUID) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, companyID uuid.UUID, page, limit int) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.invoiceRepo.ListByCompany(ctx, companyID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	res := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		res = append(res, toInvoiceResponse(inv))
	}
	return res, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, companyID, id uuid.UUID, req UpdateInvoiceRequest, userID string) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	if req.IssueDate != "" {
		issueDate, err := parseDate("issue_date", req.IssueDate)
		if err != nil {
			return InvoiceResponse{}, err
		}
		invoice.IssueDate = issueDate
	}
	if req.DueDate != "" {
		dueDate, err := parseOptionalDate("due_date", req.DueDate)
		if err != nil {
			return InvoiceResponse{}, err
		}
		invoice.DueDate = dueDate
	}
	if req.CustomerName != "" {
		invoice.CustomerName = req.CustomerName
	}
	if req.Status != "" {
		invoice.Status = req.Status
	}
	if req.Notes != "" {
		invoice.Notes = req.Notes
	}

	// Any amount or rate change recomputes the whole breakdown so the stored
	// vat and gross columns never drift from the inputs.
	if req.NetAmount != "" || req.GrossAmount != "" || req.VATRateID != nil || req.VATRatePercentage != "" {
		netStr := req.NetAmount
		grossStr := req.GrossAmount
		if netStr == "" && grossStr == "" {
			netStr = invoice.NetAmount.String()
		}
		rateID := req.VATRateID
		ratePct := req.VATRatePercentage
		if rateID == nil && ratePct == "" {
			rateID = invoice.VATRateID
			if rateID == nil {
				ratePct = invoice.VATRatePercentage.String()
			}
		}

		breakdown, err := s.computeBreakdown(ctx, netStr, grossStr, rateID, ratePct)
		if err != nil {
			return InvoiceResponse{}, err
		}
		invoice.NetAmount = breakdown.NetAmount
		invoice.VATRateID = rateID
		invoice.VATRatePercentage = breakdown.VATRatePercentage
		invoice.VATAmount = breakdown.VATAmount
		invoice.GrossAmount = breakdown.GrossAmount
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpdateInvoice, invoice.ID.String(), invoice.InvoiceNumber, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	notifyLedgerChange(s.hub, companyID, "invoice_updated", invoice.ID)

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, companyID, id uuid.UUID, userID string) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Delete(txCtx, companyID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteInvoice, id.String(), "", nil)
		return nil
	})
	if err != nil {
		return err
	}

	notifyLedgerChange(s.hub, companyID, "invoice_deleted", id)
	return nil
}

// --- Helpers ---

// computeBreakdown runs the calculation core in whichever direction the
// request supplied. Invoices carry no business usage; 100 keeps the core's
// deductible output equal to net and it is simply not stored.
func (s *invoiceService) computeBreakdown(ctx context.Context, netStr, grossStr string, rateID *uint, ratePctStr string) (vat.Result, error) {
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

	fullUsage := decimal.NewFromInt(100)
	if grossStr != "" {
		gross, err := decimal.NewFromString(grossStr)
		if err != nil {
			return vat.Result{}, fmt.Errorf("invalid gross_amount: %w", err)
		}
		return vat.CalculateFromGross(gross, ratePct, fullUsage)
	}

	net, err := decimal.NewFromString(netStr)
	if err != nil {
		return vat.Result{}, fmt.Errorf("invalid net_amount: %w", err)
	}
	return vat.CalculateFromNet(net, ratePct, fullUsage)
}

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                inv.ID.String(),
		CompanyID:         inv.CompanyID.String(),
		InvoiceNumber:     inv.InvoiceNumber,
		IssueDate:         inv.IssueDate.Format("2006-01-02"),
		CustomerName:      inv.CustomerName,
		NetAmount:         inv.NetAmount.StringFixed(2),
		VATRateID:         inv.VATRateID,
		VATRatePercentage: inv.VATRatePercentage.StringFixed(2),
		VATAmount:         inv.VATAmount.StringFixed(2),
		GrossAmount:       inv.GrossAmount.StringFixed(2),
		Status:            inv.Status,
		Notes:             inv.Notes,
		CreatedAt:         inv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if inv.DueDate != nil {
		d := inv.DueDate.Format("2006-01-02")
		resp.DueDate = &d
	}
	return resp
}
