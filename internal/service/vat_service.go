package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateVATRateRequest struct {
	Country        string `json:"country"`
	RateName       string `json:"rate_name" binding:"required"`
	RatePercentage string `json:"rate_percentage" binding:"required"` // Decimal string, e.g. "23.00"
	Description    string `json:"description"`
	EffectiveFrom  string `json:"effective_from" binding:"required"` // YYYY-MM-DD
	EffectiveUntil string `json:"effective_until"`                   // YYYY-MM-DD, nullable
}

type VATRateResponse struct {
	ID             uint    `json:"id"`
	Country        string  `json:"country"`
	RateName       string  `json:"rate_name"`
	RatePercentage string  `json:"rate_percentage"`
	Description    string  `json:"description,omitempty"`
	IsActive       bool    `json:"is_active"`
	EffectiveFrom  string  `json:"effective_from"`
	EffectiveUntil *string `json:"effective_until"`
}

type ExpenseCategoryResponse struct {
	ID                    uint   `json:"id"`
	CategoryName          string `json:"category_name"`
	CategoryType          string `json:"category_type"`
	DefaultVATRateID      *uint  `json:"default_vat_rate_id"`
	SupportsBusinessUsage bool   `json:"supports_business_usage"`
	DefaultBusinessUsage  string `json:"default_business_usage"`
	RequiresReceipt       bool   `json:"requires_receipt"`
	Description           string `json:"description,omitempty"`
}

type BusinessUsageOptionResponse struct {
	ID         uint   `json:"id"`
	Percentage string `json:"percentage"`
	Label      string `json:"label"`
	IsDefault  bool   `json:"is_default"`
}

// CalculateVATRequest drives a one-off calculation. Amount is interpreted
// per AmountType (net by default). Either a rate id or an explicit
// percentage may be supplied; with neither, resolution falls through to
// the configured fallback policy.
type CalculateVATRequest struct {
	Amount                  string `json:"amount" binding:"required"`                        // Decimal string
	AmountType              string `json:"amount_type" binding:"omitempty,oneof=net gross"` // net (default) or gross
	VATRateID               *uint  `json:"vat_rate_id"`
	VATRatePercentage       string `json:"vat_rate_percentage"`       // Decimal string, overrides vat_rate_id
	BusinessUsagePercentage string `json:"business_usage_percentage"` // Decimal string, defaults to 100
}

type VATCalculationResponse struct {
	NetAmount               string `json:"net_amount"`
	VATRatePercentage       string `json:"vat_rate_percentage"`
	VATAmount               string `json:"vat_amount"`
	GrossAmount             string `json:"gross_amount"`
	DeductibleAmount        string `json:"deductible_amount"`
	BusinessUsagePercentage string `json:"business_usage_percentage"`
}

type VATSummaryResponse struct {
	TotalSales     string `json:"total_sales"`
	TotalOutputVAT string `json:"total_output_vat"`
	TotalPurchases string `json:"total_purchases"`
	TotalInputVAT  string `json:"total_input_vat"`
	NetVATDue      string `json:"net_vat_due"`
}

// --- Interface ---

type VATService interface {
	GetVATRates(ctx context.Context, country string, activeOnly bool) ([]VATRateResponse, error)
	CreateVATRate(ctx context.Context, req CreateVATRateRequest, userID string) (VATRateResponse, error)
	GetExpenseCategories(ctx context.Context) ([]ExpenseCategoryResponse, error)
	GetBusinessUsageOptions(ctx context.Context) ([]BusinessUsageOptionResponse, error)
	Calculate(ctx context.Context, req CalculateVATRequest) (VATCalculationResponse, error)
	// ResolvePercentage turns an optional rate id / explicit percentage pair
	// into the percentage the calculator should use, applying the configured
	// fallback policy when the id does not resolve.
	ResolvePercentage(ctx context.Context, rateID *uint, explicit *decimal.Decimal) (decimal.Decimal, error)
	GetVATSummary(ctx context.Context, companyID uuid.UUID, start, end time.Time) (VATSummaryResponse, error)
}

type vatService struct {
	db          *gorm.DB
	vatRateRepo repository.VATRateRepository
	catRepo     repository.CategoryRepository
	auditRepo   repository.AuditRepository
	cfg         config.VATConfig
}

func NewVATService(
	db *gorm.DB,
	vatRateRepo repository.VATRateRepository,
	catRepo repository.CategoryRepository,
	auditRepo repository.AuditRepository,
	cfg config.VATConfig,
) VATService {
	return &vatService{
		db:          db,
		vatRateRepo: vatRateRepo,
		catRepo:     catRepo,
		auditRepo:   auditRepo,
		cfg:         cfg,
	}
}

// --- Implementation ---

func (s *vatService) GetVATRates(ctx context.Context, country string, activeOnly bool) ([]VATRateResponse, error) {
	if country == "" {
		country = s.cfg.Country
	}

	rates, err := s.vatRateRepo.List(ctx, country, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vat rates: %w", err)
	}

	res := make([]VATRateResponse, 0, len(rates))
	for _, r := range rates {
		res = append(res, toVATRateResponse(r))
	}
	return res, nil
}

func (s *vatService) CreateVATRate(ctx context.Context, req CreateVATRateRequest, userID string) (VATRateResponse, error) {
	percentage, err := decimal.NewFromString(req.RatePercentage)
	if err != nil {
		return VATRateResponse{}, fmt.Errorf("invalid rate_percentage: %w", err)
	}
	if percentage.IsNegative() {
		return VATRateResponse{}, fmt.Errorf("rate_percentage must not be negative: %w", vat.ErrInvalidArgument)
	}

	effectiveFrom, err := parseDate("effective_from", req.EffectiveFrom)
	if err != nil {
		return VATRateResponse{}, err
	}

	effectiveUntil, err := parseOptionalDate("effective_until", req.EffectiveUntil)
	if err != nil {
		return VATRateResponse{}, err
	}

	country := req.Country
	if country == "" {
		country = s.cfg.Country
	}

	rate := model.VATRate{
		Country:        country,
		RateName:       req.RateName,
		RatePercentage: percentage,
		Description:    req.Description,
		IsActive:       true,
		EffectiveFrom:  effectiveFrom,
		EffectiveUntil: effectiveUntil,
	}

	if err := s.vatRateRepo.Create(ctx, &rate); err != nil {
		return VATRateResponse{}, fmt.Errorf("failed to create vat rate: %w", err)
	}

	writeAuditLog(ctx, s.auditRepo, userID, model.ActionCreateVATRate, fmt.Sprintf("%d", rate.ID), country+" "+req.RateName, req)

	return toVATRateResponse(rate), nil
}

func (s *vatService) GetExpenseCategories(ctx context.Context) ([]ExpenseCategoryResponse, error) {
	categories, err := s.catRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense categories: %w", err)
	}

	res := make([]ExpenseCategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, ExpenseCategoryResponse{
			ID:                    c.ID,
			CategoryName:          c.CategoryName,
			CategoryType:          c.CategoryType,
			DefaultVATRateID:      c.DefaultVATRateID,
			SupportsBusinessUsage: c.SupportsBusinessUsage,
			DefaultBusinessUsage:  c.DefaultBusinessUsage.StringFixed(2),
			RequiresReceipt:       c.RequiresReceipt,
			Description:           c.Description,
		})
	}
	return res, nil
}

func (s *vatService) GetBusinessUsageOptions(ctx context.Context) ([]BusinessUsageOptionResponse, error) {
	options, err := s.catRepo.ListUsageOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business usage options: %w", err)
	}

	res := make([]BusinessUsageOptionResponse, 0, len(options))
	for _, o := range options {
		res = append(res, BusinessUsageOptionResponse{
			ID:         o.ID,
			Percentage: o.Percentage.StringFixed(2),
			Label:      o.Label,
			IsDefault:  o.IsDefault,
		})
	}
	return res, nil
}

func (s *vatService) Calculate(ctx context.Context, req CalculateVATRequest) (VATCalculationResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return VATCalculationResponse{}, fmt.Errorf("invalid amount: %w", err)
	}

	var explicit *decimal.Decimal
	if req.VATRatePercentage != "" {
		p, err := decimal.NewFromString(req.VATRatePercentage)
		if err != nil {
			return VATCalculationResponse{}, fmt.Errorf("invalid vat_rate_percentage: %w", err)
		}
		explicit = &p
	}

	percentage, err := s.ResolvePercentage(ctx, req.VATRateID, explicit)
	if err != nil {
		return VATCalculationResponse{}, err
	}

	usage := decimal.NewFromInt(100)
	if req.BusinessUsagePercentage != "" {
		usage, err = decimal.NewFromString(req.BusinessUsagePercentage)
		if err != nil {
			return VATCalculationResponse{}, fmt.Errorf("invalid business_usage_percentage: %w", err)
		}
	}

	var result vat.Result
	if req.AmountType == "gross" {
		result, err = vat.CalculateFromGross(amount, percentage, usage)
	} else {
		result, err = vat.CalculateFromNet(amount, percentage, usage)
	}
	if err != nil {
		return VATCalculationResponse{}, err
	}

	return toCalculationResponse(result), nil
}

func (s *vatService) ResolvePercentage(ctx context.Context, rateID *uint, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}

	if rateID != nil {
		percentage, err := s.vatRateRepo.ActivePercentage(ctx, *rateID)
		if err == nil {
			return percentage, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("failed to resolve vat rate %d: %w", *rateID, err)
		}
		if !s.cfg.FallbackToStandard {
			return decimal.Zero, fmt.Errorf("vat rate %d: %w", *rateID, vat.ErrRateNotFound)
		}
		// Fallback policy enabled: apply the configured standard rate
	}

	return s.cfg.StandardRate, nil
}

func (s *vatService) GetVATSummary(ctx context.Context, companyID uuid.UUID, start, end time.Time) (VATSummaryResponse, error) {
	var sales struct {
		TotalSales     decimal.Decimal
		TotalOutputVAT decimal.Decimal
	}
	err := s.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("COALESCE(SUM(net_amount), 0) as total_sales, COALESCE(SUM(vat_amount), 0) as total_output_vat").
		Where("company_id = ? AND issue_date BETWEEN ? AND ?", companyID, start, end).
		Scan(&sales).Error
	if err != nil {
		return VATSummaryResponse{}, fmt.Errorf("failed to aggregate sales vat: %w", err)
	}

	// Input VAT is scaled by business usage: only the business share of the
	// VAT on each expense is reclaimable.
	var purchases struct {
		TotalPurchases decimal.Decimal
		TotalInputVAT  decimal.Decimal
	}
	err = s.db.WithContext(ctx).Model(&model.Expense{}).
		Select("COALESCE(SUM(deductible_amount), 0) as total_purchases, COALESCE(SUM(vat_amount * business_usage_percentage / 100), 0) as total_input_vat").
		Where("company_id = ? AND expense_date BETWEEN ? AND ?", companyID, start, end).
		Scan(&purchases).Error
	if err != nil {
		return VATSummaryResponse{}, fmt.Errorf("failed to aggregate purchase vat: %w", err)
	}

	netDue := sales.TotalOutputVAT.Sub(purchases.TotalInputVAT)

	return VATSummaryResponse{
		TotalSales:     sales.TotalSales.StringFixed(2),
		TotalOutputVAT: sales.TotalOutputVAT.StringFixed(2),
		TotalPurchases: purchases.TotalPurchases.StringFixed(2),
		TotalInputVAT:  purchases.TotalInputVAT.Round(2).StringFixed(2),
		NetVATDue:      netDue.Round(2).StringFixed(2),
	}, nil
}

// --- Helpers ---

func toVATRateResponse(r model.VATRate) VATRateResponse {
	resp := VATRateResponse{
		ID:             r.ID,
		Country:        r.Country,
		RateName:       r.RateName,
		RatePercentage: r.RatePercentage.StringFixed(2),
		Description:    r.Description,
		IsActive:       r.IsActive,
		EffectiveFrom:  r.EffectiveFrom.Format("2006-01-02"),
	}
	if r.EffectiveUntil != nil {
		s := r.EffectiveUntil.Format("2006-01-02")
		resp.EffectiveUntil = &s
	}
	return resp
}

func toCalculationResponse(r vat.Result) VATCalculationResponse {
	return VATCalculationResponse{
		NetAmount:               r.NetAmount.StringFixed(2),
		VATRatePercentage:       r.VATRatePercentage.StringFixed(2),
		VATAmount:               r.VATAmount.StringFixed(2),
		GrossAmount:             r.GrossAmount.StringFixed(2),
		DeductibleAmount:        r.DeductibleAmount.StringFixed(2),
		BusinessUsagePercentage: r.BusinessUsagePercentage.StringFixed(2),
	}
}
