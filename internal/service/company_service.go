package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Irish VAT registration format, e.g. IE1234567X or IE1234567XX.
var vatNumberPattern = regexp.MustCompile(`^IE[0-9]{7}[A-Z]{1,2}$`)

// --- DTOs ---

type CreateCompanyRequest struct {
	Name       string `json:"name" binding:"required"`
	OwnerEmail string `json:"owner_email" binding:"required,email"`
	VATNumber  string `json:"vat_number"`
	Address    string `json:"address"`
}

type CompanyResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OwnerEmail string `json:"owner_email"`
	VATNumber  string `json:"vat_number,omitempty"`
	Address    string `json:"address,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// --- Interface ---

type CompanyService interface {
	CreateCompany(ctx context.Context, req CreateCompanyRequest, userID string) (CompanyResponse, error)
	GetCompany(ctx context.Context, id uuid.UUID) (CompanyResponse, error)
	ListCompanies(ctx context.Context, ownerEmail string) ([]CompanyResponse, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
	auditRepo   repository.AuditRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository, auditRepo repository.AuditRepository) CompanyService {
	return &companyService{companyRepo: companyRepo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *companyService) CreateCompany(ctx context.Context, req CreateCompanyRequest, userID string) (CompanyResponse, error) {
	if req.VATNumber != "" && !vatNumberPattern.MatchString(req.VATNumber) {
		return CompanyResponse{}, fmt.Errorf("invalid Irish VAT number %q: %w", req.VATNumber, vat.ErrInvalidArgument)
	}

	company := model.Company{
		Name:       req.Name,
		OwnerEmail: req.OwnerEmail,
		VATNumber:  req.VATNumber,
		Address:    req.Address,
	}

	if err := s.companyRepo.Create(ctx, &company); err != nil {
		return CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}

	writeAuditLog(ctx, s.auditRepo, userID, model.ActionCreateCompany, company.ID.String(), company.Name, req)

	return toCompanyResponse(company), nil
}

func (s *companyService) GetCompany(ctx context.Context, id uuid.UUID) (CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, fmt.Errorf("company %s: %w", id, ErrNotFound)
		}
		return CompanyResponse{}, fmt.Errorf("failed to fetch company: %w", err)
	}
	return toCompanyResponse(*company), nil
}

func (s *companyService) ListCompanies(ctx context.Context, ownerEmail string) ([]CompanyResponse, error) {
	companies, err := s.companyRepo.ListByOwnerEmail(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	res := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		res = append(res, toCompanyResponse(c))
	}
	return res, nil
}

func toCompanyResponse(c model.Company) CompanyResponse {
	return CompanyResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		OwnerEmail: c.OwnerEmail,
		VATNumber:  c.VATNumber,
		Address:    c.Address,
		CreatedAt:  c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
