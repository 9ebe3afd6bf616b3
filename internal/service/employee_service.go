package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	PPSNumber string `json:"pps_number"`
	Position  string `json:"position"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

type UpdateEmployeeRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	PPSNumber string `json:"pps_number"`
	Position  string `json:"position"`
	IsActive  *bool  `json:"is_active"`
}

type EmployeeResponse struct {
	ID        string  `json:"id"`
	CompanyID string  `json:"company_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email,omitempty"`
	PPSNumber string  `json:"pps_number,omitempty"`
	Position  string  `json:"position,omitempty"`
	StartDate *string `json:"start_date"`
	IsActive  bool    `json:"is_active"`
}

// --- Interface ---

type EmployeeService interface {
	CreateEmployee(ctx context.Context, companyID uuid.UUID, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, companyID, id uuid.UUID) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, companyID, id uuid.UUID, req UpdateEmployeeRequest) (EmployeeResponse, error)
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository, companyRepo repository.CompanyRepository) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo, companyRepo: companyRepo}
}

// --- Implementation ---

func (s *employeeService) CreateEmployee(ctx context.Context, companyID uuid.UUID, req CreateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		return EmployeeResponse{}, fmt.Errorf("failed to check company: %w", err)
	}

	startDate, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	employee := model.Employee{
		CompanyID: companyID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		PPSNumber: req.PPSNumber,
		Position:  req.Position,
		StartDate: startDate,
		IsActive:  true,
	}

	if err := s.employeeRepo.Create(ctx, &employee); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return toEmployeeResponse(employee), nil
}

func (s *employeeService) GetEmployee(ctx context.Context, companyID, id uuid.UUID) (EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, fmt.Errorf("employee %s: %w", id, ErrNotFound)
		}
		return EmployeeResponse{}, fmt.Errorf("failed to fetch employee: %w", err)
	}
	return toEmployeeResponse(*employee), nil
}

func (s *employeeService) ListEmployees(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListByCompany(ctx, companyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	res := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		res = append(res, toEmployeeResponse(e))
	}
	return res, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, companyID, id uuid.UUID, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, fmt.Errorf("employee %s: %w", id, ErrNotFound)
		}
		return EmployeeResponse{}, fmt.Errorf("failed to fetch employee: %w", err)
	}

	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.Email != "" {
		employee.Email = req.Email
	}
	if req.PPSNumber != "" {
		employee.PPSNumber = req.PPSNumber
	}
	if req.Position != "" {
		employee.Position = req.Position
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return toEmployeeResponse(*employee), nil
}

func toEmployeeResponse(e model.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID.String(),
		CompanyID: e.CompanyID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		PPSNumber: e.PPSNumber,
		Position:  e.Position,
		IsActive:  e.IsActive,
	}
	if e.StartDate != nil {
		d := e.StartDate.Format("2006-01-02")
		resp.StartDate = &d
	}
	return resp
}
