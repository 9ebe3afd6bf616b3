package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Employee, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]model.Employee, error) {
	var employees []model.Employee

	query := GetDB(ctx, r.db).Where("company_id = ?", companyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("last_name, first_name").Find(&employees).Error; err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}
