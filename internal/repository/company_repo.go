package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	ListByOwnerEmail(ctx context.Context, ownerEmail string) ([]model.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	return GetDB(ctx, r.db).Create(company).Error
}

func (r *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := GetDB(ctx, r.db).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) ListByOwnerEmail(ctx context.Context, ownerEmail string) ([]model.Company, error) {
	var companies []model.Company
	if err := GetDB(ctx, r.db).
		Where("owner_email = ?", ownerEmail).
		Order("created_at").
		Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}
