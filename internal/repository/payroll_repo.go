package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayrollRepository interface {
	Create(ctx context.Context, entry *model.PayrollEntry) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.PayrollEntry, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]model.PayrollEntry, int64, error)
	Update(ctx context.Context, entry *model.PayrollEntry) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type payrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) Create(ctx context.Context, entry *model.PayrollEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *payrollRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.PayrollEntry, error) {
	var entry model.PayrollEntry
	if err := GetDB(ctx, r.db).Preload("Employee").First(&entry, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *payrollRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]model.PayrollEntry, int64, error) {
	var entries []model.PayrollEntry
	var total int64

	db := GetDB(ctx, r.db).Where("company_id = ?", companyID)
	if err := db.Model(&model.PayrollEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Employee").Order("payment_date DESC, created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *payrollRepository) Update(ctx context.Context, entry *model.PayrollEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *payrollRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("id = ? AND company_id = ?", id, companyID).Delete(&model.PayrollEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
