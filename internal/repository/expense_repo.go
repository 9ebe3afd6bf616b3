package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Expense, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, expenseType string, page, limit int) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Preload("Category").First(&expense, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, expenseType string, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db).Where("company_id = ?", companyID)
	if expenseType != "" {
		db = db.Where("expense_type = ?", expenseType)
	}

	if err := db.Model(&model.Expense{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Category").Order("expense_date DESC, created_at DESC").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("id = ? AND company_id = ?", id, companyID).Delete(&model.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
