package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository reads the expense category and business usage
// reference tables.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]model.ExpenseCategory, error)
	FindByID(ctx context.Context, id uint) (*model.ExpenseCategory, error)
	Create(ctx context.Context, category *model.ExpenseCategory) error
	ListUsageOptions(ctx context.Context) ([]model.BusinessUsageOption, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]model.ExpenseCategory, error) {
	var categories []model.ExpenseCategory
	if err := GetDB(ctx, r.db).
		Where("is_active = ?", true).
		Order("category_name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.ExpenseCategory, error) {
	var category model.ExpenseCategory
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *model.ExpenseCategory) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) ListUsageOptions(ctx context.Context) ([]model.BusinessUsageOption, error) {
	var options []model.BusinessUsageOption
	if err := GetDB(ctx, r.db).Order("percentage DESC").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.ExpenseCategory{}).Count(&total).Error
	return total, err
}
