package repository

import (
	"context"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VATRateRepository reads and seeds the vat_rates reference table.
type VATRateRepository interface {
	List(ctx context.Context, country string, activeOnly bool) ([]model.VATRate, error)
	FindByID(ctx context.Context, id uint) (*model.VATRate, error)
	// ActivePercentage resolves an active rate id to its percentage.
	// Returns gorm.ErrRecordNotFound when no active rate matches.
	ActivePercentage(ctx context.Context, id uint) (decimal.Decimal, error)
	Create(ctx context.Context, rate *model.VATRate) error
	Count(ctx context.Context) (int64, error)
}

type vatRateRepository struct {
	db *gorm.DB
}

func NewVATRateRepository(db *gorm.DB) VATRateRepository {
	return &vatRateRepository{db: db}
}

func (r *vatRateRepository) List(ctx context.Context, country string, activeOnly bool) ([]model.VATRate, error) {
	var rates []model.VATRate

	query := GetDB(ctx, r.db).Where("country = ?", country)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("rate_percentage DESC").Find(&rates).Error; err != nil {
		return nil, err
	}

	return rates, nil
}

func (r *vatRateRepository) FindByID(ctx context.Context, id uint) (*model.VATRate, error) {
	var rate model.VATRate
	if err := GetDB(ctx, r.db).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *vatRateRepository) ActivePercentage(ctx context.Context, id uint) (decimal.Decimal, error) {
	var rate model.VATRate
	if err := GetDB(ctx, r.db).First(&rate, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return decimal.Zero, err
	}
	return rate.RatePercentage, nil
}

func (r *vatRateRepository) Create(ctx context.Context, rate *model.VATRate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *vatRateRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.VATRate{}).Count(&total).Error
	return total, err
}
