package database

import (
	"context"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedReferenceData loads the Irish VAT rates, the expense categories and
// the business usage pick-list when the tables are empty. Idempotent:
// anything already present is left alone.
func SeedReferenceData(ctx context.Context, db *gorm.DB) error {
	vatRateRepo := repository.NewVATRateRepository(db)
	catRepo := repository.NewCategoryRepository(db)

	rateCount, err := vatRateRepo.Count(ctx)
	if err != nil {
		return err
	}

	rateIDs := map[string]uint{}
	if rateCount == 0 {
		effectiveFrom := time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)
		rates := []model.VATRate{
			{Country: "Ireland", RateName: "Standard", RatePercentage: dec("23.00"), Description: "Most goods and services", IsActive: true, EffectiveFrom: effectiveFrom},
			{Country: "Ireland", RateName: "Reduced", RatePercentage: dec("13.50"), Description: "Fuel, building services, repair", IsActive: true, EffectiveFrom: effectiveFrom},
			{Country: "Ireland", RateName: "Second Reduced", RatePercentage: dec("9.00"), Description: "Hospitality, newspapers, electricity", IsActive: true, EffectiveFrom: effectiveFrom},
			{Country: "Ireland", RateName: "Zero", RatePercentage: dec("0.00"), Description: "Exports, most food, books", IsActive: true, EffectiveFrom: effectiveFrom},
		}
		for i := range rates {
			if err := vatRateRepo.Create(ctx, &rates[i]); err != nil {
				return err
			}
			rateIDs[rates[i].RateName] = rates[i].ID
		}
		log.Println("Seeded Irish VAT rates")
	} else {
		existing, err := vatRateRepo.List(ctx, "Ireland", false)
		if err != nil {
			return err
		}
		for _, r := range existing {
			rateIDs[r.RateName] = r.ID
		}
	}

	catCount, err := catRepo.Count(ctx)
	if err != nil {
		return err
	}
	if catCount == 0 {
		standard := idPtr(rateIDs, "Standard")
		reduced := idPtr(rateIDs, "Reduced")
		zero := idPtr(rateIDs, "Zero")

		categories := []model.ExpenseCategory{
			{CategoryName: "Office Supplies", CategoryType: model.CategoryTypeGeneral, DefaultVATRateID: standard, DefaultBusinessUsage: dec("100.00"), RequiresReceipt: true, IsActive: true},
			{CategoryName: "Software & Subscriptions", CategoryType: model.CategoryTypeGeneral, DefaultVATRateID: standard, DefaultBusinessUsage: dec("100.00"), RequiresReceipt: true, IsActive: true},
			{CategoryName: "Professional Fees", CategoryType: model.CategoryTypeGeneral, DefaultVATRateID: standard, DefaultBusinessUsage: dec("100.00"), RequiresReceipt: true, IsActive: true},
			{CategoryName: "Phone & Broadband", CategoryType: model.CategoryTypeGeneral, DefaultVATRateID: standard, SupportsBusinessUsage: true, DefaultBusinessUsage: dec("50.00"), RequiresReceipt: true, IsActive: true},
			{CategoryName: "Light & Heat", CategoryType: model.CategoryTypeGeneral, DefaultVATRateID: reduced, SupportsBusinessUsage: true, DefaultBusinessUsage: dec("25.00"), RequiresReceipt: true, IsActive: true},
			{CategoryName: "Motor Expenses", CategoryType: model.CategoryTypeGeneral, DefaultVATRateID: reduced, SupportsBusinessUsage: true, DefaultBusinessUsage: dec("75.00"), RequiresReceipt: true, IsActive: true},
			{CategoryName: "E-Working Allowance", CategoryType: model.CategoryTypeEWorker, DefaultVATRateID: zero, DefaultBusinessUsage: dec("100.00"), RequiresReceipt: false, Description: "Days worked from home times the agreed daily rate", IsActive: true},
			{CategoryName: "Mileage", CategoryType: model.CategoryTypeMileage, DefaultVATRateID: zero, DefaultBusinessUsage: dec("100.00"), RequiresReceipt: false, Description: "Business kilometres at the civil service rate", IsActive: true},
			{CategoryName: "Subsistence", CategoryType: model.CategoryTypeSubsistence, DefaultVATRateID: zero, DefaultBusinessUsage: dec("100.00"), RequiresReceipt: false, IsActive: true},
		}
		for i := range categories {
			if err := catRepo.Create(ctx, &categories[i]); err != nil {
				return err
			}
		}
		log.Println("Seeded expense categories")
	}

	var optionCount int64
	if err := db.WithContext(ctx).Model(&model.BusinessUsageOption{}).Count(&optionCount).Error; err != nil {
		return err
	}
	if optionCount == 0 {
		options := []model.BusinessUsageOption{
			{Percentage: dec("100.00"), Label: "Fully business", IsDefault: true},
			{Percentage: dec("75.00"), Label: "Mostly business"},
			{Percentage: dec("50.00"), Label: "Half business"},
			{Percentage: dec("25.00"), Label: "Mostly personal"},
			{Percentage: dec("10.00"), Label: "Occasional business use"},
			{Percentage: dec("0.00"), Label: "Personal only"},
		}
		if err := db.WithContext(ctx).Create(&options).Error; err != nil {
			return err
		}
		log.Println("Seeded business usage options")
	}

	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func idPtr(ids map[string]uint, name string) *uint {
	if id, ok := ids[name]; ok {
		return &id
	}
	return nil
}
