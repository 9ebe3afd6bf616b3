package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankStatementRepository interface {
	Create(ctx context.Context, statement *model.BankStatement) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.BankStatement, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, reconciled *bool, page, limit int) ([]model.BankStatement, int64, error)
	Update(ctx context.Context, statement *model.BankStatement) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type bankStatementRepository struct {
	db *gorm.DB
}

func NewBankStatementRepository(db *gorm.DB) BankStatementRepository {
	return &bankStatementRepository{db: db}
}

func (r *bankStatementRepository) Create(ctx context.Context, statement *model.BankStatement) error {
	return GetDB(ctx, r.db).Create(statement).Error
}

func (r *bankStatementRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.BankStatement, error) {
	var statement model.BankStatement
	if err := GetDB(ctx, r.db).First(&statement, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &statement, nil
}

func (r *bankStatementRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, reconciled *bool, page, limit int) ([]model.BankStatement, int64, error) {
	var statements []model.BankStatement
	var total int64

	db := GetDB(ctx, r.db).Where("company_id = ?", companyID)
	if reconciled != nil {
		db = db.Where("reconciled = ?", *reconciled)
	}

	if err := db.Model(&model.BankStatement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("statement_date DESC, created_at DESC").Offset(offset).Limit(limit).Find(&statements).Error; err != nil {
		return nil, 0, err
	}

	return statements, total, nil
}

func (r *bankStatementRepository) Update(ctx context.Context, statement *model.BankStatement) error {
	return GetDB(ctx, r.db).Save(statement).Error
}

func (r *bankStatementRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("id = ? AND company_id = ?", id, companyID).Delete(&model.BankStatement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
