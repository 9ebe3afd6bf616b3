package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/vat"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBankStatementRequest struct {
	StatementDate   string `json:"statement_date" binding:"required"` // YYYY-MM-DD
	Description     string `json:"description" binding:"required"`
	Amount          string `json:"amount" binding:"required"` // Decimal string
	Balance         string `json:"balance"`
	TransactionType string `json:"transaction_type" binding:"required,oneof=credit debit"`
}

type ReconcileRequest struct {
	MatchedEntityType string `json:"matched_entity_type" binding:"required,oneof=invoice expense payroll"`
	MatchedEntityID   string `json:"matched_entity_id" binding:"required"` // uuid
}

type BankStatementResponse struct {
	ID                string  `json:"id"`
	CompanyID         string  `json:"company_id"`
	StatementDate     string  `json:"statement_date"`
	Description       string  `json:"description"`
	Amount            string  `json:"amount"`
	Balance           *string `json:"balance"`
	TransactionType   string  `json:"transaction_type"`
	Reconciled        bool    `json:"reconciled"`
	MatchedEntityType *string `json:"matched_entity_type"`
	MatchedEntityID   *string `json:"matched_entity_id"`
	CreatedAt         string  `json:"created_at"`
}

// --- Interface ---

type BankStatementService interface {
	CreateStatement(ctx context.Context, companyID uuid.UUID, req CreateBankStatementRequest, userID string) (BankStatementResponse, error)
	GetStatement(ctx context.Context, companyID, id uuid.UUID) (BankStatementResponse, error)
	ListStatements(ctx context.Context, companyID uuid.UUID, reconciled *bool, page, limit int) ([]BankStatementResponse, int64, error)
	ReconcileStatement(ctx context.Context, companyID, id uuid.UUID, req ReconcileRequest, userID string) (BankStatementResponse, error)
	UnreconcileStatement(ctx context.Context, companyID, id uuid.UUID, userID string) (BankStatementResponse, error)
	DeleteStatement(ctx context.Context, companyID, id uuid.UUID, userID string) error
}

type bankStatementService struct {
	statementRepo repository.BankStatementRepository
	invoiceRepo   repository.InvoiceRepository
	expenseRepo   repository.ExpenseRepository
	payrollRepo   repository.PayrollRepository
	companyRepo   repository.CompanyRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           ChangeNotifier // optional websocket hub
}

func NewBankStatementService(
	statementRepo repository.BankStatementRepository,
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	payrollRepo repository.PayrollRepository,
	companyRepo repository.CompanyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub ChangeNotifier,
) BankStatementService {
	return &bankStatementService{
		statementRepo: statementRepo,
		invoiceRepo:   invoiceRepo,
		expenseRepo:   expenseRepo,
		payrollRepo:   payrollRepo,
		companyRepo:   companyRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// --- Implementation ---

func (s *bankStatementService) CreateStatement(ctx context.Context, companyID uuid.UUID, req CreateBankStatementRequest, userID string) (BankStatementResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BankStatementResponse{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		return BankStatementResponse{}, fmt.Errorf("failed to check company: %w", err)
	}

	statementDate, err := parseDate("statement_date", req.StatementDate)
	if err != nil {
		return BankStatementResponse{}, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return BankStatementResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return BankStatementResponse{}, fmt.Errorf("amount must not be negative, use transaction_type=debit: %w", vat.ErrInvalidArgument)
	}

	var balance *decimal.Decimal
	if req.Balance != "" {
		b, err := decimal.NewFromString(req.Balance)
		if err != nil {
			return BankStatementResponse{}, fmt.Errorf("invalid balance: %w", err)
		}
		balance = &b
	}

	statement := model.BankStatement{
		CompanyID:       companyID,
		StatementDate:   statementDate,
		Description:     req.Description,
		Amount:          amount,
		Balance:         balance,
		TransactionType: req.TransactionType,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.statementRepo.Create(txCtx, &statement); err != nil {
			return fmt.Errorf("failed to create bank statement: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateBankStatement, statement.ID.String(), statement.Description, req)
		return nil
	})
	if err != nil {
		return BankStatementResponse{}, err
	}

	return toBankStatementResponse(statement), nil
}

func (s *bankStatementService) GetStatement(ctx context.Context, companyID, id uuid.UUID) (BankStatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BankStatementResponse{}, fmt.Errorf("bank statement %s: %w", id, ErrNotFound)
		}
		return BankStatementResponse{}, fmt.Errorf("failed to fetch bank statement: %w", err)
	}
	return toBankStatementResponse(*statement), nil
}

func (s *bankStatementService) ListStatements(ctx context.Context, companyID uuid.UUID, reconciled *bool, page, limit int) ([]BankStatementResponse, int64, error) {
	statements, total, err := s.statementRepo.ListByCompany(ctx, companyID, reconciled, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bank statements: %w", err)
	}

	res := make([]BankStatementResponse, 0, len(statements))
	for _, st := range statements {
		res = append(res, toBankStatementResponse(st))
	}
	return res, total, nil
}

// ReconcileStatement links a statement line to the ledger entry that settles
// it. The target must exist in the same company; direction is checked so an
// invoice only matches a credit and an expense or payroll line only a debit.
func (s *bankStatementService) ReconcileStatement(ctx context.Context, companyID, id uuid.UUID, req ReconcileRequest, userID string) (BankStatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BankStatementResponse{}, fmt.Errorf("bank statement %s: %w", id, ErrNotFound)
		}
		return BankStatementResponse{}, fmt.Errorf("failed to fetch bank statement: %w", err)
	}

	entityID, err := uuid.Parse(req.MatchedEntityID)
	if err != nil {
		return BankStatementResponse{}, fmt.Errorf("invalid matched_entity_id: %w", err)
	}

	if err := s.checkMatchTarget(ctx, companyID, statement.TransactionType, req.MatchedEntityType, entityID); err != nil {
		return BankStatementResponse{}, err
	}

	entityType := req.MatchedEntityType
	statement.Reconciled = true
	statement.MatchedEntityType = &entityType
	statement.MatchedEntityID = &entityID

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.statementRepo.Update(txCtx, statement); err != nil {
			return fmt.Errorf("failed to reconcile bank statement: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionReconcileStatement, statement.ID.String(), statement.Description, req)
		return nil
	})
	if err != nil {
		return BankStatementResponse{}, err
	}

	notifyLedgerChange(s.hub, companyID, "statement_reconciled", statement.ID)

	return toBankStatementResponse(*statement), nil
}

func (s *bankStatementService) UnreconcileStatement(ctx context.Context, companyID, id uuid.UUID, userID string) (BankStatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BankStatementResponse{}, fmt.Errorf("bank statement %s: %w", id, ErrNotFound)
		}
		return BankStatementResponse{}, fmt.Errorf("failed to fetch bank statement: %w", err)
	}

	statement.Reconciled = false
	statement.MatchedEntityType = nil
	statement.MatchedEntityID = nil

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.statementRepo.Update(txCtx, statement); err != nil {
			return fmt.Errorf("failed to unreconcile bank statement: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpdateBankStatement, statement.ID.String(), statement.Description, nil)
		return nil
	})
	if err != nil {
		return BankStatementResponse{}, err
	}

	return toBankStatementResponse(*statement), nil
}

func (s *bankStatementService) DeleteStatement(ctx context.Context, companyID, id uuid.UUID, userID string) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.statementRepo.Delete(txCtx, companyID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("bank statement %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to delete bank statement: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteBankStatement, id.String(), "", nil)
		return nil
	})
	return err
}

// --- Helpers ---

func (s *bankStatementService) checkMatchTarget(ctx context.Context, companyID uuid.UUID, txType, entityType string, entityID uuid.UUID) error {
	var err error
	switch entityType {
	case model.MatchedInvoice:
		if txType != model.TransactionCredit {
			return fmt.Errorf("an invoice can only match a credit line: %w", vat.ErrInvalidArgument)
		}
		_, err = s.invoiceRepo.FindByID(ctx, companyID, entityID)
	case model.MatchedExpense:
		if txType != model.TransactionDebit {
			return fmt.Errorf("an expense can only match a debit line: %w", vat.ErrInvalidArgument)
		}
		_, err = s.expenseRepo.FindByID(ctx, companyID, entityID)
	case model.MatchedPayroll:
		if txType != model.TransactionDebit {
			return fmt.Errorf("a payroll entry can only match a debit line: %w", vat.ErrInvalidArgument)
		}
		_, err = s.payrollRepo.FindByID(ctx, companyID, entityID)
	default:
		return fmt.Errorf("unknown matched_entity_type %q: %w", entityType, vat.ErrInvalidArgument)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s %s: %w", entityType, entityID, ErrNotFound)
		}
		return fmt.Errorf("failed to check match target: %w", err)
	}
	return nil
}

func toBankStatementResponse(st model.BankStatement) BankStatementResponse {
	resp := BankStatementResponse{
		ID:                st.ID.String(),
		CompanyID:         st.CompanyID.String(),
		StatementDate:     st.StatementDate.Format("2006-01-02"),
		Description:       st.Description,
		Amount:            st.Amount.StringFixed(2),
		TransactionType:   st.TransactionType,
		Reconciled:        st.Reconciled,
		MatchedEntityType: st.MatchedEntityType,
		CreatedAt:         st.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if st.Balance != nil {
		b := st.Balance.StringFixed(2)
		resp.Balance = &b
	}
	if st.MatchedEntityID != nil {
		id := st.MatchedEntityID.String()
		resp.MatchedEntityID = &id
	}
	return resp
}
