package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BankStatementHandler struct {
	statementService service.BankStatementService
}

func NewBankStatementHandler(statementService service.BankStatementService) *BankStatementHandler {
	return &BankStatementHandler{statementService: statementService}
}

func (h *BankStatementHandler) RegisterRoutes(router *gin.RouterGroup) {
	statements := router.Group("/api/companies/:companyId/bank-statements")
	{
		statements.POST("", middleware.RequireRole("admin", "accountant"), h.CreateStatement)
		statements.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.ListStatements)
		statements.GET("/:id", middleware.RequireRole("admin", "accountant", "viewer"), h.GetStatement)
		statements.PUT("/:id/reconcile", middleware.RequireRole("admin", "accountant"), h.ReconcileStatement)
		statements.PUT("/:id/unreconcile", middleware.RequireRole("admin", "accountant"), h.UnreconcileStatement)
		statements.DELETE("/:id", middleware.RequireRole("admin", "accountant"), h.DeleteStatement)
	}
}

// CreateStatement records one bank transaction line
// @Summary      Create bank statement line
// @Tags         bank-statements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        companyId  path      string                              true  "Company ID"
// @Param        payload    body      service.CreateBankStatementRequest  true  "Statement line"
// @Success      201        {object}  response.Response{data=service.BankStatementResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/companies/{companyId}/bank-statements [post]
func (h *BankStatementHandler) CreateStatement(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	var req service.CreateBankStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	statement, err := h.statementService.CreateStatement(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, statement))
}

// ListStatements returns a paginated list, optionally filtered by
// reconciliation state via ?reconciled=true|false
func (h *BankStatementHandler) ListStatements(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	var reconciled *bool
	switch c.Query("reconciled") {
	case "true":
		v := true
		reconciled = &v
	case "false":
		v := false
		reconciled = &v
	}

	params := pagination.Parse(c)
	statements, total, err := h.statementService.ListStatements(c.Request.Context(), id, reconciled, params.Page, params.Limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, statements, total, params.Page, params.Limit))
}

func (h *BankStatementHandler) GetStatement(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	statement, err := h.statementService.GetStatement(c.Request.Context(), cid, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, statement))
}

// ReconcileStatement links a statement line to the invoice, expense or
// payroll entry that settles it
// @Summary      Reconcile statement line
// @Tags         bank-statements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        companyId  path      string                    true  "Company ID"
// @Param        id         path      string                    true  "Statement ID"
// @Param        payload    body      service.ReconcileRequest  true  "Match target"
// @Success      200        {object}  response.Response{data=service.BankStatementResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/companies/{companyId}/bank-statements/{id}/reconcile [put]
func (h *BankStatementHandler) ReconcileStatement(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	statement, err := h.statementService.ReconcileStatement(c.Request.Context(), cid, id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, statement))
}

func (h *BankStatementHandler) UnreconcileStatement(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	statement, err := h.statementService.UnreconcileStatement(c.Request.Context(), cid, id, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, statement))
}

func (h *BankStatementHandler) DeleteStatement(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.statementService.DeleteStatement(c.Request.Context(), cid, id, currentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
