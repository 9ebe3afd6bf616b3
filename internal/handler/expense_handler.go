package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/api/companies/:companyId/expenses")
	{
		expenses.POST("", middleware.RequireRole("admin", "accountant"), h.CreateExpense)
		expenses.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.ListExpenses)
		expenses.GET("/:id", middleware.RequireRole("admin", "accountant", "viewer"), h.GetExpense)
		expenses.PUT("/:id", middleware.RequireRole("admin", "accountant"), h.UpdateExpense)
		expenses.DELETE("/:id", middleware.RequireRole("admin", "accountant"), h.DeleteExpense)
	}
}

// CreateExpense records an expense. For eworker and mileage types the net
// amount is derived from the day or km inputs.
// @Summary      Create expense
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        companyId  path      string                        true  "Company ID"
// @Param        payload    body      service.CreateExpenseRequest  true  "Create Expense Payload"
// @Success      201        {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/companies/{companyId}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// ListExpenses returns a paginated list, optionally filtered by expense_type
// @Summary      List expenses
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        companyId  path      string  true   "Company ID"
// @Param        type       query     string  false  "Filter by expense type (general, eworker, mileage, subsistence)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=object}
// @Router       /api/companies/{companyId}/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), id, c.Query("type"), params.Page, params.Limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, expenses, total, params.Page, params.Limit))
}

func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), cid, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), cid, id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), cid, id, currentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
