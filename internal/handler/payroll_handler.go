package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct {
	payrollService service.PayrollService
}

func NewPayrollHandler(payrollService service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payroll := router.Group("/api/companies/:companyId/payroll")
	{
		payroll.POST("", middleware.RequireRole("admin", "accountant"), h.CreateEntry)
		payroll.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.ListEntries)
		payroll.GET("/:id", middleware.RequireRole("admin", "accountant", "viewer"), h.GetEntry)
		payroll.PUT("/:id", middleware.RequireRole("admin", "accountant"), h.UpdateEntry)
		payroll.DELETE("/:id", middleware.RequireRole("admin", "accountant"), h.DeleteEntry)
	}
}

// CreateEntry records a pay run line. Net pay is derived from gross minus
// PAYE, PRSI and USC; a mismatching client-supplied net is rejected.
// @Summary      Create payroll entry
// @Tags         payroll
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        companyId  path      string                        true  "Company ID"
// @Param        payload    body      service.CreatePayrollRequest  true  "Create Payroll Payload"
// @Success      201        {object}  response.Response{data=service.PayrollResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/companies/{companyId}/payroll [post]
func (h *PayrollHandler) CreateEntry(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	var req service.CreatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	entry, err := h.payrollService.CreatePayrollEntry(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

func (h *PayrollHandler) ListEntries(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	entries, total, err := h.payrollService.ListPayrollEntries(c.Request.Context(), id, params.Page, params.Limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, total, params.Page, params.Limit))
}

func (h *PayrollHandler) GetEntry(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entry, err := h.payrollService.GetPayrollEntry(c.Request.Context(), cid, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

func (h *PayrollHandler) UpdateEntry(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	entry, err := h.payrollService.UpdatePayrollEntry(c.Request.Context(), cid, id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

func (h *PayrollHandler) DeleteEntry(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.payrollService.DeletePayrollEntry(c.Request.Context(), cid, id, currentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
