package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/companies/:companyId/invoices")
	{
		invoices.POST("", middleware.RequireRole("admin", "accountant"), h.CreateInvoice)
		invoices.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.ListInvoices)
		invoices.GET("/:id", middleware.RequireRole("admin", "accountant", "viewer"), h.GetInvoice)
		invoices.PUT("/:id", middleware.RequireRole("admin", "accountant"), h.UpdateInvoice)
		invoices.DELETE("/:id", middleware.RequireRole("admin", "accountant"), h.DeleteInvoice)
	}
}

// CreateInvoice creates an invoice with its VAT breakdown computed server side
// @Summary      Create invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        companyId  path      string                        true  "Company ID"
// @Param        payload    body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201        {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/companies/{companyId}/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list of the company's invoices
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        companyId  path      string  true   "Company ID"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=object}
// @Router       /api/companies/{companyId}/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), id, params.Page, params.Limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, invoices, total, params.Page, params.Limit))
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), cid, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), cid, id, req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), cid, id, currentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
