package handler

import (
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type VATHandler struct {
	vatService service.VATService
}

func NewVATHandler(vatService service.VATService) *VATHandler {
	return &VATHandler{vatService: vatService}
}

func (h *VATHandler) RegisterRoutes(router *gin.RouterGroup) {
	rates := router.Group("/api/vat-rates")
	{
		rates.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.GetVATRates)
		rates.POST("", middleware.RequireRole("admin"), h.CreateVATRate)
	}

	router.POST("/api/vat/calculate", middleware.RequireRole("admin", "accountant", "viewer"), h.Calculate)
	router.GET("/api/expense-categories", middleware.RequireRole("admin", "accountant", "viewer"), h.GetExpenseCategories)
	router.GET("/api/business-usage-options", middleware.RequireRole("admin", "accountant", "viewer"), h.GetBusinessUsageOptions)
	router.GET("/api/companies/:companyId/vat-summary", middleware.RequireRole("admin", "accountant", "viewer"), h.GetVATSummary)
}

// GetVATRates returns the VAT rates for a country, active ones by default
// @Summary      List VAT rates
// @Tags         vat
// @Security     BearerAuth
// @Produce      json
// @Param        country  query     string  false  "Country name (defaults to configured country)"
// @Param        all      query     bool    false  "Include inactive rates"
// @Success      200      {object}  response.Response{data=[]service.VATRateResponse}
// @Router       /api/vat-rates [get]
func (h *VATHandler) GetVATRates(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	rates, err := h.vatService.GetVATRates(c.Request.Context(), c.Query("country"), activeOnly)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rates))
}

// CreateVATRate creates a new VAT rate entry
// @Summary      Create VAT rate
// @Tags         vat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateVATRateRequest  true  "Create VAT Rate Payload"
// @Success      201      {object}  response.Response{data=service.VATRateResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vat-rates [post]
func (h *VATHandler) CreateVATRate(c *gin.Context) {
	var req service.CreateVATRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	rate, err := h.vatService.CreateVATRate(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rate))
}

// Calculate runs a standalone VAT calculation without persisting anything
// @Summary      Calculate VAT breakdown
// @Description  Computes net, VAT, gross and deductible amounts from a net or gross input
// @Tags         vat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CalculateVATRequest  true  "Calculation input"
// @Success      200      {object}  response.Response{data=service.VATCalculationResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vat/calculate [post]
func (h *VATHandler) Calculate(c *gin.Context) {
	var req service.CalculateVATRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.vatService.Calculate(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetExpenseCategories returns the active expense categories with their defaults
func (h *VATHandler) GetExpenseCategories(c *gin.Context) {
	categories, err := h.vatService.GetExpenseCategories(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// GetBusinessUsageOptions returns the business usage pick-list
func (h *VATHandler) GetBusinessUsageOptions(c *gin.Context) {
	options, err := h.vatService.GetBusinessUsageOptions(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, options))
}

// GetVATSummary returns the VAT position for a filing period
// @Summary      VAT period summary
// @Tags         vat
// @Security     BearerAuth
// @Produce      json
// @Param        companyId  path      string  true   "Company ID"
// @Param        start      query     string  true   "Period start (YYYY-MM-DD)"
// @Param        end        query     string  true   "Period end (YYYY-MM-DD)"
// @Success      200        {object}  response.Response{data=service.VATSummaryResponse}
// @Router       /api/companies/{companyId}/vat-summary [get]
func (h *VATHandler) GetVATSummary(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	start, end, ok := periodRange(c)
	if !ok {
		return
	}

	summary, err := h.vatService.GetVATSummary(c.Request.Context(), id, start, end)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// periodRange reads start/end query params, defaulting to the current
// calendar year when absent.
func periodRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)

	if v := c.Query("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		// Inclusive end of day
		end = parsed.Add(24*time.Hour - time.Second)
	}

	return start, end, true
}
