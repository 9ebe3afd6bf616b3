package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/companies/:companyId/dashboard/metrics",
		middleware.RequireRole("admin", "accountant", "viewer"), h.GetMetrics)
}

// GetMetrics aggregates the company's financial position for a period
// @Summary      Dashboard metrics
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        companyId  path      string  true   "Company ID"
// @Param        start      query     string  false  "Period start (YYYY-MM-DD, defaults to Jan 1)"
// @Param        end        query     string  false  "Period end (YYYY-MM-DD, defaults to Dec 31)"
// @Success      200        {object}  response.Response{data=model.DashboardMetrics}
// @Router       /api/companies/{companyId}/dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	start, end, ok := periodRange(c)
	if !ok {
		return
	}

	metrics, err := h.dashboardService.GetMetrics(c.Request.Context(), id, start, end)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, metrics))
}
