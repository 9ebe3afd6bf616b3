package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService  service.CompanyService
	employeeService service.EmployeeService
}

func NewCompanyHandler(companyService service.CompanyService, employeeService service.EmployeeService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, employeeService: employeeService}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	companies := router.Group("/api/companies")
	{
		companies.POST("", middleware.RequireRole("admin", "accountant"), h.CreateCompany)
		companies.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.ListCompanies)
		companies.GET("/:companyId", middleware.RequireRole("admin", "accountant", "viewer"), h.GetCompany)
	}

	employees := router.Group("/api/companies/:companyId/employees")
	{
		employees.POST("", middleware.RequireRole("admin", "accountant"), h.CreateEmployee)
		employees.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.ListEmployees)
		employees.GET("/:id", middleware.RequireRole("admin", "accountant", "viewer"), h.GetEmployee)
		employees.PUT("/:id", middleware.RequireRole("admin", "accountant"), h.UpdateEmployee)
	}
}

// CreateCompany registers a new accounting entity
// @Summary      Create company
// @Tags         companies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCompanyRequest  true  "Create Company Payload"
// @Success      201      {object}  response.Response{data=service.CompanyResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req service.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, company))
}

// ListCompanies returns the companies owned by an email. Defaults to the
// authenticated user's email when no query param is given.
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	ownerEmail := c.Query("owner_email")
	if ownerEmail == "" {
		if v, ok := c.Get("userEmail"); ok {
			ownerEmail, _ = v.(string)
		}
	}
	if ownerEmail == "" {
		writeError(c, http.StatusBadRequest, "owner_email is required")
		return
	}

	companies, err := h.companyService.ListCompanies(c.Request.Context(), ownerEmail)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, companies))
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// --- Employees ---

func (h *CompanyHandler) CreateEmployee(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}

	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), cid, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

func (h *CompanyHandler) ListEmployees(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}

	activeOnly := c.Query("all") != "true"
	employees, err := h.employeeService.ListEmployees(c.Request.Context(), cid, activeOnly)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employees))
}

func (h *CompanyHandler) GetEmployee(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), cid, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

func (h *CompanyHandler) UpdateEmployee(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), cid, id, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}
