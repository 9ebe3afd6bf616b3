package handler

import (
	"io"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	documents := router.Group("/api/companies/:companyId/documents")
	{
		documents.POST("", middleware.RequireRole("admin", "accountant"), h.UploadDocument)
		documents.GET("", middleware.RequireRole("admin", "accountant", "viewer"), h.ListDocuments)
		documents.GET("/:id/download", middleware.RequireRole("admin", "accountant", "viewer"), h.DownloadDocument)
		documents.DELETE("/:id", middleware.RequireRole("admin", "accountant"), h.DeleteDocument)
	}

	// Global storage mode, admin only
	storageCfg := router.Group("/api/storage-config")
	storageCfg.Use(middleware.RequireRole("admin"))
	{
		storageCfg.GET("", h.GetStorageConfig)
		storageCfg.PUT("", h.UpdateStorageConfig)
	}
}

// GetStorageConfig reports which backend receives new uploads
// @Summary      Get storage configuration
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.StorageConfigResponse}
// @Router       /api/storage-config [get]
func (h *DocumentHandler) GetStorageConfig(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.documentService.GetStorageConfig(c.Request.Context())))
}

// UpdateStorageConfig switches the backend for new uploads. Existing
// documents are read from the backend recorded on their row.
// @Summary      Update storage configuration
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.UpdateStorageConfigRequest  true  "New backend (local, database or s3)"
// @Success      200      {object}  response.Response{data=service.StorageConfigResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/storage-config [put]
func (h *DocumentHandler) UpdateStorageConfig(c *gin.Context) {
	var req service.UpdateStorageConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	cfg, err := h.documentService.SetStorageBackend(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cfg))
}

// UploadDocument attaches a file to an invoice, expense, payroll entry or
// bank statement line
// @Summary      Upload document
// @Tags         documents
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        companyId    path      string  true  "Company ID"
// @Param        entity_type  formData  string  true  "invoice, expense, payroll or bank_statement"
// @Param        entity_id    formData  string  true  "Target entity UUID"
// @Param        file         formData  file    true  "Attachment"
// @Success      201          {object}  response.Response{data=service.DocumentResponse}
// @Failure      400          {object}  response.Response
// @Router       /api/companies/{companyId}/documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}

	entityType := c.PostForm("entity_type")
	entityID, err := uuid.Parse(c.PostForm("entity_id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid entity_id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "Missing file upload: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "Failed to open upload: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	document, err := h.documentService.UploadDocument(
		c.Request.Context(), cid, entityType, entityID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, document))
}

// ListDocuments returns the attachments on one entity
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}

	entityType := c.Query("entity_type")
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid entity_id")
		return
	}

	documents, err := h.documentService.ListDocuments(c.Request.Context(), cid, entityType, entityID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, documents))
}

// DownloadDocument streams the attachment bytes with the original filename
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	download, err := h.documentService.DownloadDocument(c.Request.Context(), cid, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+download.FileName+`"`)
	c.Data(http.StatusOK, download.ContentType, download.Data)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	cid, ok := companyID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), cid, id, currentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
