package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"
	"backend/internal/vat"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadSize = 10 << 20 // 10 MiB

// --- DTOs ---

type DocumentResponse struct {
	ID               string `json:"id"`
	CompanyID        string `json:"company_id"`
	EntityType       string `json:"entity_type"`
	EntityID         string `json:"entity_id"`
	FileName         string `json:"file_name"`
	OriginalFileName string `json:"original_file_name"`
	ContentType      string `json:"content_type"`
	FileSize         int64  `json:"file_size"`
	StorageBackend   string `json:"storage_backend"`
	UploadedAt       string `json:"uploaded_at"`
}

// DocumentDownload is the loaded attachment: metadata plus bytes.
type DocumentDownload struct {
	FileName    string
	ContentType string
	Data        []byte
}

type StorageConfigResponse struct {
	Backend           string   `json:"backend"`
	AvailableBackends []string `json:"available_backends"`
}

type UpdateStorageConfigRequest struct {
	Backend string `json:"backend" binding:"required,oneof=local database s3"`
}

// --- Interface ---

type DocumentService interface {
	UploadDocument(ctx context.Context, companyID uuid.UUID, entityType string, entityID uuid.UUID, fileName, contentType string, data []byte, userID string) (DocumentResponse, error)
	DownloadDocument(ctx context.Context, companyID, id uuid.UUID) (DocumentDownload, error)
	ListDocuments(ctx context.Context, companyID uuid.UUID, entityType string, entityID uuid.UUID) ([]DocumentResponse, error)
	DeleteDocument(ctx context.Context, companyID, id uuid.UUID, userID string) error
	// GetStorageConfig reports the backend new uploads go to.
	GetStorageConfig(ctx context.Context) StorageConfigResponse
	// SetStorageBackend switches the backend for new uploads. Existing
	// documents keep the backend recorded on their row.
	SetStorageBackend(ctx context.Context, req UpdateStorageConfigRequest, userID string) (StorageConfigResponse, error)
}

type documentService struct {
	documentRepo repository.DocumentRepository
	companyRepo  repository.CompanyRepository
	auditRepo    repository.AuditRepository
	store        *storage.Manager
	txManager    repository.TransactionManager
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	companyRepo repository.CompanyRepository,
	auditRepo repository.AuditRepository,
	store *storage.Manager,
	txManager repository.TransactionManager,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		companyRepo:  companyRepo,
		auditRepo:    auditRepo,
		store:        store,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *documentService) UploadDocument(ctx context.Context, companyID uuid.UUID, entityType string, entityID uuid.UUID, fileName, contentType string, data []byte, userID string) (DocumentResponse, error) {
	switch entityType {
	case model.EntityInvoice, model.EntityExpense, model.EntityPayroll, model.EntityBankStatement:
	default:
		return DocumentResponse{}, fmt.Errorf("unknown entity_type %q: %w", entityType, vat.ErrInvalidArgument)
	}
	if len(data) == 0 {
		return DocumentResponse{}, fmt.Errorf("empty upload: %w", vat.ErrInvalidArgument)
	}
	if len(data) > maxUploadSize {
		return DocumentResponse{}, fmt.Errorf("upload exceeds %d bytes: %w", maxUploadSize, vat.ErrInvalidArgument)
	}
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		return DocumentResponse{}, fmt.Errorf("failed to check company: %w", err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document := model.Document{
		ID:               uuid.New(),
		CompanyID:        companyID,
		EntityType:       entityType,
		EntityID:         entityID,
		OriginalFileName: fileName,
		ContentType:      contentType,
		FileSize:         int64(len(data)),
		StorageBackend:   s.store.Mode(),
	}
	document.FileName = document.ID.String() + "_" + sanitizeFileName(fileName)

	// Database backend keys by document id; the metadata row must exist
	// before Save writes the column. File backends get a structured key.
	if s.store.Mode() == config.StorageDatabase {
		document.StorageKey = ""
	} else {
		document.StorageKey = path.Join(companyID.String(), entityType, entityID.String(), document.FileName)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.documentRepo.Create(txCtx, &document); err != nil {
			return fmt.Errorf("failed to create document record: %w", err)
		}
		if err := s.store.Save(txCtx, s.storageKey(document), data, contentType); err != nil {
			return fmt.Errorf("failed to store document: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUploadDocument, document.ID.String(), fileName, map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID.String(),
			"file_size":   document.FileSize,
		})
		return nil
	})
	if err != nil {
		return DocumentResponse{}, err
	}

	return toDocumentResponse(document), nil
}

func (s *documentService) DownloadDocument(ctx context.Context, companyID, id uuid.UUID) (DocumentDownload, error) {
	document, err := s.findOwned(ctx, companyID, id)
	if err != nil {
		return DocumentDownload{}, err
	}

	data, err := s.store.Load(ctx, s.storageKey(*document))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return DocumentDownload{}, fmt.Errorf("document %s bytes: %w", id, ErrNotFound)
		}
		return DocumentDownload{}, fmt.Errorf("failed to load document: %w", err)
	}

	return DocumentDownload{
		FileName:    document.OriginalFileName,
		ContentType: document.ContentType,
		Data:        data,
	}, nil
}

func (s *documentService) ListDocuments(ctx context.Context, companyID uuid.UUID, entityType string, entityID uuid.UUID) ([]DocumentResponse, error) {
	documents, err := s.documentRepo.ListByEntity(ctx, companyID, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	res := make([]DocumentResponse, 0, len(documents))
	for _, d := range documents {
		res = append(res, toDocumentResponse(d))
	}
	return res, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, companyID, id uuid.UUID, userID string) error {
	document, err := s.findOwned(ctx, companyID, id)
	if err != nil {
		return err
	}

	// Backend delete first; a missing object is fine, the metadata row is
	// authoritative.
	if err := s.store.Delete(ctx, s.storageKey(*document)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete stored document: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.documentRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("document %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to delete document record: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteDocument, id.String(), document.OriginalFileName, nil)
		return nil
	})
}

func (s *documentService) GetStorageConfig(_ context.Context) StorageConfigResponse {
	return StorageConfigResponse{
		Backend:           s.store.Mode(),
		AvailableBackends: []string{config.StorageLocal, config.StorageDatabase, config.StorageS3},
	}
}

func (s *documentService) SetStorageBackend(ctx context.Context, req UpdateStorageConfigRequest, userID string) (StorageConfigResponse, error) {
	switch req.Backend {
	case config.StorageLocal, config.StorageDatabase, config.StorageS3:
	default:
		return StorageConfigResponse{}, fmt.Errorf("unknown storage backend %q: %w", req.Backend, vat.ErrInvalidArgument)
	}

	if err := s.store.Switch(ctx, req.Backend); err != nil {
		return StorageConfigResponse{}, fmt.Errorf("failed to switch storage backend: %w", err)
	}

	writeAuditLog(ctx, s.auditRepo, userID, model.ActionUpdateStorage, req.Backend, "", req)

	return s.GetStorageConfig(ctx), nil
}

// --- Helpers ---

func (s *documentService) findOwned(ctx context.Context, companyID, id uuid.UUID) (*model.Document, error) {
	document, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	if document.CompanyID != companyID {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return document, nil
}

func (s *documentService) storageKey(d model.Document) string {
	if d.StorageBackend == config.StorageDatabase {
		return d.ID.String()
	}
	return d.StorageKey
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	replacer := strings.NewReplacer(" ", "_", "..", "_")
	name = replacer.Replace(name)
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	return name
}

func toDocumentResponse(d model.Document) DocumentResponse {
	return DocumentResponse{
		ID:               d.ID.String(),
		CompanyID:        d.CompanyID.String(),
		EntityType:       d.EntityType,
		EntityID:         d.EntityID.String(),
		FileName:         d.FileName,
		OriginalFileName: d.OriginalFileName,
		ContentType:      d.ContentType,
		FileSize:         d.FileSize,
		StorageBackend:   d.StorageBackend,
		UploadedAt:       d.UploadedAt.Format("2006-01-02 15:04:05"),
	}
}
