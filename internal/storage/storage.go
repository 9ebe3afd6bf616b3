// Package storage provides the attachment storage backends. Local disk,
// database BLOB and S3 are variants of one capability, selected by
// configuration.
package storage

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/config"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("stored object not found")

// Backend stores and retrieves attachment bytes under an opaque key. The
// document service owns key construction and metadata; backends only move
// bytes.
type Backend interface {
	// Mode returns the configuration name of the backend (local, database, s3).
	Mode() string
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the backend named by the configuration.
func New(ctx context.Context, cfg config.StorageConfig, db *gorm.DB) (Backend, error) {
	switch cfg.Backend {
	case config.StorageLocal:
		return NewLocalBackend(cfg)
	case config.StorageDatabase:
		return NewDatabaseBackend(db), nil
	case config.StorageS3:
		return NewS3Backend(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
