package storage

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/config"
	"backend/internal/model"

	"gorm.io/gorm"
)

// DatabaseBackend keeps attachment bytes in the file_data column of the
// document row itself. The key is the document id; the metadata row must
// exist before Save is called.
type DatabaseBackend struct {
	db *gorm.DB
}

func NewDatabaseBackend(db *gorm.DB) *DatabaseBackend {
	return &DatabaseBackend{db: db}
}

func (b *DatabaseBackend) Mode() string {
	return config.StorageDatabase
}

func (b *DatabaseBackend) Save(ctx context.Context, key string, data []byte, _ string) error {
	result := b.db.WithContext(ctx).Model(&model.Document{}).
		Where("id = ?", key).
		Update("file_data", data)
	if result.Error != nil {
		return fmt.Errorf("failed to store document bytes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document row %s: %w", key, ErrNotFound)
	}
	return nil
}

func (b *DatabaseBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var document model.Document
	err := b.db.WithContext(ctx).Select("file_data").First(&document, "id = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document row %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load document bytes: %w", err)
	}
	if len(document.FileData) == 0 {
		return nil, fmt.Errorf("document %s has no stored bytes: %w", key, ErrNotFound)
	}
	return document.FileData, nil
}

func (b *DatabaseBackend) Delete(ctx context.Context, key string) error {
	// The metadata row is removed by the repository; clearing the column is
	// enough here and keeps Delete idempotent with row deletion.
	return b.db.WithContext(ctx).Model(&model.Document{}).
		Where("id = ?", key).
		Update("file_data", nil).Error
}

func (b *DatabaseBackend) Exists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&model.Document{}).
		Where("id = ? AND file_data IS NOT NULL", key).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
