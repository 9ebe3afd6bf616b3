package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"backend/internal/config"
)

// LocalBackend writes attachments to a directory tree under the configured
// root: <root>/<company>/<entity_type>/<entity_id>/<file>.
type LocalBackend struct {
	root string
}

func NewLocalBackend(cfg config.StorageConfig) (*LocalBackend, error) {
	root := cfg.LocalPath
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return &LocalBackend{root: root}, nil
}

func (b *LocalBackend) Mode() string {
	return config.StorageLocal
}

// path resolves a key inside the root, rejecting traversal outside it.
func (b *LocalBackend) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(b.root, filepath.FromSlash(key)))
	if !strings.HasPrefix(cleaned, filepath.Clean(b.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

func (b *LocalBackend) Save(_ context.Context, key string, data []byte, _ string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (b *LocalBackend) Load(_ context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (b *LocalBackend) Delete(_ context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (b *LocalBackend) Exists(_ context.Context, key string) (bool, error) {
	p, err := b.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
