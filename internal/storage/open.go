package storage

import (
	"context"
	"fmt"

	"github.com/rewired-gh/neurodraw/internal/config"
	"github.com/rewired-gh/neurodraw/internal/models"
)

// Store is the contract both backends implement.
type Store interface {
	Prepend(ctx context.Context, snapshot *models.Snapshot) error
	List(ctx context.Context) ([]models.Snapshot, error)
	Get(ctx context.Context, id string) (*models.Snapshot, error)
	Close() error
}

var (
	_ Store = (*Storage)(nil)
	_ Store = (*FileStore)(nil)
)

// Open builds the backend selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return New(cfg.MaxRecords, cfg.DBPath)
	case "file":
		return NewFileStore(cfg.MaxRecords, cfg.FilePath, cfg.FilePermissions, cfg.DirPermissions)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
