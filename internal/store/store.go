// Package store persists the book as a single document and serializes
// every load-mutate-save cycle against it.
package store

import (
	"fmt"

	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Store loads and saves the whole book.
type Store interface {
	// Load returns the last saved book, or nil when nothing has been saved.
	Load() (*model.Book, error)
	// Save replaces the stored book. Readers never observe a partial write.
	Save(b *model.Book) error
	Close() error
}

// Open builds the repository for the configured backend.
func Open(cfg config.StorageConfig, log *logging.Logger) (*Repository, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = config.BackendFile
	}

	switch backend {
	case config.BackendFile:
		fs, err := NewFileStore(cfg.Path, cfg.Backups, log)
		if err != nil {
			return nil, err
		}
		return NewRepository(fs, backend, NewFileLock(cfg.Path+".lock"), log), nil

	case config.BackendSQLite:
		ss, err := OpenSQLite(cfg.Path, cfg.Backups, log)
		if err != nil {
			return nil, err
		}
		return NewRepository(ss, backend, NopLocker{}, log), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, sqlite)", backend)
	}
}
