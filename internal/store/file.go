package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// FileStore keeps the book as one indented JSON file with numbered backups
// alongside it (book.json.1 is the most recent).
type FileStore struct {
	path    string
	backups int
	logger  *logging.Logger
}

// NewFileStore creates a FileStore at path, creating its directory.
func NewFileStore(path string, backups int, logger *logging.Logger) (*FileStore, error) {
	if backups < 0 {
		backups = 0
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory for %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Int("backups", backups).Msg("file store opened")
	return &FileStore{path: path, backups: backups, logger: logger}, nil
}

// Path returns the document path.
func (fs *FileStore) Path() string { return fs.path }

func (fs *FileStore) Load() (*model.Book, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", fs.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var b model.Book
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fs.path, err)
	}
	return &b, nil
}

// Save writes the book to a temp file in the same directory and renames it
// over the document after rotating the backups.
func (fs *FileStore) Save(b *model.Book) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling book: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if fs.backups > 0 {
		fs.rotate()
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	fs.logger.Debug().Str("path", fs.path).Int("bytes", len(data)).Msg("book saved")
	return nil
}

// rotate shifts path.N-1 to path.N down to path to path.1. Missing
// generations are skipped.
func (fs *FileStore) rotate() {
	os.Remove(fs.backupPath(fs.backups))
	for i := fs.backups; i > 1; i-- {
		os.Rename(fs.backupPath(i-1), fs.backupPath(i))
	}
	if _, err := os.Stat(fs.path); err == nil {
		if err := copyFile(fs.path, fs.backupPath(1)); err != nil {
			fs.logger.Warn().Err(err).Str("path", fs.path).Msg("backup failed")
		}
	}
}

func (fs *FileStore) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", fs.path, n)
}

func (fs *FileStore) Close() error { return nil }

// copyFile copies src to dst. The document itself stays in place until the
// rename.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
