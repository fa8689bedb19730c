package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// SQLiteStore keeps the book as a JSON document in a single-row table and
// the previous generations in book_backup.
type SQLiteStore struct {
	db      *sql.DB
	backups int
	logger  *logging.Logger
}

func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS book (
			id       INTEGER PRIMARY KEY CHECK (id = 1),
			doc      TEXT NOT NULL,
			saved_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS book_backup (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			doc      TEXT NOT NULL,
			saved_at TEXT NOT NULL
		)`,
	}
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, backups int, logger *logging.Logger) (*SQLiteStore, error) {
	if backups < 0 {
		backups = 0
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory for %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection serializes writers inside the process.
	db.SetMaxOpenConns(1)
	for _, stmt := range append([]string{`PRAGMA busy_timeout = 5000`}, migrations()...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating %s: %w", path, err)
		}
	}
	logger.Debug().Str("path", path).Int("backups", backups).Msg("sqlite store opened")
	return &SQLiteStore{db: db, backups: backups, logger: logger}, nil
}

func (s *SQLiteStore) Load() (*model.Book, error) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM book WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading book: %w", err)
	}
	var b model.Book
	if err := json.Unmarshal([]byte(doc), &b); err != nil {
		return nil, fmt.Errorf("parsing book: %w", err)
	}
	return &b, nil
}

// Save moves the current document to book_backup, writes the new one and
// prunes old backups, all in one SQL transaction.
func (s *SQLiteStore) Save(b *model.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling book: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	if s.backups > 0 {
		if _, err := tx.Exec(`INSERT INTO book_backup (doc, saved_at) SELECT doc, saved_at FROM book WHERE id = 1`); err != nil {
			return fmt.Errorf("backing up book: %w", err)
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO book (id, doc, saved_at) VALUES (1, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			doc      = excluded.doc,
			saved_at = excluded.saved_at
	`, string(data)); err != nil {
		return fmt.Errorf("writing book: %w", err)
	}
	if _, err := tx.Exec(`
		DELETE FROM book_backup WHERE id NOT IN (
			SELECT id FROM book_backup ORDER BY id DESC LIMIT ?
		)
	`, s.backups); err != nil {
		return fmt.Errorf("pruning backups: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	s.logger.Debug().Int("bytes", len(data)).Msg("book saved")
	return nil
}

// Backups returns the stored backup documents, newest first.
func (s *SQLiteStore) Backups() ([]*model.Book, error) {
	rows, err := s.db.Query(`SELECT doc FROM book_backup ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	defer rows.Close()

	var out []*model.Book
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning backup: %w", err)
		}
		var b model.Book
		if err := json.Unmarshal([]byte(doc), &b); err != nil {
			return nil, fmt.Errorf("parsing backup: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
