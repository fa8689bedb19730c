package store

import (
	"fmt"
	"sync"

	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/metrics"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Repository runs every access to the book under one writer at a time: a
// process mutex plus the backend's cross-process lock.
type Repository struct {
	mu      sync.Mutex
	store   Store
	backend string
	locker  Locker
	logger  *logging.Logger
}

// NewRepository wraps s. backend labels metrics.
func NewRepository(s Store, backend string, locker Locker, logger *logging.Logger) *Repository {
	if locker == nil {
		locker = NopLocker{}
	}
	return &Repository{store: s, backend: backend, locker: locker, logger: logger}
}

// Update loads the book, hands it to fn and saves the result. If fn returns
// an error nothing is saved and the error is returned unchanged.
func (r *Repository) Update(fn func(b *model.Book) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	unlock, err := r.locker.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	b, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	err = r.store.Save(b)
	metrics.StoreSaves.WithLabelValues(r.backend, metrics.Result(err)).Inc()
	if err != nil {
		r.logger.Error().Err(err).Str("backend", r.backend).Msg("save failed")
		return fmt.Errorf("saving book: %w", err)
	}
	return nil
}

// View loads the book and hands it to fn. Changes fn makes are discarded.
func (r *Repository) View(fn func(b *model.Book) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	unlock, err := r.locker.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	b, err := r.load()
	if err != nil {
		return err
	}
	return fn(b)
}

// Close releases the backend.
func (r *Repository) Close() error { return r.store.Close() }

// load returns the stored book, or the default book when the store is empty.
func (r *Repository) load() (*model.Book, error) {
	b, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading book: %w", err)
	}
	if b == nil {
		r.logger.Info().Str("backend", r.backend).Msg("empty store, seeding default book")
		b = accounts.DefaultBook()
	}
	b.Normalize()
	return b, nil
}
