// Package service is the entry point the CLI and HTTP layers share. Every
// call runs one repository cycle: mutations through Update, views through
// View.
package service

import (
	"github.com/kakeibo-dev/kakeibo/internal/clock"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/store"
)

// Service exposes the ledger and the projection engines over a repository.
type Service struct {
	repo   *store.Repository
	clock  clock.Clock
	logger *logging.Logger
}

// New creates a Service. A nil clock uses the wall clock.
func New(repo *store.Repository, clk clock.Clock, logger *logging.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{repo: repo, clock: clk, logger: logger}
}

// Today returns the service's current date.
func (s *Service) Today() day.Date { return clock.Today(s.clock) }

// Book returns a snapshot of the whole book.
func (s *Service) Book() (*model.Book, error) {
	var out *model.Book
	err := s.repo.View(func(b *model.Book) error {
		out = b.Clone()
		return nil
	})
	return out, err
}

// view runs fn against the current book and returns its result.
func view[T any](s *Service, fn func(b *model.Book, today day.Date) (T, error)) (T, error) {
	var out T
	today := s.Today()
	err := s.repo.View(func(b *model.Book) error {
		var err error
		out, err = fn(b, today)
		return err
	})
	return out, err
}

// update runs fn as one load-mutate-save cycle and returns its result.
func update[T any](s *Service, fn func(b *model.Book, today day.Date) (T, error)) (T, error) {
	var out T
	today := s.Today()
	err := s.repo.Update(func(b *model.Book) error {
		var err error
		out, err = fn(b, today)
		return err
	})
	return out, err
}
