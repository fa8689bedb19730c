package service

import (
	"fmt"
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/metrics"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// TransactionFilter narrows Transactions. Zero fields match everything.
type TransactionFilter struct {
	Month     *day.Month
	AccountID int
}

func (f TransactionFilter) match(tx model.Transaction) bool {
	if f.Month != nil && !f.Month.Contains(tx.Date) {
		return false
	}
	return f.AccountID == 0 || tx.References(f.AccountID)
}

// Transactions lists matching transactions, newest date first. Ties keep
// the newest ID first.
func (s *Service) Transactions(f TransactionFilter) ([]model.Transaction, error) {
	return view(s, func(b *model.Book, _ day.Date) ([]model.Transaction, error) {
		out := []model.Transaction{}
		for _, tx := range b.Transactions {
			if f.match(tx) {
				out = append(out, tx.Clone())
			}
		}
		slices.SortStableFunc(out, func(x, y model.Transaction) int {
			if c := y.Date.Compare(x.Date); c != 0 {
				return c
			}
			return y.ID - x.ID
		})
		return out, nil
	})
}

// CreateTransaction records and posts tx.
func (s *Service) CreateTransaction(tx model.Transaction) (model.Transaction, error) {
	created, err := update(s, func(b *model.Book, _ day.Date) (model.Transaction, error) {
		return ledger.CreateTransaction(b, tx)
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}
	metrics.Postings.WithLabelValues(string(created.Kind), "apply").Inc()
	s.logger.Info().Int("tx", created.ID).Str("kind", string(created.Kind)).Int64("amount", created.Amount).
		Str("date", created.Date.String()).Msg("transaction created")
	return created, nil
}

// UpdateTransaction reverses the stored transaction and posts its update.
func (s *Service) UpdateTransaction(id int, upd ledger.TransactionUpdate) (model.Transaction, error) {
	updated, err := update(s, func(b *model.Book, _ day.Date) (model.Transaction, error) {
		return ledger.UpdateTransaction(b, id, upd)
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	metrics.Postings.WithLabelValues(string(updated.Kind), "reverse").Inc()
	metrics.Postings.WithLabelValues(string(updated.Kind), "apply").Inc()
	s.logger.Info().Int("tx", id).Int64("amount", updated.Amount).Msg("transaction updated")
	return updated, nil
}

// DeleteTransaction reverses and removes a transaction.
func (s *Service) DeleteTransaction(id int) (model.Transaction, error) {
	deleted, err := update(s, func(b *model.Book, _ day.Date) (model.Transaction, error) {
		return ledger.DeleteTransaction(b, id)
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	metrics.Postings.WithLabelValues(string(deleted.Kind), "reverse").Inc()
	s.logger.Info().Int("tx", id).Msg("transaction deleted")
	return deleted, nil
}

// Accounts lists every account.
func (s *Service) Accounts() ([]model.Account, error) {
	return view(s, func(b *model.Book, _ day.Date) ([]model.Account, error) {
		return slices.Clone(b.Accounts), nil
	})
}

// AddAccount creates an account. A non-zero opening balance comes back as
// the adjustment transaction that booked it.
func (s *Service) AddAccount(acct model.Account) (model.Account, *model.Transaction, error) {
	var adj *model.Transaction
	created, err := update(s, func(b *model.Book, today day.Date) (model.Account, error) {
		a, tx, err := ledger.AddAccount(b, acct, today)
		adj = tx
		return a, err
	})
	if err != nil {
		return model.Account{}, nil, fmt.Errorf("adding account: %w", err)
	}
	s.logAdjustment(created, adj)
	s.logger.Info().Int("account", created.ID).Str("name", created.Name).Msg("account added")
	return created, adj, nil
}

// UpdateAccount changes an account's attributes. A balance change is booked
// as an adjustment transaction.
func (s *Service) UpdateAccount(id int, upd ledger.AccountUpdate) (model.Account, *model.Transaction, error) {
	var adj *model.Transaction
	updated, err := update(s, func(b *model.Book, today day.Date) (model.Account, error) {
		a, tx, err := ledger.UpdateAccount(b, id, upd, today)
		adj = tx
		return a, err
	})
	if err != nil {
		return model.Account{}, nil, fmt.Errorf("updating account %d: %w", id, err)
	}
	s.logAdjustment(updated, adj)
	s.logger.Info().Int("account", id).Msg("account updated")
	return updated, adj, nil
}

// DeleteAccount removes an account nothing references.
func (s *Service) DeleteAccount(id int) error {
	if _, err := update(s, func(b *model.Book, _ day.Date) (struct{}, error) {
		return struct{}{}, ledger.DeleteAccount(b, id)
	}); err != nil {
		return fmt.Errorf("deleting account %d: %w", id, err)
	}
	s.logger.Info().Int("account", id).Msg("account deleted")
	return nil
}

// AdjustAccountBalance moves an account to newBalance with a synthesized
// income or expense. It returns nil when the balance already matches.
func (s *Service) AdjustAccountBalance(id int, newBalance int64) (*model.Transaction, error) {
	var acct model.Account
	adj, err := update(s, func(b *model.Book, today day.Date) (*model.Transaction, error) {
		tx, err := ledger.AdjustBalance(b, id, newBalance, today)
		if a, ok := b.Account(id); ok {
			acct = *a
		}
		return tx, err
	})
	if err != nil {
		return nil, fmt.Errorf("adjusting account %d: %w", id, err)
	}
	s.logAdjustment(acct, adj)
	return adj, nil
}

func (s *Service) logAdjustment(acct model.Account, adj *model.Transaction) {
	if adj == nil {
		return
	}
	metrics.Adjustments.WithLabelValues(string(acct.Type)).Inc()
	metrics.Postings.WithLabelValues(string(adj.Kind), "apply").Inc()
	s.logger.Info().Int("account", acct.ID).Int("tx", adj.ID).Str("kind", string(adj.Kind)).
		Int64("amount", adj.Amount).Int64("balance", acct.Balance).Msg("balance adjusted")
}

// Verify replays the transaction log and reports accounts whose stored
// balance disagrees with it.
func (s *Service) Verify() ([]ledger.Mismatch, error) {
	return view(s, func(b *model.Book, _ day.Date) ([]ledger.Mismatch, error) {
		return ledger.Verify(b)
	})
}
