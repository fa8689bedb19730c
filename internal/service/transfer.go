package service

import (
	"fmt"
	"io"

	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/importer"
	"github.com/kakeibo-dev/kakeibo/internal/journal"
	"github.com/kakeibo-dev/kakeibo/internal/metrics"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// ExportAccounts writes every account as CSV.
func (s *Service) ExportAccounts(w io.Writer) error {
	accts, err := s.Accounts()
	if err != nil {
		return err
	}
	return accounts.WriteAccounts(w, accts)
}

// ExportTransactions writes the transaction log as CSV in creation order.
func (s *Service) ExportTransactions(w io.Writer) error {
	b, err := s.Book()
	if err != nil {
		return err
	}
	return journal.WriteTransactions(w, b.Transactions)
}

// ImportTransactions posts every row of a transactions CSV. Either all rows
// are recorded or none are.
func (s *Service) ImportTransactions(r io.Reader) ([]model.Transaction, error) {
	txs, err := journal.ReadTransactions(r)
	if err != nil {
		return nil, fmt.Errorf("importing transactions: %w", err)
	}
	created, err := update(s, func(b *model.Book, _ day.Date) ([]model.Transaction, error) {
		return journal.Import(b, txs)
	})
	if err != nil {
		return nil, fmt.Errorf("importing transactions: %w", err)
	}
	for _, tx := range created {
		metrics.Postings.WithLabelValues(string(tx.Kind), "apply").Inc()
	}
	s.logger.Info().Int("count", len(created)).Msg("transactions imported")
	return created, nil
}

// StatementImport is the outcome of importing a statement.
type StatementImport struct {
	Created []model.Transaction `json:"created"`
	Skipped []importer.Line     `json:"skipped"`
}

// ImportStatement parses a bank or card statement in the named format and
// records each line on accountID. Either all lines are recorded or none are.
func (s *Service) ImportStatement(r io.Reader, format string, accountID int) (StatementImport, error) {
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return StatementImport{}, &model.ValidationError{Field: "format", Reason: fmt.Sprintf("unknown statement format %q", format)}
	}
	lines, err := parser.Parse(r)
	if err != nil {
		return StatementImport{}, fmt.Errorf("importing %s statement: %w", parser.Format(), err)
	}
	res, err := update(s, func(b *model.Book, _ day.Date) (StatementImport, error) {
		acct, ok := b.Account(accountID)
		if !ok {
			return StatementImport{}, fmt.Errorf("account %d: %w", accountID, model.ErrAccountNotFound)
		}
		txs, skipped, err := importer.Transactions(lines, *acct)
		if err != nil {
			return StatementImport{}, err
		}
		created, err := journal.Import(b, txs)
		if err != nil {
			return StatementImport{}, err
		}
		return StatementImport{Created: created, Skipped: skipped}, nil
	})
	if err != nil {
		return StatementImport{}, fmt.Errorf("importing %s statement: %w", parser.Format(), err)
	}
	for _, tx := range res.Created {
		metrics.Postings.WithLabelValues(string(tx.Kind), "apply").Inc()
	}
	s.logger.Info().
		Str("format", parser.Format()).
		Int("account", accountID).
		Int("count", len(res.Created)).
		Int("skipped", len(res.Skipped)).
		Msg("statement imported")
	return res, nil
}
