package ledger

import (
	"fmt"
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// TransactionUpdate carries the fields to change. Nil fields are left as
// they are.
type TransactionUpdate struct {
	Kind          *model.Kind `json:"kind,omitempty"`
	Date          *day.Date   `json:"date,omitempty"`
	Amount        *int64      `json:"amount,omitempty"`
	Category      *string     `json:"category,omitempty"`
	Tags          *[]string   `json:"tags,omitempty"`
	Schedule      *string     `json:"schedule,omitempty"`
	Memo          *string     `json:"memo,omitempty"`
	AccountID     *int        `json:"accountId,omitempty"`
	FromAccountID *int        `json:"fromAccountId,omitempty"`
	ToAccountID   *int        `json:"toAccountId,omitempty"`
}

// CreateTransaction validates tx, assigns the next ID, posts it and appends
// it to the log.
func CreateTransaction(b *model.Book, tx model.Transaction) (model.Transaction, error) {
	tx = prepare(tx)
	if err := check(b, tx); err != nil {
		return model.Transaction{}, err
	}
	tx.ID = id.Next(b.Transactions, func(t model.Transaction) int { return t.ID })
	if err := Post(b, tx, Apply); err != nil {
		return model.Transaction{}, err
	}
	b.Transactions = append(b.Transactions, tx)
	b.RegisterTags(tx.Tags)
	return tx.Clone(), nil
}

// UpdateTransaction reverses the stored transaction, applies the update and
// posts the result. Both halves are computed first and applied together.
func UpdateTransaction(b *model.Book, txID int, upd TransactionUpdate) (model.Transaction, error) {
	i := b.TransactionIndex(txID)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", txID, model.ErrTransactionNotFound)
	}
	old := b.Transactions[i]
	if upd.Kind != nil && *upd.Kind != old.Kind {
		return model.Transaction{}, &model.ValidationError{Field: "kind", Reason: "cannot be changed"}
	}

	next := prepare(merge(old.Clone(), upd))
	if err := check(b, next); err != nil {
		return model.Transaction{}, err
	}

	deltas, err := Effect(b, old, Reverse)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("reversing transaction %d: %w", txID, err)
	}
	forward, err := Effect(b, next, Apply)
	if err != nil {
		return model.Transaction{}, err
	}
	deltas.add(forward)
	apply(b, deltas)

	b.Transactions[i] = next
	b.RegisterTags(next.Tags)
	return next.Clone(), nil
}

// DeleteTransaction reverses and removes a transaction.
func DeleteTransaction(b *model.Book, txID int) (model.Transaction, error) {
	i := b.TransactionIndex(txID)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", txID, model.ErrTransactionNotFound)
	}
	tx := b.Transactions[i]
	if err := Post(b, tx, Reverse); err != nil {
		return model.Transaction{}, fmt.Errorf("reversing transaction %d: %w", txID, err)
	}
	b.Transactions = slices.Delete(b.Transactions, i, i+1)
	return tx, nil
}

func merge(tx model.Transaction, upd TransactionUpdate) model.Transaction {
	if upd.Date != nil {
		tx.Date = *upd.Date
	}
	if upd.Amount != nil {
		tx.Amount = *upd.Amount
	}
	if upd.Category != nil {
		tx.Category = *upd.Category
	}
	if upd.Tags != nil {
		tx.Tags = slices.Clone(*upd.Tags)
	}
	if upd.Schedule != nil {
		tx.Schedule = *upd.Schedule
	}
	if upd.Memo != nil {
		tx.Memo = *upd.Memo
	}
	if upd.AccountID != nil {
		tx.AccountID = *upd.AccountID
	}
	if upd.FromAccountID != nil {
		tx.FromAccountID = *upd.FromAccountID
	}
	if upd.ToAccountID != nil {
		tx.ToAccountID = *upd.ToAccountID
	}
	return tx
}

func prepare(tx model.Transaction) model.Transaction {
	if tx.Kind == model.KindTransfer {
		tx.Category = model.CategoryTransfer
	}
	if tx.Tags == nil {
		tx.Tags = []string{}
	}
	return tx
}

// check validates tx's shape and the accounts it references.
func check(b *model.Book, tx model.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	for _, leg := range tx.Legs() {
		acct, ok := b.Account(leg.AccountID)
		if !ok {
			return fmt.Errorf("%s account %d: %w", leg.Role, leg.AccountID, model.ErrAccountNotFound)
		}
		if tx.Kind == model.KindCCDetail && !acct.IsRevolving() {
			return &model.ValidationError{Field: "accountId", Reason: "cc_detail must reference a revolving account"}
		}
	}
	return nil
}
