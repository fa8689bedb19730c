// Package ledger posts transactions against account balances and owns every
// mutation of a book.
package ledger

import (
	"fmt"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Direction is +1 to apply a transaction and -1 to reverse it.
type Direction int64

const (
	Apply   Direction = 1
	Reverse Direction = -1
)

type ruleKey struct {
	kind model.Kind
	role model.Role
	typ  model.AccountType
}

// rules gives the balance delta per unit of amount for every allowed
// (kind, role, account type) combination. A missing key is not postable.
var rules = map[ruleKey]int64{
	{model.KindExpense, model.RolePrimary, model.AccountTypeAsset}:      -1,
	{model.KindExpense, model.RolePrimary, model.AccountTypeLiability}:  +1,
	{model.KindIncome, model.RolePrimary, model.AccountTypeAsset}:       +1,
	{model.KindIncome, model.RolePrimary, model.AccountTypeLiability}:   +1,
	{model.KindTransfer, model.RoleFrom, model.AccountTypeAsset}:        -1,
	{model.KindTransfer, model.RoleFrom, model.AccountTypeLiability}:    -1,
	{model.KindTransfer, model.RoleTo, model.AccountTypeAsset}:          +1,
	{model.KindTransfer, model.RoleTo, model.AccountTypeLiability}:      -1,
	{model.KindCCDetail, model.RolePrimary, model.AccountTypeLiability}: 0,
}

// Deltas maps account IDs to balance changes.
type Deltas map[int]int64

func (d Deltas) add(other Deltas) {
	for id, v := range other {
		d[id] += v
	}
}

// Effect computes the balance changes posting tx in direction dir would
// make. Nothing is modified.
func Effect(b *model.Book, tx model.Transaction, dir Direction) (Deltas, error) {
	deltas := make(Deltas, 2)
	for _, leg := range tx.Legs() {
		acct, ok := b.Account(leg.AccountID)
		if !ok {
			return nil, fmt.Errorf("%s account %d: %w", leg.Role, leg.AccountID, model.ErrAccountNotFound)
		}
		unit, ok := rules[ruleKey{tx.Kind, leg.Role, acct.Type}]
		if !ok {
			return nil, &model.ValidationError{
				Field:  "accountId",
				Reason: fmt.Sprintf("%s cannot post to %s account %d", tx.Kind, acct.Type, acct.ID),
			}
		}
		deltas[acct.ID] += unit * tx.Amount * int64(dir)
	}
	return deltas, nil
}

// Post applies or reverses tx. All deltas are computed before any balance
// changes, so a failure leaves the book untouched.
func Post(b *model.Book, tx model.Transaction, dir Direction) error {
	deltas, err := Effect(b, tx, dir)
	if err != nil {
		return err
	}
	apply(b, deltas)
	return nil
}

func apply(b *model.Book, deltas Deltas) {
	for id, v := range deltas {
		if acct, ok := b.Account(id); ok {
			acct.Balance += v
		}
	}
}

// CurrentAssetEffect returns tx's net effect on current-class asset
// balances. Legs on missing accounts contribute nothing.
func CurrentAssetEffect(b *model.Book, tx model.Transaction) int64 {
	var sum int64
	for _, leg := range tx.Legs() {
		acct, ok := b.Account(leg.AccountID)
		if !ok || !acct.IsCurrentAsset() {
			continue
		}
		sum += rules[ruleKey{tx.Kind, leg.Role, acct.Type}] * tx.Amount
	}
	return sum
}
