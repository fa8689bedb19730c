// Package position computes point-in-time views of a book: money in hand,
// the dashboard summary and the balance sheet.
package position

import (
	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// PendingIncome sums income dated strictly after asOf on current-class asset
// accounts. Such income is already in the booked balance but has not
// arrived yet. The IDs of the contributing transactions are returned too.
func PendingIncome(b *model.Book, asOf day.Date) (int64, map[int]bool) {
	accts := accounts.NewService(b.Accounts)
	var total int64
	ids := make(map[int]bool)
	for _, tx := range b.Transactions {
		if tx.Kind != model.KindIncome || !tx.Date.After(asOf) {
			continue
		}
		if !accts.IsCurrentAsset(tx.AccountID) {
			continue
		}
		total += tx.Amount
		ids[tx.ID] = true
	}
	return total, ids
}

// CurrentAssets sums the balances of current-class asset accounts.
func CurrentAssets(b *model.Book) int64 {
	return accounts.NewService(b.Accounts).Total(model.AccountTypeAsset, model.ClassCurrent)
}

// HandBalance is the money actually available on asOf: current assets less
// pending income.
func HandBalance(b *model.Book, asOf day.Date) int64 {
	pending, _ := PendingIncome(b, asOf)
	return CurrentAssets(b) - pending
}
