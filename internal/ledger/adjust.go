package ledger

import (
	"fmt"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

const adjustmentMemo = "残高調整"

// AdjustBalance moves an account to newBalance by booking an income or
// expense transaction dated today for the difference. It returns nil when
// the balance already matches.
//
// No income or expense rule lowers a liability, so lowering one is refused
// with a ConflictError; the user records a transfer from the paying account
// instead.
func AdjustBalance(b *model.Book, accountID int, newBalance int64, today day.Date) (*model.Transaction, error) {
	acct, ok := b.Account(accountID)
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, model.ErrAccountNotFound)
	}
	old := acct.Balance
	diff := newBalance - old
	if diff == 0 {
		return nil, nil
	}

	var kind model.Kind
	switch {
	case acct.IsAsset() && diff > 0:
		kind = model.KindIncome
	case acct.IsAsset():
		kind = model.KindExpense
	case diff > 0:
		kind = model.KindExpense
	default:
		return nil, &model.ConflictError{
			Resource: "account", ID: accountID,
			Reason: "a liability balance is lowered by recording a transfer from the paying account",
		}
	}
	category := model.CategoryMisc
	if kind == model.KindIncome {
		category = model.CategoryMiscIncome
	}

	amount := diff
	if amount < 0 {
		amount = -amount
	}
	tx, err := CreateTransaction(b, model.Transaction{
		Date:      today,
		Amount:    amount,
		Kind:      kind,
		Category:  category,
		Memo:      fmt.Sprintf("%s: %s: %d → %d", adjustmentMemo, acct.Name, old, newBalance),
		AccountID: accountID,
	})
	if err != nil {
		return nil, fmt.Errorf("adjusting account %d: %w", accountID, err)
	}
	return &tx, nil
}
