// Package testbook builds small books for tests of the projection packages.
package testbook

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Account IDs in the book returned by New.
const (
	Cash    = 1
	Bank    = 2
	Card    = 3 // revolving, pays on the 27th from Bank
	Plan    = 4 // current liability without a pay day
	Savings = 5
	Loan    = 6
)

// New returns a book with one account of each shape and no history.
func New() *model.Book {
	b := &model.Book{
		Accounts: []model.Account{
			{ID: Cash, Name: "Cash", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
			{ID: Bank, Name: "Bank", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
			{ID: Card, Name: "Card", Type: model.AccountTypeLiability, Class: model.ClassCurrent, PayDay: 27, PayFromAccountID: Bank},
			{ID: Plan, Name: "Planned", Type: model.AccountTypeLiability, Class: model.ClassCurrent},
			{ID: Savings, Name: "Savings", Type: model.AccountTypeAsset, Class: model.ClassLong},
			{ID: Loan, Name: "Loan", Type: model.AccountTypeLiability, Class: model.ClassLong},
		},
	}
	b.Normalize()
	return b
}

// Post creates tx through the ledger and fails the test on error.
func Post(t testing.TB, b *model.Book, tx model.Transaction) model.Transaction {
	t.Helper()
	created, err := ledger.CreateTransaction(b, tx)
	require.NoError(t, err)
	return created
}

// Expense posts an expense of amount on accountID.
func Expense(t testing.TB, b *model.Book, date string, accountID int, amount int64) model.Transaction {
	t.Helper()
	return Post(t, b, model.Transaction{Kind: model.KindExpense, Date: day.MustParse(date), AccountID: accountID, Amount: amount})
}

// Income posts an income of amount on accountID.
func Income(t testing.TB, b *model.Book, date string, accountID int, amount int64) model.Transaction {
	t.Helper()
	return Post(t, b, model.Transaction{Kind: model.KindIncome, Date: day.MustParse(date), AccountID: accountID, Amount: amount})
}

// Detail posts a cc_detail itemization of amount on accountID.
func Detail(t testing.TB, b *model.Book, date string, accountID int, amount int64) model.Transaction {
	t.Helper()
	return Post(t, b, model.Transaction{Kind: model.KindCCDetail, Date: day.MustParse(date), AccountID: accountID, Amount: amount})
}

// SetBalance moves an account to balance through a ledger adjustment.
func SetBalance(t testing.TB, b *model.Book, accountID int, balance int64, date string) {
	t.Helper()
	_, err := ledger.AdjustBalance(b, accountID, balance, day.MustParse(date))
	require.NoError(t, err)
}
