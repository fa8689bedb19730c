package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

const (
	cash    = 1
	bank    = 2
	card    = 3
	plan    = 4
	savings = 5
	loan    = 6
)

var today = day.MustParse("2024-05-20")

func newBook() *model.Book {
	b := &model.Book{
		Accounts: []model.Account{
			{ID: cash, Name: "Cash", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
			{ID: bank, Name: "Bank", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
			{ID: card, Name: "Card", Type: model.AccountTypeLiability, Class: model.ClassCurrent, PayDay: 27, PayFromAccountID: bank},
			{ID: plan, Name: "Planned", Type: model.AccountTypeLiability, Class: model.ClassCurrent},
			{ID: savings, Name: "Savings", Type: model.AccountTypeAsset, Class: model.ClassLong},
			{ID: loan, Name: "Loan", Type: model.AccountTypeLiability, Class: model.ClassLong},
		},
	}
	b.Normalize()
	return b
}

func balances(b *model.Book) map[int]int64 {
	out := make(map[int]int64, len(b.Accounts))
	for _, a := range b.Accounts {
		out[a.ID] = a.Balance
	}
	return out
}

func mustCreate(t *testing.T, b *model.Book, tx model.Transaction) model.Transaction {
	t.Helper()
	if tx.Date.IsZero() {
		tx.Date = today
	}
	created, err := CreateTransaction(b, tx)
	require.NoError(t, err)
	return created
}

func TestEffect_RuleTable(t *testing.T) {
	tests := []struct {
		name string
		tx   model.Transaction
		want Deltas
	}{
		{"expense on asset", model.Transaction{Kind: model.KindExpense, Amount: 100, AccountID: cash}, Deltas{cash: -100}},
		{"expense on liability", model.Transaction{Kind: model.KindExpense, Amount: 100, AccountID: card}, Deltas{card: 100}},
		{"income on asset", model.Transaction{Kind: model.KindIncome, Amount: 100, AccountID: bank}, Deltas{bank: 100}},
		{"income on liability", model.Transaction{Kind: model.KindIncome, Amount: 100, AccountID: plan}, Deltas{plan: 100}},
		{"transfer asset to asset", model.Transaction{Kind: model.KindTransfer, Amount: 100, FromAccountID: bank, ToAccountID: cash}, Deltas{bank: -100, cash: 100}},
		{"transfer asset to liability", model.Transaction{Kind: model.KindTransfer, Amount: 100, FromAccountID: bank, ToAccountID: card}, Deltas{bank: -100, card: -100}},
		{"transfer liability to asset", model.Transaction{Kind: model.KindTransfer, Amount: 100, FromAccountID: loan, ToAccountID: bank}, Deltas{loan: -100, bank: 100}},
		{"cc_detail", model.Transaction{Kind: model.KindCCDetail, Amount: 100, AccountID: card}, Deltas{card: 0}},
	}
	b := newBook()
	for _, tt := range tests {
		got, err := Effect(b, tt.tx, Apply)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)

		back, err := Effect(b, tt.tx, Reverse)
		require.NoError(t, err, tt.name)
		for id, v := range tt.want {
			assert.Equal(t, -v, back[id], tt.name)
		}
	}
}

func TestEffect_CCDetailOnAssetIsRejected(t *testing.T) {
	_, err := Effect(newBook(), model.Transaction{Kind: model.KindCCDetail, Amount: 1, AccountID: cash}, Apply)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestPost_Reversible(t *testing.T) {
	txs := []model.Transaction{
		{Kind: model.KindExpense, Amount: 120, AccountID: cash},
		{Kind: model.KindExpense, Amount: 120, AccountID: card},
		{Kind: model.KindIncome, Amount: 300, AccountID: bank},
		{Kind: model.KindTransfer, Amount: 50, FromAccountID: bank, ToAccountID: card},
		{Kind: model.KindCCDetail, Amount: 70, AccountID: card},
	}
	for _, tx := range txs {
		b := newBook()
		b.Accounts[0].Balance = 1000
		before := balances(b)

		require.NoError(t, Post(b, tx, Apply))
		once := balances(b)
		require.NoError(t, Post(b, tx, Reverse))
		assert.Equal(t, before, balances(b), "reverse restores for %s", tx.Kind)
		require.NoError(t, Post(b, tx, Apply))
		assert.Equal(t, once, balances(b), "apply-reverse-apply equals apply for %s", tx.Kind)
	}
}

func TestPost_MissingAccountFailsClosed(t *testing.T) {
	b := newBook()
	before := balances(b)

	err := Post(b, model.Transaction{Kind: model.KindTransfer, Amount: 10, FromAccountID: bank, ToAccountID: 99}, Apply)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	assert.Equal(t, before, balances(b))
}

func TestCreateTransaction(t *testing.T) {
	b := newBook()

	first := mustCreate(t, b, model.Transaction{Kind: model.KindExpense, Amount: 500, AccountID: cash, Category: "食費", Tags: []string{"lunch"}})
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, int64(-500), b.Accounts[0].Balance)
	assert.Equal(t, []string{"lunch"}, b.Tags)

	tr := mustCreate(t, b, model.Transaction{Kind: model.KindTransfer, Amount: 200, FromAccountID: bank, ToAccountID: cash, Category: "ignored"})
	assert.Equal(t, 2, tr.ID)
	assert.Equal(t, model.CategoryTransfer, tr.Category)
	assert.NotNil(t, tr.Tags)
	assert.Len(t, b.Transactions, 2)
}

func TestCreateTransaction_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tx      model.Transaction
		wantErr error
	}{
		{"unknown account", model.Transaction{Kind: model.KindExpense, Amount: 1, AccountID: 42}, model.ErrAccountNotFound},
		{"unknown transfer target", model.Transaction{Kind: model.KindTransfer, Amount: 1, FromAccountID: bank, ToAccountID: 42}, model.ErrAccountNotFound},
		{"zero amount", model.Transaction{Kind: model.KindExpense, AccountID: cash}, model.ErrValidation},
		{"cc_detail on non-revolving", model.Transaction{Kind: model.KindCCDetail, Amount: 1, AccountID: plan}, model.ErrValidation},
	}
	for _, tt := range tests {
		b := newBook()
		tt.tx.Date = today
		_, err := CreateTransaction(b, tt.tx)
		assert.ErrorIs(t, err, tt.wantErr, tt.name)
		assert.Empty(t, b.Transactions, tt.name)
		assert.Equal(t, balances(newBook()), balances(b), tt.name)
	}
}

func TestUpdateTransaction(t *testing.T) {
	b := newBook()
	tx := mustCreate(t, b, model.Transaction{Kind: model.KindExpense, Amount: 500, AccountID: cash})

	amount := int64(800)
	acct := card
	updated, err := UpdateTransaction(b, tx.ID, TransactionUpdate{Amount: &amount, AccountID: &acct})
	require.NoError(t, err)
	assert.Equal(t, int64(800), updated.Amount)
	assert.Equal(t, int64(0), b.Accounts[0].Balance, "old posting reversed")
	assert.Equal(t, int64(800), b.Accounts[2].Balance, "new posting applied")
}

func TestUpdateTransaction_TransferEndpoints(t *testing.T) {
	b := newBook()
	tx := mustCreate(t, b, model.Transaction{Kind: model.KindTransfer, Amount: 100, FromAccountID: bank, ToAccountID: cash})

	to := card
	_, err := UpdateTransaction(b, tx.ID, TransactionUpdate{ToAccountID: &to})
	require.NoError(t, err)
	got := balances(b)
	assert.Equal(t, int64(-100), got[bank])
	assert.Equal(t, int64(0), got[cash])
	assert.Equal(t, int64(-100), got[card])
}

func TestUpdateTransaction_FailsClosed(t *testing.T) {
	b := newBook()
	tx := mustCreate(t, b, model.Transaction{Kind: model.KindExpense, Amount: 500, AccountID: cash})
	before := balances(b)

	missing := 99
	_, err := UpdateTransaction(b, tx.ID, TransactionUpdate{AccountID: &missing})
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	assert.Equal(t, before, balances(b))
	assert.Equal(t, cash, b.Transactions[0].AccountID)

	kind := model.KindIncome
	_, err = UpdateTransaction(b, tx.ID, TransactionUpdate{Kind: &kind})
	assert.ErrorIs(t, err, model.ErrValidation)

	zero := int64(0)
	_, err = UpdateTransaction(b, tx.ID, TransactionUpdate{Amount: &zero})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, before, balances(b))

	_, err = UpdateTransaction(b, 404, TransactionUpdate{})
	assert.ErrorIs(t, err, model.ErrTransactionNotFound)
}

func TestDeleteTransaction(t *testing.T) {
	b := newBook()
	tx := mustCreate(t, b, model.Transaction{Kind: model.KindExpense, Amount: 200, AccountID: card})
	assert.Equal(t, int64(200), b.Accounts[2].Balance)

	deleted, err := DeleteTransaction(b, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, deleted.ID)
	assert.Equal(t, int64(0), b.Accounts[2].Balance)
	assert.Empty(t, b.Transactions)

	_, err = DeleteTransaction(b, tx.ID)
	assert.ErrorIs(t, err, model.ErrTransactionNotFound)
}

func TestReplayConsistency(t *testing.T) {
	b := newBook()
	a := mustCreate(t, b, model.Transaction{Kind: model.KindIncome, Amount: 3000, AccountID: bank})
	c := mustCreate(t, b, model.Transaction{Kind: model.KindExpense, Amount: 450, AccountID: card})
	mustCreate(t, b, model.Transaction{Kind: model.KindCCDetail, Amount: 300, AccountID: card})
	mustCreate(t, b, model.Transaction{Kind: model.KindTransfer, Amount: 1000, FromAccountID: bank, ToAccountID: cash})
	mustCreate(t, b, model.Transaction{Kind: model.KindTransfer, Amount: 450, FromAccountID: bank, ToAccountID: card})

	amount := int64(2500)
	_, err := UpdateTransaction(b, a.ID, TransactionUpdate{Amount: &amount})
	require.NoError(t, err)
	_, err = DeleteTransaction(b, c.ID)
	require.NoError(t, err)
	_, err = AdjustBalance(b, cash, 700, today)
	require.NoError(t, err)

	replayed, err := Replay(b)
	require.NoError(t, err)
	assert.Equal(t, balances(b), replayed)

	mismatches, err := Verify(b)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	b.Accounts[1].Balance += 5
	mismatches, err = Verify(b)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, bank, mismatches[0].AccountID)
	assert.Equal(t, mismatches[0].Replayed+5, mismatches[0].Cached)
}

func TestAdjustBalance(t *testing.T) {
	tests := []struct {
		name     string
		account  int
		start    int64
		target   int64
		wantKind model.Kind
		wantCat  string
	}{
		{"asset up", bank, 1000, 1500, model.KindIncome, model.CategoryMiscIncome},
		{"asset down", bank, 1000, 400, model.KindExpense, model.CategoryMisc},
		{"liability up", card, 0, 900, model.KindExpense, model.CategoryMisc},
		{"long asset up", savings, 0, 10000, model.KindIncome, model.CategoryMiscIncome},
	}
	for _, tt := range tests {
		b := newBook()
		if tt.start != 0 {
			_, err := AdjustBalance(b, tt.account, tt.start, today)
			require.NoError(t, err, tt.name)
		}
		tx, err := AdjustBalance(b, tt.account, tt.target, today)
		require.NoError(t, err, tt.name)
		require.NotNil(t, tx, tt.name)
		assert.Equal(t, tt.wantKind, tx.Kind, tt.name)
		assert.Equal(t, tt.wantCat, tx.Category, tt.name)
		assert.Equal(t, today, tx.Date, tt.name)
		assert.Contains(t, tx.Memo, "残高調整", tt.name)

		acct, _ := b.Account(tt.account)
		assert.Equal(t, tt.target, acct.Balance, tt.name)
		mismatches, err := Verify(b)
		require.NoError(t, err)
		assert.Empty(t, mismatches, tt.name)
	}
}

func TestAdjustBalance_NoChangeAndErrors(t *testing.T) {
	b := newBook()
	tx, err := AdjustBalance(b, cash, 0, today)
	require.NoError(t, err)
	assert.Nil(t, tx)
	assert.Empty(t, b.Transactions)

	_, err = AdjustBalance(b, 99, 10, today)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	_, err = AdjustBalance(b, card, 500, today)
	require.NoError(t, err)
	_, err = AdjustBalance(b, card, 100, today)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, int64(500), b.Accounts[2].Balance)
}

func TestAddAccount(t *testing.T) {
	b := newBook()
	acct, adj, err := AddAccount(b, model.Account{Name: "Wallet", Type: model.AccountTypeAsset, Balance: 3000}, today)
	require.NoError(t, err)
	assert.Equal(t, 7, acct.ID)
	assert.Equal(t, model.ClassCurrent, acct.Class)
	assert.Equal(t, int64(3000), acct.Balance)
	require.NotNil(t, adj)
	assert.Equal(t, model.KindIncome, adj.Kind)

	_, adj, err = AddAccount(b, model.Account{Name: "Empty", Type: model.AccountTypeAsset}, today)
	require.NoError(t, err)
	assert.Nil(t, adj)

	_, _, err = AddAccount(b, model.Account{Name: "Bad", Type: model.AccountTypeLiability, Class: model.ClassCurrent, PayDay: 10, PayFromAccountID: 99}, today)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	_, _, err = AddAccount(b, model.Account{Type: model.AccountTypeAsset}, today)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Len(t, b.Accounts, 8)
}

func TestAddAccount_RefusedOpeningBalanceLeavesBookUnchanged(t *testing.T) {
	b := newBook()
	accounts := len(b.Accounts)

	_, _, err := AddAccount(b, model.Account{Name: "Overpaid", Type: model.AccountTypeLiability, Class: model.ClassLong, Balance: -100}, today)
	require.ErrorIs(t, err, model.ErrConflict)
	assert.Len(t, b.Accounts, accounts)
	assert.Empty(t, b.Transactions)
}

func TestUpdateAccount_RefusedBalanceLeavesFieldsUnchanged(t *testing.T) {
	b := newBook()
	_, err := AdjustBalance(b, card, 500, today)
	require.NoError(t, err)
	before := balances(b)

	name := "Renamed"
	lower := int64(100)
	_, _, err = UpdateAccount(b, card, AccountUpdate{Name: &name, Balance: &lower}, today)
	require.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, before, balances(b))
	assert.Len(t, b.Transactions, 1)
	acct, _ := b.Account(card)
	assert.NotEqual(t, "Renamed", acct.Name)
	assert.Equal(t, int64(500), acct.Balance)
}

func TestSeedAccounts(t *testing.T) {
	b := &model.Book{}
	b.Normalize()
	chart := []model.Account{
		{ID: 10, Name: "Wallet", Type: model.AccountTypeAsset, Balance: 3000},
		{ID: 20, Name: "Visa", Type: model.AccountTypeLiability, Class: model.ClassCurrent, PayDay: 10, PayFromAccountID: 10, Balance: 1200},
	}
	require.NoError(t, SeedAccounts(b, chart, today))

	require.Len(t, b.Accounts, 2)
	assert.Equal(t, model.ClassCurrent, b.Accounts[0].Class)
	assert.Equal(t, map[int]int64{10: 3000, 20: 1200}, balances(b))
	require.Len(t, b.Transactions, 2)
	assert.Equal(t, model.KindIncome, b.Transactions[0].Kind)
	assert.Equal(t, model.KindExpense, b.Transactions[1].Kind)
	mismatches, err := Verify(b)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	err = SeedAccounts(b, chart, today)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestSeedAccounts_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		chart []model.Account
		want  error
	}{
		{"empty", nil, model.ErrValidation},
		{"duplicate id", []model.Account{
			{ID: 1, Name: "A", Type: model.AccountTypeAsset},
			{ID: 1, Name: "B", Type: model.AccountTypeAsset},
		}, model.ErrValidation},
		{"pay-from missing", []model.Account{
			{ID: 1, Name: "Visa", Type: model.AccountTypeLiability, PayDay: 10, PayFromAccountID: 9},
		}, model.ErrAccountNotFound},
		{"negative liability", []model.Account{
			{ID: 1, Name: "Loan", Type: model.AccountTypeLiability, Class: model.ClassLong, Balance: -5},
		}, model.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &model.Book{}
			b.Normalize()
			err := SeedAccounts(b, tt.chart, today)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, b.Accounts)
			assert.Empty(t, b.Transactions)
		})
	}
}

func TestUpdateAccount(t *testing.T) {
	b := newBook()
	name := "Visa"
	bal := int64(1200)
	acct, adj, err := UpdateAccount(b, card, AccountUpdate{Name: &name, Balance: &bal}, today)
	require.NoError(t, err)
	assert.Equal(t, "Visa", acct.Name)
	assert.Equal(t, int64(1200), acct.Balance)
	require.NotNil(t, adj)

	typ := model.AccountTypeAsset
	_, _, err = UpdateAccount(b, card, AccountUpdate{Type: &typ}, today)
	assert.ErrorIs(t, err, model.ErrConflict)

	class := model.ClassLong
	acct, _, err = UpdateAccount(b, plan, AccountUpdate{Class: &class}, today)
	require.NoError(t, err)
	assert.Equal(t, model.ClassLong, acct.Class)

	acct, _, err = UpdateAccount(b, plan, AccountUpdate{Type: &typ}, today)
	require.NoError(t, err, "an account without history may change type")
	assert.Equal(t, model.AccountTypeAsset, acct.Type)

	_, _, err = UpdateAccount(b, 99, AccountUpdate{Name: &name}, today)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

func TestDeleteAccount(t *testing.T) {
	b := newBook()
	mustCreate(t, b, model.Transaction{Kind: model.KindExpense, Amount: 10, AccountID: cash})
	_, err := AddFixedCost(b, model.FixedCost{Name: "Rent", Amount: 50000, Day: 25, AccountID: savings})
	require.NoError(t, err)
	_, err = AddIncome(b, model.IncomeSchedule{Name: "Salary", Amount: 250000, Day: 25, AccountID: loan})
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteAccount(b, cash), model.ErrConflict)
	assert.ErrorIs(t, DeleteAccount(b, savings), model.ErrConflict)
	assert.ErrorIs(t, DeleteAccount(b, loan), model.ErrConflict)
	assert.ErrorIs(t, DeleteAccount(b, bank), model.ErrConflict, "card pays from bank")
	assert.ErrorIs(t, DeleteAccount(b, 99), model.ErrAccountNotFound)

	require.NoError(t, DeleteAccount(b, plan))
	_, ok := b.Account(plan)
	assert.False(t, ok)
}

func TestFixedCostLifecycle(t *testing.T) {
	b := newBook()
	fc, err := AddFixedCost(b, model.FixedCost{Name: "Phone", Amount: 3000, Day: 10, AccountID: card, Tags: []string{"mobile"}})
	require.NoError(t, err)
	assert.Equal(t, 1, fc.ID)
	assert.Equal(t, model.CategoryMisc, fc.Category)
	assert.Contains(t, b.Tags, "mobile")

	d := 31
	fc, err = UpdateFixedCost(b, fc.ID, FixedCostUpdate{Day: &d})
	require.NoError(t, err)
	assert.Equal(t, 31, fc.Day)

	bad := 0
	_, err = UpdateFixedCost(b, fc.ID, FixedCostUpdate{Day: &bad})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 31, b.FixedCosts[0].Day)

	_, err = AddFixedCost(b, model.FixedCost{Name: "Ghost", Amount: 1, Day: 1, AccountID: 99})
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	require.NoError(t, DeleteFixedCost(b, fc.ID))
	assert.ErrorIs(t, DeleteFixedCost(b, fc.ID), model.ErrTemplateNotFound)
	assert.Equal(t, balances(newBook()), balances(b), "templates never post")
}

func TestIncomeLifecycle(t *testing.T) {
	b := newBook()
	s, err := AddIncome(b, model.IncomeSchedule{Name: "Salary", Amount: 250000, Day: 25, AccountID: bank})
	require.NoError(t, err)

	amount := int64(260000)
	s, err = UpdateIncome(b, s.ID, IncomeUpdate{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, int64(260000), s.Amount)

	_, err = UpdateIncome(b, 9, IncomeUpdate{})
	assert.ErrorIs(t, err, model.ErrTemplateNotFound)
	_, err = AddIncome(b, model.IncomeSchedule{Amount: 1, Day: 1, AccountID: bank})
	assert.ErrorIs(t, err, model.ErrValidation)

	require.NoError(t, DeleteIncome(b, s.ID))
	assert.Empty(t, b.IncomeSchedule)
}

func TestCurrentAssetEffect(t *testing.T) {
	b := newBook()
	assert.Equal(t, int64(-100), CurrentAssetEffect(b, model.Transaction{Kind: model.KindExpense, Amount: 100, AccountID: cash}))
	assert.Equal(t, int64(0), CurrentAssetEffect(b, model.Transaction{Kind: model.KindExpense, Amount: 100, AccountID: card}))
	assert.Equal(t, int64(0), CurrentAssetEffect(b, model.Transaction{Kind: model.KindTransfer, Amount: 100, FromAccountID: bank, ToAccountID: cash}))
	assert.Equal(t, int64(-100), CurrentAssetEffect(b, model.Transaction{Kind: model.KindTransfer, Amount: 100, FromAccountID: bank, ToAccountID: card}))
	assert.Equal(t, int64(100), CurrentAssetEffect(b, model.Transaction{Kind: model.KindTransfer, Amount: 100, FromAccountID: savings, ToAccountID: bank}))
	assert.Equal(t, int64(0), CurrentAssetEffect(b, model.Transaction{Kind: model.KindIncome, Amount: 100, AccountID: 99}))
}
