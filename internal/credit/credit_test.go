package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	tb "github.com/kakeibo-dev/kakeibo/internal/testbook"
)

func revolving(payDay int) model.Account {
	return model.Account{ID: 9, Type: model.AccountTypeLiability, Class: model.ClassCurrent, PayDay: payDay}
}

func TestCycleStart(t *testing.T) {
	tests := []struct {
		payDay int
		today  string
		want   string
	}{
		{27, "2024-05-27", "2024-05-27"},
		{27, "2024-05-26", "2024-04-27"},
		{27, "2024-05-31", "2024-05-27"},
		{31, "2024-02-15", "2024-01-31"},
		{31, "2024-03-15", "2024-02-29"},
		{31, "2023-03-01", "2023-02-28"},
		{31, "2024-04-30", "2024-03-31"},
		{31, "2024-02-29", "2024-01-31"},
		{31, "2024-05-31", "2024-05-31"},
		{30, "2024-02-29", "2024-01-30"},
		{10, "2024-01-05", "2023-12-10"},
		{1, "2024-01-01", "2024-01-01"},
	}
	for _, tt := range tests {
		got := CycleStart(revolving(tt.payDay), day.MustParse(tt.today))
		assert.Equal(t, tt.want, got.String(), "payDay=%d today=%s", tt.payDay, tt.today)
	}
}

func TestCycleStart_NonRevolving(t *testing.T) {
	plan := model.Account{Type: model.AccountTypeLiability, Class: model.ClassCurrent}
	assert.Equal(t, "2024-05-01", CycleStart(plan, day.MustParse("2024-05-26")).String())
	assert.False(t, IsRevolving(plan))
	assert.True(t, IsRevolving(revolving(27)))
}

func card(t *testing.T, b *model.Book) model.Account {
	t.Helper()
	a, ok := b.Account(tb.Card)
	require.True(t, ok)
	return *a
}

func TestUnjournaledSpend(t *testing.T) {
	today := day.MustParse("2024-05-20")
	b := tb.New()
	tb.Expense(t, b, "2024-05-02", tb.Card, 10000)
	tb.Detail(t, b, "2024-04-30", tb.Card, 1000) // inside the cycle that began 04-27
	tb.Detail(t, b, "2024-04-26", tb.Card, 500)  // previous cycle
	tb.Detail(t, b, "2024-05-21", tb.Card, 700)  // after today
	_, err := ledger.AddFixedCost(b, model.FixedCost{Name: "Phone", Amount: 3000, Day: 10, AccountID: tb.Card})
	require.NoError(t, err)
	_, err = ledger.AddFixedCost(b, model.FixedCost{Name: "Music", Amount: 900, Day: 25, AccountID: tb.Card})
	require.NoError(t, err)
	_, err = ledger.AddFixedCost(b, model.FixedCost{Name: "Rent", Amount: 70000, Day: 1, AccountID: tb.Bank})
	require.NoError(t, err)

	assert.Equal(t, int64(10000-1000-3000), UnjournaledSpend(b, card(t, b), today))
}

func TestUnjournaledSpend_ShortMonthKeepsPreviousCycle(t *testing.T) {
	today := day.MustParse("2024-04-30")
	b := tb.New()
	acct, ok := b.Account(tb.Card)
	require.True(t, ok)
	acct.PayDay = 31
	tb.Detail(t, b, "2024-03-30", tb.Card, 800) // previous cycle
	tb.Detail(t, b, "2024-03-31", tb.Card, 2000)
	tb.Expense(t, b, "2024-04-10", tb.Card, 5000)

	assert.Equal(t, "2024-03-31", CycleStart(card(t, b), today).String())
	assert.Equal(t, int64(3000), UnjournaledSpend(b, card(t, b), today))
}

func TestUnjournaledSpend_CanBeNegative(t *testing.T) {
	today := day.MustParse("2024-05-20")
	b := tb.New()
	tb.Detail(t, b, "2024-05-01", tb.Card, 400)
	assert.Equal(t, int64(-400), UnjournaledSpend(b, card(t, b), today))
}

func TestMatured(t *testing.T) {
	today := day.MustParse("2024-05-20")
	b := tb.New()
	for _, fc := range []model.FixedCost{
		{Name: "Early", Amount: 100, Day: 5, AccountID: tb.Card},
		{Name: "Today", Amount: 200, Day: 20, AccountID: tb.Card},
		{Name: "Late", Amount: 400, Day: 31, AccountID: tb.Card},
		{Name: "Other", Amount: 800, Day: 1, AccountID: tb.Bank},
	} {
		_, err := ledger.AddFixedCost(b, fc)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(300), MaturedTotal(b, tb.Card, day.MustParseMonth("2024-05"), today))
	assert.Equal(t, int64(700), MaturedTotal(b, tb.Card, day.MustParseMonth("2024-04"), today))
	assert.Equal(t, int64(700), MaturedTotal(b, tb.Card, day.MustParseMonth("2024-07"), today))
	assert.Len(t, Matured(b, tb.Bank, day.MustParseMonth("2024-05"), today), 1)
}

// A revolving purchase moves only the card, shows up as unitemized spend
// until a matching cc_detail arrives, and deleting it undoes everything.
func TestRevolvingPurchaseLifecycle(t *testing.T) {
	today := day.MustParse("2024-05-20")
	b := tb.New()
	tb.SetBalance(t, b, tb.Bank, 1000, "2024-05-01")
	tb.Income(t, b, "2024-05-21", tb.Bank, 500)
	before := UnjournaledSpend(b, card(t, b), today)

	purchase := tb.Expense(t, b, "2024-05-20", tb.Card, 200)
	bank, _ := b.Account(tb.Bank)
	assert.Equal(t, int64(1500), bank.Balance, "asset side untouched by card spend")
	assert.Equal(t, int64(200), card(t, b).Balance)
	assert.Equal(t, before+200, UnjournaledSpend(b, card(t, b), today))

	detail := tb.Detail(t, b, "2024-05-20", tb.Card, 200)
	assert.Equal(t, before, UnjournaledSpend(b, card(t, b), today))
	_, err := ledger.DeleteTransaction(b, detail.ID)
	require.NoError(t, err)

	_, err = ledger.DeleteTransaction(b, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), card(t, b).Balance)
	assert.Equal(t, int64(0), UnjournaledSpend(b, card(t, b), today))
}
