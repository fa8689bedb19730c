package pl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	tb "github.com/kakeibo-dev/kakeibo/internal/testbook"
)

var today = day.MustParse("2024-05-20")

func post(t *testing.T, b *model.Book, kind model.Kind, date string, acct int, amount int64, category string, tags []string, schedule string) {
	t.Helper()
	tb.Post(t, b, model.Transaction{
		Kind: kind, Date: day.MustParse(date), AccountID: acct, Amount: amount,
		Category: category, Tags: tags, Schedule: schedule,
	})
}

func addFixed(t *testing.T, b *model.Book, fc model.FixedCost) {
	t.Helper()
	_, err := ledger.AddFixedCost(b, fc)
	require.NoError(t, err)
}

func aprilBook(t *testing.T) *model.Book {
	t.Helper()
	b := tb.New()
	tb.SetBalance(t, b, tb.Bank, 100000, "2024-03-01")
	post(t, b, model.KindExpense, "2024-04-03", tb.Bank, 1500, "食費", []string{"外食"}, "")
	post(t, b, model.KindIncome, "2024-04-25", tb.Bank, 250000, "給与", nil, "Salary")
	post(t, b, model.KindExpense, "2024-04-10", tb.Card, 10000, "買い物", nil, "")
	post(t, b, model.KindCCDetail, "2024-04-11", tb.Card, 4000, "食費", []string{"外食", "友人"}, "")
	post(t, b, model.KindCCDetail, "2024-04-12", tb.Card, 1000, "日用品", nil, "")
	tb.Post(t, b, model.Transaction{
		Kind: model.KindTransfer, Date: day.MustParse("2024-04-27"), FromAccountID: tb.Bank, ToAccountID: tb.Card, Amount: 5000,
	})
	addFixed(t, b, model.FixedCost{Name: "Phone", Amount: 3000, Day: 10, AccountID: tb.Card, Category: "通信費"})
	addFixed(t, b, model.FixedCost{Name: "Rent", Amount: 70000, Day: 25, AccountID: tb.Bank, Category: "住居費"})
	return b
}

func TestMonthlyPL_PastMonth(t *testing.T) {
	r := MonthlyPL(aprilBook(t), day.MustParseMonth("2024-04"), today)

	assert.Equal(t, map[string]int64{"食費": 5500, "日用品": 1000, "通信費": 3000, model.CategoryMisc: 2000}, r.ExpenseByCategory)
	assert.Equal(t, map[string]int64{"給与": 250000}, r.IncomeByCategory)
	assert.Equal(t, int64(2000), r.UnsortedCCSpend)
	assert.Equal(t, int64(11500), r.TotalExpense)
	assert.Equal(t, int64(250000), r.TotalIncome)
	assert.Equal(t, int64(238500), r.Net)

	assert.Equal(t, int64(1500), r.ExpenseDetail["食費"]["外食"][model.PlaceholderNoSchedule])
	assert.Equal(t, int64(4000), r.ExpenseDetail["食費"]["外食, 友人"][model.PlaceholderNoSchedule])
	assert.Equal(t, int64(1000), r.ExpenseDetail["日用品"][model.PlaceholderNoTag][model.PlaceholderNoSchedule])
	assert.Equal(t, int64(3000), r.ExpenseDetail["通信費"][model.PlaceholderNoTag][model.LeafFixedCost])
	assert.Equal(t, int64(2000), r.ExpenseDetail[model.CategoryMisc][model.PlaceholderNoTag][model.LeafUnsortedCC])
	assert.Equal(t, int64(250000), r.IncomeDetail["給与"][model.PlaceholderNoTag]["Salary"])
	assert.NotContains(t, r.ExpenseByCategory, "買い物")
	assert.NotContains(t, r.ExpenseByCategory, model.CategoryTransfer)
	assert.NotContains(t, r.ExpenseByCategory, "住居費")
}

func TestMonthlyPL_Shares(t *testing.T) {
	r := MonthlyPL(aprilBook(t), day.MustParseMonth("2024-04"), today)

	require.Len(t, r.ExpenseShares, 4)
	got := make(map[string]string)
	for _, s := range r.ExpenseShares {
		got[s.Category] = s.Percent.String()
	}
	assert.Equal(t, map[string]string{"食費": "47.8", "通信費": "26.1", model.CategoryMisc: "17.4", "日用品": "8.7"}, got)
	assert.Equal(t, "食費", r.ExpenseShares[0].Category)
	assert.Equal(t, "日用品", r.ExpenseShares[3].Category)
}

func TestMonthlyPL_ReconcilesCardSpend(t *testing.T) {
	b := aprilBook(t)
	r := MonthlyPL(b, day.MustParseMonth("2024-04"), today)

	var assetSpend, cardSpend int64
	for _, tx := range b.Transactions {
		if tx.Kind != model.KindExpense || !r.Month.Contains(tx.Date) {
			continue
		}
		if tx.AccountID == tb.Card {
			cardSpend += tx.Amount
		} else {
			assetSpend += tx.Amount
		}
	}
	assert.Equal(t, cardSpend, r.TotalExpense-assetSpend)
}

func TestMonthlyPL_CurrentMonthUsesLiveRemainder(t *testing.T) {
	b := tb.New()
	post(t, b, model.KindExpense, "2024-05-02", tb.Card, 8000, "", nil, "")
	post(t, b, model.KindCCDetail, "2024-05-03", tb.Card, 2000, "食費", nil, "")
	addFixed(t, b, model.FixedCost{Name: "Phone", Amount: 3000, Day: 10, AccountID: tb.Card, Category: "通信費"})
	addFixed(t, b, model.FixedCost{Name: "Music", Amount: 900, Day: 31, AccountID: tb.Card, Category: "娯楽"})

	r := MonthlyPL(b, day.MustParseMonth("2024-05"), today)
	assert.Equal(t, int64(3000), r.UnsortedCCSpend)
	assert.Equal(t, map[string]int64{"食費": 2000, "通信費": 3000, model.CategoryMisc: 3000}, r.ExpenseByCategory)
	assert.Equal(t, int64(8000), r.TotalExpense)
}

func TestMonthlyPL_OverItemizedCardAddsNoPlug(t *testing.T) {
	b := tb.New()
	post(t, b, model.KindExpense, "2024-03-02", tb.Card, 1000, "", nil, "")
	post(t, b, model.KindCCDetail, "2024-03-03", tb.Card, 1500, "食費", nil, "")

	r := MonthlyPL(b, day.MustParseMonth("2024-03"), today)
	assert.Zero(t, r.UnsortedCCSpend)
	assert.Equal(t, map[string]int64{"食費": 1500}, r.ExpenseByCategory)
}

func TestMonthlyPL_EmptyMonth(t *testing.T) {
	r := MonthlyPL(tb.New(), day.MustParseMonth("2024-01"), today)
	assert.Empty(t, r.ExpenseByCategory)
	assert.Empty(t, r.IncomeByCategory)
	assert.NotNil(t, r.ExpenseShares)
	assert.Zero(t, r.Net)
}

func TestMonthlyPL_Placeholders(t *testing.T) {
	b := tb.New()
	post(t, b, model.KindExpense, "2024-04-01", tb.Cash, 300, "", []string{" "}, "")
	post(t, b, model.KindIncome, "2024-04-01", tb.Cash, 700, "", nil, "")

	r := MonthlyPL(b, day.MustParseMonth("2024-04"), today)
	assert.Equal(t, int64(300), r.ExpenseDetail[model.CategoryMisc][model.PlaceholderNoTag][model.PlaceholderNoSchedule])
	assert.Equal(t, int64(700), r.IncomeDetail[model.CategoryMiscIncome][model.PlaceholderNoTag][model.PlaceholderNoSchedule])
}
