package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

func TestBankParser_Parse(t *testing.T) {
	f, err := os.Open("../../testdata/bank_statement.csv")
	require.NoError(t, err)
	defer f.Close()

	p := &BankParser{}
	lines, err := p.Parse(f)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	assert.Equal(t, day.MustParse("2024-05-01"), lines[0].Date)
	assert.Equal(t, "ｶﾞｽﾀﾞｲ", lines[0].Description)
	assert.Equal(t, "-4500", lines[0].Amount.String())

	// Grouping commas inside a quoted field.
	assert.Equal(t, "-6200", lines[1].Amount.String())
	assert.True(t, lines[2].Amount.IsPositive())
}

func TestCardParser_FlipsSign(t *testing.T) {
	f, err := os.Open("../../testdata/card_statement.csv")
	require.NoError(t, err)
	defer f.Close()

	p := &CardParser{}
	lines, err := p.Parse(f)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "-3280", lines[0].Amount.String())
	assert.Equal(t, "400", lines[2].Amount.String(), "refund reads as money received")
}

func TestParser_EmptyFile(t *testing.T) {
	p := &BankParser{}
	lines, err := p.Parse(strings.NewReader("日付,摘要,金額\n"))
	require.NoError(t, err)
	assert.Nil(t, lines)
}

func TestParser_DateLayouts(t *testing.T) {
	csv := "日付,摘要,金額\n2024-05-01,a,-1\n2024/5/2,b,-1\n"
	lines, err := (&BankParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, day.MustParse("2024-05-01"), lines[0].Date)
	assert.Equal(t, day.MustParse("2024-05-02"), lines[1].Date)
}

func TestParser_BadDate(t *testing.T) {
	csv := "日付,摘要,金額\nNOTADATE,desc,-400\n"
	_, err := (&BankParser{}).Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestParser_BadAmount(t *testing.T) {
	csv := "日付,摘要,金額\n2024/05/01,desc,NOTANUMBER\n"
	_, err := (&BankParser{}).Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestParser_WrongColumnCount(t *testing.T) {
	csv := "日付,摘要,金額\n2024/05/01,desc\n"
	_, err := (&BankParser{}).Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestTransactions(t *testing.T) {
	lines := []Line{
		{Date: day.MustParse("2024-05-01"), Description: "ガス代", Amount: decimal.NewFromInt(-4500)},
		{Date: day.MustParse("2024-05-02"), Description: "調整", Amount: decimal.Zero},
		{Date: day.MustParse("2024-05-25"), Description: "給与", Amount: decimal.NewFromInt(250000)},
	}
	bank := model.Account{ID: 2, Name: "普通預金", Type: model.AccountTypeAsset, Class: model.ClassCurrent}
	txs, skipped, err := Transactions(lines, bank)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, txs, 2)

	assert.Equal(t, model.KindExpense, txs[0].Kind)
	assert.Equal(t, int64(4500), txs[0].Amount)
	assert.Equal(t, 2, txs[0].AccountID)
	assert.Equal(t, "ガス代", txs[0].Memo)
	assert.Empty(t, txs[0].Category)

	assert.Equal(t, model.KindIncome, txs[1].Kind)
	assert.Equal(t, int64(250000), txs[1].Amount)
}

func TestTransactions_RejectsFractions(t *testing.T) {
	lines := []Line{{Date: day.MustParse("2024-05-01"), Amount: decimal.RequireFromString("-4.50")}}
	_, _, err := Transactions(lines, model.Account{ID: 1, Type: model.AccountTypeAsset})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestTransactions_SkipsReceiptsOnLiability(t *testing.T) {
	lines := []Line{
		{Date: day.MustParse("2024-04-03"), Description: "スーパー", Amount: decimal.NewFromInt(-3280)},
		{Date: day.MustParse("2024-04-15"), Description: "返品", Amount: decimal.NewFromInt(400)},
	}
	card := model.Account{ID: 5, Type: model.AccountTypeLiability, Class: model.ClassCurrent, PayDay: 27}
	txs, skipped, err := Transactions(lines, card)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.KindExpense, txs[0].Kind)
	assert.Equal(t, 5, txs[0].AccountID)
	require.Len(t, skipped, 1)
	assert.Equal(t, "返品", skipped[0].Description)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&BankParser{})
	assert.NotNil(t, r.Get("Bank"))
	assert.NotNil(t, r.Get("BANK"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CardParser{})
	assert.Panics(t, func() { r.Register(&CardParser{}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("bank"))
	assert.NotNil(t, r.Get("card"))
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, InboxDir)
	require.NoError(t, os.MkdirAll(filepath.Join(inbox, "processed"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "other.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "processed", "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bank.csv", files[0].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, InboxDir)
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(inbox, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(inbox, "processed", "bank.csv"))
}
