package position

import (
	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Line is one account on the balance sheet.
type Line struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// Section is a group of lines with their total.
type Section struct {
	Lines []Line `json:"lines"`
	Total int64  `json:"total"`
}

// BalanceSheet groups accounts by type and class.
type BalanceSheet struct {
	CurrentAssets      Section `json:"currentAssets"`
	LongAssets         Section `json:"longAssets"`
	CurrentLiabilities Section `json:"currentLiabilities"`
	LongLiabilities    Section `json:"longLiabilities"`
	TotalAssets        int64   `json:"totalAssets"`
	TotalLiabilities   int64   `json:"totalLiabilities"`
	NetWorth           int64   `json:"netWorth"`
}

// NewBalanceSheet builds the balance sheet from current account balances.
func NewBalanceSheet(b *model.Book) BalanceSheet {
	accts := accounts.NewService(b.Accounts)
	section := func(t model.AccountType, c model.AccountClass) Section {
		s := Section{Lines: []Line{}}
		for _, a := range accts.ByTypeClass(t, c) {
			s.Lines = append(s.Lines, Line{ID: a.ID, Name: a.Name, Balance: a.Balance})
			s.Total += a.Balance
		}
		return s
	}
	bs := BalanceSheet{
		CurrentAssets:      section(model.AccountTypeAsset, model.ClassCurrent),
		LongAssets:         section(model.AccountTypeAsset, model.ClassLong),
		CurrentLiabilities: section(model.AccountTypeLiability, model.ClassCurrent),
		LongLiabilities:    section(model.AccountTypeLiability, model.ClassLong),
	}
	bs.TotalAssets = bs.CurrentAssets.Total + bs.LongAssets.Total
	bs.TotalLiabilities = bs.CurrentLiabilities.Total + bs.LongLiabilities.Total
	bs.NetWorth = bs.TotalAssets - bs.TotalLiabilities
	return bs
}
