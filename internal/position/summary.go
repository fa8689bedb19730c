package position

import (
	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// CardBalance is a revolving account with an outstanding balance.
type CardBalance struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	PayDay  int    `json:"payDay"`
}

// Summary is the dashboard view of the book on a given day.
type Summary struct {
	Today              day.Date      `json:"today"`
	Hand               int64         `json:"hand"`
	PendingIncome      int64         `json:"pendingIncome"`
	UsableNet          int64         `json:"usableNet"`
	CardTotal          int64         `json:"ccTotal"`
	Cards              []CardBalance `json:"ccList"`
	OtherLiabilities   int64         `json:"otherLiabilities"`
	CurrentAssets      int64         `json:"currentAssets"`
	CurrentLiabilities int64         `json:"currentLiabilities"`
	LongAssets         int64         `json:"longAssets"`
	LongLiabilities    int64         `json:"longLiabilities"`
	TotalAssets        int64         `json:"totalAssets"`
	TotalLiabilities   int64         `json:"totalLiabilities"`
	NetWorth           int64         `json:"netWorth"`
	CurrentNet         int64         `json:"currentNet"`
	MonthExpenses      int64         `json:"monthExpenses"`
	MonthIncome        int64         `json:"monthIncome"`
	RemainingFixed     int64         `json:"remainingFixed"`
	RemainingIncome    int64         `json:"remainingIncome"`
	Spendable          int64         `json:"spendable"`
}

// NewSummary computes the dashboard figures for today.
//
// UsableNet is hand less everything owed on current liabilities. Spendable
// further subtracts the fixed costs still to come this month from asset
// accounts and adds the scheduled income still to arrive.
func NewSummary(b *model.Book, today day.Date) Summary {
	accts := accounts.NewService(b.Accounts)
	s := Summary{
		Today:              today,
		Cards:              []CardBalance{},
		CurrentAssets:      accts.Total(model.AccountTypeAsset, model.ClassCurrent),
		CurrentLiabilities: accts.Total(model.AccountTypeLiability, model.ClassCurrent),
		LongAssets:         accts.Total(model.AccountTypeAsset, model.ClassLong),
		LongLiabilities:    accts.Total(model.AccountTypeLiability, model.ClassLong),
	}
	s.TotalAssets = s.CurrentAssets + s.LongAssets
	s.TotalLiabilities = s.CurrentLiabilities + s.LongLiabilities
	s.NetWorth = s.TotalAssets - s.TotalLiabilities
	s.CurrentNet = s.CurrentAssets - s.CurrentLiabilities

	s.PendingIncome, _ = PendingIncome(b, today)
	s.Hand = s.CurrentAssets - s.PendingIncome

	for _, a := range accts.ByTypeClass(model.AccountTypeLiability, model.ClassCurrent) {
		if a.IsRevolving() && a.Balance > 0 {
			s.CardTotal += a.Balance
			s.Cards = append(s.Cards, CardBalance{ID: a.ID, Name: a.Name, Balance: a.Balance, PayDay: a.PayDay})
			continue
		}
		s.OtherLiabilities += max(0, a.Balance)
	}

	month := today.MonthOf()
	for _, tx := range b.Transactions {
		if !month.Contains(tx.Date) {
			continue
		}
		switch tx.Kind {
		case model.KindExpense, model.KindCCDetail:
			s.MonthExpenses += tx.Amount
		case model.KindIncome:
			s.MonthIncome += tx.Amount
		}
	}

	for _, fc := range b.FixedCosts {
		a, ok := accts.Get(fc.AccountID)
		if ok && a.IsAsset() && fc.On(month).After(today) {
			s.RemainingFixed += fc.Amount
		}
	}
	for _, inc := range b.IncomeSchedule {
		if inc.On(month).After(today) {
			s.RemainingIncome += inc.Amount
		}
	}

	s.UsableNet = s.Hand - s.CardTotal - s.OtherLiabilities
	s.Spendable = s.UsableNet - s.RemainingFixed + s.RemainingIncome
	return s
}
