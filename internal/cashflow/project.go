package cashflow

import (
	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/position"
)

// DefaultHorizon is the number of months Project covers.
const DefaultHorizon = 3

// MonthFlow is one projected month.
type MonthFlow struct {
	Month        day.Month `json:"month"`
	Events       []Event   `json:"events"`
	StartBalance int64     `json:"startBalance"`
	EndBalance   int64     `json:"endBalance"`
	TotalExpense int64     `json:"totalExpense"`
	TotalIncome  int64     `json:"totalIncome"`
}

// Liability is a current liability as listed alongside the projection.
type Liability struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	PayDay  int    `json:"payDay,omitempty"`
	PayFrom string `json:"payFromAccount"`
}

// Projection is the multi-month cash-flow view.
type Projection struct {
	Today              day.Date    `json:"today"`
	Hand               int64       `json:"hand"`
	CurrentAssets      int64       `json:"currentAssets"`
	CurrentLiabilities int64       `json:"currentLiabilities"`
	CurrentNet         int64       `json:"currentNet"`
	Liabilities        []Liability `json:"creditCards"`
	Months             []MonthFlow `json:"months"`
}

// Project starts from money in hand and folds each month's events for
// horizon months beginning with today's month.
func Project(b *model.Book, today day.Date, horizon int) Projection {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	accts := accounts.NewService(b.Accounts)
	p := Projection{
		Today:              today,
		Hand:               position.HandBalance(b, today),
		CurrentAssets:      accts.Total(model.AccountTypeAsset, model.ClassCurrent),
		CurrentLiabilities: accts.Total(model.AccountTypeLiability, model.ClassCurrent),
		Liabilities:        []Liability{},
	}
	p.CurrentNet = p.CurrentAssets - p.CurrentLiabilities
	for _, a := range accts.ByTypeClass(model.AccountTypeLiability, model.ClassCurrent) {
		p.Liabilities = append(p.Liabilities, Liability{
			ID: a.ID, Name: a.Name, Balance: a.Balance, PayDay: a.PayDay, PayFrom: accts.Name(a.PayFromAccountID),
		})
	}

	running := p.Hand
	for offset := range horizon {
		month := today.MonthOf().Add(offset)
		events := BuildMonthEvents(b, month, offset, today)
		if events == nil {
			events = []Event{}
		}
		flow := MonthFlow{Month: month, Events: events, StartBalance: running}
		flow.EndBalance = Fold(running, events)
		for _, e := range events {
			if e.CC {
				continue
			}
			if e.Amount < 0 {
				flow.TotalExpense -= e.Amount
			} else {
				flow.TotalIncome += e.Amount
			}
		}
		running = flow.EndBalance
		p.Months = append(p.Months, flow)
	}
	return p
}

// OpeningBalance returns the projected money in hand at the start of month.
// For today's month that is the hand balance. For a later month it is the
// hand balance carried through the rest of today's month and every month in
// between. Earlier months are not projected and return the hand balance.
func OpeningBalance(b *model.Book, month day.Month, today day.Date) int64 {
	running := position.HandBalance(b, today)
	current := today.MonthOf()
	if month.Compare(current) <= 0 {
		return running
	}
	running = Fold(running, BuildMonthEvents(b, current, 0, today))
	for m := current.Add(1); m.Compare(month) < 0; m = m.Add(1) {
		running = Fold(running, BuildMonthEvents(b, m, 1, today))
	}
	return running
}
