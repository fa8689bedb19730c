// Package cashflow projects money in hand forward month by month from the
// book's recorded future transactions, card billings and templates.
package cashflow

import (
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/credit"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/position"
)

// Source says where an event came from.
type Source string

const (
	SourcePending   Source = "pending"   // income booked but not yet arrived
	SourceLiability Source = "liability" // payment on a non-revolving liability
	SourceDetail    Source = "cc_detail"
	SourceUnsorted  Source = "unsorted" // card balance not yet itemized
	SourceBilling   Source = "billing"
	SourceFixed     Source = "fixed"
	SourceIncome    Source = "income"
)

// Event is a dated change to money in hand. Events marked CC are shown but
// never move the running balance; a card's cash impact lands once, on its
// billing event.
type Event struct {
	Date      day.Date `json:"date"`
	Name      string   `json:"name"`
	Amount    int64    `json:"amount"`
	Source    Source   `json:"source"`
	AccountID int      `json:"accountId"`
	Account   string   `json:"account"`
	CC        bool     `json:"cc"`
	TxID      int      `json:"txId,omitempty"`
	Running   int64    `json:"running"`
}

const (
	billingSuffix  = " 引落"
	unsortedSuffix = " 未仕訳"
	detailFallback = "CC明細"
)

// BuildMonthEvents lists the events of month, offset months after today's
// month, that fall after today. Events are ordered by day; same-day events
// keep the order in which they are built: pending income, liability
// payments, card itemizations, billings, fixed costs, scheduled income.
func BuildMonthEvents(b *model.Book, month day.Month, offset int, today day.Date) []Event {
	accts := accounts.NewService(b.Accounts)
	_, pending := position.PendingIncome(b, today)
	upcoming := func(d day.Date) bool { return month.Contains(d) && d.After(today) }
	var events []Event

	for _, tx := range b.Transactions {
		if pending[tx.ID] && upcoming(tx.Date) {
			events = append(events, Event{
				Date: tx.Date, Name: firstNonEmpty(tx.Schedule, tx.Category), Amount: tx.Amount,
				Source: SourcePending, AccountID: tx.AccountID, Account: accts.Name(tx.AccountID), TxID: tx.ID,
			})
		}
	}

	for _, tx := range b.Transactions {
		if pending[tx.ID] || !upcoming(tx.Date) {
			continue
		}
		if tx.Kind != model.KindExpense && tx.Kind != model.KindIncome {
			continue
		}
		a, ok := accts.Get(tx.AccountID)
		if !ok || !a.IsLiability() || a.IsRevolving() {
			continue
		}
		events = append(events, Event{
			Date: tx.Date, Name: firstNonEmpty(tx.Schedule, tx.Category), Amount: tx.Signed(),
			Source: SourceLiability, AccountID: a.ID, Account: a.Name, TxID: tx.ID,
		})
	}

	if offset == 0 {
		for _, tx := range b.Transactions {
			if tx.Kind != model.KindCCDetail || !month.Contains(tx.Date) {
				continue
			}
			events = append(events, Event{
				Date: tx.Date, Name: firstNonEmpty(tx.Category, tx.Memo, detailFallback), Amount: -tx.Amount,
				Source: SourceDetail, AccountID: tx.AccountID, Account: accts.Name(tx.AccountID), CC: true, TxID: tx.ID,
			})
		}
		for _, a := range accts.Revolving() {
			if u := credit.UnjournaledSpend(b, a, today); u > 0 {
				events = append(events, Event{
					Date: today, Name: a.Name + unsortedSuffix, Amount: -u,
					Source: SourceUnsorted, AccountID: a.ID, Account: a.Name, CC: true,
				})
			}
		}
	}

	for _, a := range accts.Revolving() {
		billed := month.Clamp(a.PayDay)
		if !billed.After(today) {
			continue
		}
		magnitude := a.Balance
		if offset > 0 {
			magnitude = credit.MaturedTotal(b, a.ID, month, today) + detailTotal(b, a.ID, month)
		}
		if magnitude <= 0 {
			continue
		}
		events = append(events, Event{
			Date: billed, Name: a.Name + billingSuffix, Amount: -magnitude,
			Source: SourceBilling, AccountID: a.ID, Account: accts.Name(a.PayFromAccountID),
		})
	}

	for _, fc := range b.FixedCosts {
		if d := fc.On(month); upcoming(d) {
			events = append(events, Event{
				Date: d, Name: fc.Name, Amount: -fc.Amount, Source: SourceFixed,
				AccountID: fc.AccountID, Account: accts.Name(fc.AccountID), CC: accts.IsRevolving(fc.AccountID),
			})
		}
	}

	for _, inc := range b.IncomeSchedule {
		if d := inc.On(month); upcoming(d) {
			events = append(events, Event{
				Date: d, Name: inc.Name, Amount: inc.Amount, Source: SourceIncome,
				AccountID: inc.AccountID, Account: accts.Name(inc.AccountID),
			})
		}
	}

	slices.SortStableFunc(events, func(x, y Event) int { return x.Date.Compare(y.Date) })
	return events
}

// Fold runs events over start, recording the running balance on each event.
// CC events are recorded but not applied. It returns the final balance.
func Fold(start int64, events []Event) int64 {
	running := start
	for i := range events {
		if !events[i].CC {
			running += events[i].Amount
		}
		events[i].Running = running
	}
	return running
}

func detailTotal(b *model.Book, accountID int, month day.Month) int64 {
	var sum int64
	for _, tx := range b.Transactions {
		if tx.Kind == model.KindCCDetail && tx.AccountID == accountID && month.Contains(tx.Date) {
			sum += tx.Amount
		}
	}
	return sum
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
