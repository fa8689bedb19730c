// Package calendar reconstructs a month of money in hand day by day.
//
// Months before today's month are replayed backwards from current balances
// and then forward through their recorded transactions. Today's month and
// later months start from money in hand and run forward over projected
// cash-flow events.
package calendar

import (
	"strings"
	"time"

	"github.com/kakeibo-dev/kakeibo/internal/cashflow"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/position"
)

const unnamedEntry = "取引"

// Entry is one line shown on a calendar day.
type Entry struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Type   string `json:"type"`
	Actual bool   `json:"actual"` // recorded, as opposed to projected
	CC     bool   `json:"cc"`
}

// Day is one calendar cell. Balance is nil when it is withheld.
type Day struct {
	Date    day.Date `json:"date"`
	Entries []Entry  `json:"events"`
	Balance *int64   `json:"balance"`
	IsToday bool     `json:"isToday"`
	IsPast  bool     `json:"isPast"`
}

// Month is a replayed calendar month.
type Month struct {
	Month        day.Month    `json:"month"`
	FirstWeekday time.Weekday `json:"firstDow"`
	NumDays      int          `json:"numDays"`
	StartBalance int64        `json:"startBalance"`
	EndBalance   int64        `json:"endBalance"`
	Days         []Day        `json:"days"`
}

// Replay builds the day-by-day trace of month as seen from today.
func Replay(b *model.Book, month day.Month, today day.Date) Month {
	out := Month{
		Month:        month,
		FirstWeekday: month.First().Weekday(),
		NumDays:      month.Days(),
		Days:         make([]Day, 0, month.Days()),
	}
	recorded := recordedByDay(b, month)
	if month.Compare(today.MonthOf()) < 0 {
		replayPast(b, &out, recorded)
	} else {
		replayForward(b, &out, recorded, today)
	}
	return out
}

// replayPast undoes every posting from the month's first day onwards to find
// the opening balance, then reapplies the month's postings day by day.
// Future-dated postings are undone too, since they are already in the booked
// balances; the past month therefore never sees a charge dated after today.
func replayPast(b *model.Book, out *Month, recorded map[int][]model.Transaction) {
	first := out.Month.First()
	start := position.CurrentAssets(b)
	for _, tx := range b.Transactions {
		if tx.Kind != model.KindCCDetail && !tx.Date.Before(first) {
			start -= ledger.CurrentAssetEffect(b, tx)
		}
	}

	running := start
	for d := 1; d <= out.NumDays; d++ {
		txs := recorded[d]
		for _, tx := range txs {
			running += ledger.CurrentAssetEffect(b, tx)
		}
		bal := running
		out.Days = append(out.Days, Day{
			Date:    day.New(out.Month.Year, out.Month.Month, d),
			Entries: groupRecorded(b, txs),
			Balance: &bal,
			IsPast:  true,
		})
	}
	out.StartBalance, out.EndBalance = start, running
}

// replayForward starts from the projected opening balance and applies the
// month's cash-flow events on the days after today.
func replayForward(b *model.Book, out *Month, recorded map[int][]model.Transaction, today day.Date) {
	offset := 1
	if out.Month == today.MonthOf() {
		offset = 0
	}
	events := make(map[int][]cashflow.Event)
	for _, e := range cashflow.BuildMonthEvents(b, out.Month, offset, today) {
		if e.Source == cashflow.SourceDetail {
			continue
		}
		events[e.Date.Day()] = append(events[e.Date.Day()], e)
	}

	start := cashflow.OpeningBalance(b, out.Month, today)
	running := start
	for d := 1; d <= out.NumDays; d++ {
		date := day.New(out.Month.Year, out.Month.Month, d)
		txs := recorded[d]
		cell := Day{Date: date, IsToday: date == today, IsPast: date.Before(today)}

		if !date.After(today) {
			cell.Entries = groupRecorded(b, txs)
			for _, e := range events[d] {
				cell.Entries = append(cell.Entries, eventEntry(e))
			}
		} else {
			represented := make(map[int]bool)
			for _, e := range events[d] {
				cell.Entries = append(cell.Entries, eventEntry(e))
				if !e.CC {
					running += e.Amount
				}
				if e.TxID != 0 {
					represented[e.TxID] = true
				}
			}
			var rest []model.Transaction
			for _, tx := range txs {
				if !represented[tx.ID] {
					rest = append(rest, tx)
				}
			}
			cell.Entries = append(cell.Entries, groupRecorded(b, rest)...)
		}

		if !cell.IsPast {
			bal := running
			cell.Balance = &bal
		}
		if cell.Entries == nil {
			cell.Entries = []Entry{}
		}
		out.Days = append(out.Days, cell)
	}
	out.StartBalance, out.EndBalance = start, running
}

// recordedByDay indexes the month's transactions by day of month, leaving
// out cc_detail itemizations.
func recordedByDay(b *model.Book, month day.Month) map[int][]model.Transaction {
	byDay := make(map[int][]model.Transaction)
	for _, tx := range b.Transactions {
		if tx.Kind == model.KindCCDetail || !month.Contains(tx.Date) {
			continue
		}
		byDay[tx.Date.Day()] = append(byDay[tx.Date.Day()], tx)
	}
	return byDay
}

// groupRecorded turns a day's transactions into entries. Transactions that
// share a schedule label collapse into one entry; the rest are listed one by
// one after the groups.
func groupRecorded(b *model.Book, txs []model.Transaction) []Entry {
	entries := []Entry{}
	groups := make(map[string]int)
	var singles []Entry
	for _, tx := range txs {
		amount := displayAmount(b, tx)
		if tx.Schedule == "" {
			singles = append(singles, Entry{Name: describe(tx), Amount: amount, Type: string(tx.Kind), Actual: true})
			continue
		}
		if i, ok := groups[tx.Schedule]; ok {
			entries[i].Amount += amount
			continue
		}
		groups[tx.Schedule] = len(entries)
		entries = append(entries, Entry{Name: tx.Schedule, Amount: amount, Type: string(tx.Kind), Actual: true})
	}
	return append(entries, singles...)
}

// displayAmount signs a transaction the way it reads on a calendar.
// Transfers show their net effect on money in hand.
func displayAmount(b *model.Book, tx model.Transaction) int64 {
	if tx.Kind == model.KindTransfer {
		return ledger.CurrentAssetEffect(b, tx)
	}
	return tx.Signed()
}

func describe(tx model.Transaction) string {
	var parts []string
	for _, p := range []string{tx.Category, tx.Memo} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return unnamedEntry
	}
	return strings.Join(parts, " - ")
}

func eventEntry(e cashflow.Event) Entry {
	return Entry{Name: e.Name, Amount: e.Amount, Type: string(e.Source), CC: e.CC}
}
