// Package credit models revolving accounts: their billing cycle and the
// part of their balance not yet itemized.
package credit

import (
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// IsRevolving reports whether a bills on a monthly pay day.
func IsRevolving(a model.Account) bool { return a.IsRevolving() }

// CycleStart returns the first day of a's current billing cycle. Once
// today's day of month reaches the pay day the cycle started this month;
// before that it started on the previous month's pay day, clamped to that
// month's length. The comparison uses the unclamped pay day, so a day-31
// card on 2024-04-30 is still in the cycle that began 2024-03-31.
// Accounts without a pay day cycle on calendar months.
func CycleStart(a model.Account, today day.Date) day.Date {
	month := today.MonthOf()
	if !IsRevolving(a) {
		return month.First()
	}
	if today.Day() >= a.PayDay {
		return month.Clamp(a.PayDay)
	}
	return month.Add(-1).Clamp(a.PayDay)
}

// UnjournaledSpend is the part of a's balance not explained by cc_detail
// itemizations in the current cycle or by fixed costs matured this month.
// The raw figure is returned and may be negative; callers only act on a
// positive remainder.
func UnjournaledSpend(b *model.Book, a model.Account, today day.Date) int64 {
	start := CycleStart(a, today)
	var itemized int64
	for _, tx := range b.Transactions {
		if tx.Kind == model.KindCCDetail && tx.AccountID == a.ID && tx.Date.Between(start, today) {
			itemized += tx.Amount
		}
	}
	return a.Balance - itemized - MaturedTotal(b, a.ID, today.MonthOf(), today)
}

// Matured returns the fixed costs routed to accountID that have come due in
// month. In today's month only those on or before today have; every other
// month counts them all.
func Matured(b *model.Book, accountID int, month day.Month, today day.Date) []model.FixedCost {
	var out []model.FixedCost
	for _, fc := range b.FixedCosts {
		if fc.AccountID == accountID && IsMatured(fc, month, today) {
			out = append(out, fc)
		}
	}
	return out
}

// MaturedTotal sums Matured.
func MaturedTotal(b *model.Book, accountID int, month day.Month, today day.Date) int64 {
	var sum int64
	for _, fc := range Matured(b, accountID, month, today) {
		sum += fc.Amount
	}
	return sum
}

// IsMatured reports whether fc has come due in month as seen from today.
func IsMatured(fc model.FixedCost, month day.Month, today day.Date) bool {
	if month != today.MonthOf() {
		return true
	}
	return !fc.On(month).After(today)
}
