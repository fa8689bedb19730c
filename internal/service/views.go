package service

import (
	"fmt"
	"time"

	"github.com/kakeibo-dev/kakeibo/internal/calendar"
	"github.com/kakeibo-dev/kakeibo/internal/cashflow"
	"github.com/kakeibo-dev/kakeibo/internal/credit"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/metrics"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/pl"
	"github.com/kakeibo-dev/kakeibo/internal/position"
)

// PendingIncome is the total of income booked for dates after today.
func (s *Service) PendingIncome() (int64, error) {
	return view(s, func(b *model.Book, today day.Date) (int64, error) {
		total, _ := position.PendingIncome(b, today)
		return total, nil
	})
}

// HandBalance is the current-asset balance less pending income.
func (s *Service) HandBalance() (int64, error) {
	return view(s, func(b *model.Book, today day.Date) (int64, error) {
		return position.HandBalance(b, today), nil
	})
}

// CycleStart returns the first day of an account's current billing cycle.
func (s *Service) CycleStart(accountID int) (day.Date, error) {
	return view(s, func(b *model.Book, today day.Date) (day.Date, error) {
		a, ok := b.Account(accountID)
		if !ok {
			return day.Date{}, fmt.Errorf("account %d: %w", accountID, model.ErrAccountNotFound)
		}
		return credit.CycleStart(*a, today), nil
	})
}

// UnjournaledSpend returns the part of a revolving account's balance not yet
// itemized or explained by a matured fixed cost.
func (s *Service) UnjournaledSpend(accountID int) (int64, error) {
	return view(s, func(b *model.Book, today day.Date) (int64, error) {
		a, ok := b.Account(accountID)
		if !ok {
			return 0, fmt.Errorf("account %d: %w", accountID, model.ErrAccountNotFound)
		}
		return credit.UnjournaledSpend(b, *a, today), nil
	})
}

// ProjectCashflow projects money in hand over horizon months.
func (s *Service) ProjectCashflow(horizon int) (cashflow.Projection, error) {
	return view(s, func(b *model.Book, today day.Date) (cashflow.Projection, error) {
		defer metrics.ObserveEngine("cashflow", time.Now())
		return cashflow.Project(b, today, horizon), nil
	})
}

// ReplayCalendar traces money in hand through each day of month.
func (s *Service) ReplayCalendar(month day.Month) (calendar.Month, error) {
	return view(s, func(b *model.Book, today day.Date) (calendar.Month, error) {
		defer metrics.ObserveEngine("calendar", time.Now())
		return calendar.Replay(b, month, today), nil
	})
}

// MonthlyPL aggregates month's income and expense.
func (s *Service) MonthlyPL(month day.Month) (pl.Report, error) {
	return view(s, func(b *model.Book, today day.Date) (pl.Report, error) {
		defer metrics.ObserveEngine("pl", time.Now())
		return pl.MonthlyPL(b, month, today), nil
	})
}

// Summary returns the dashboard figures.
func (s *Service) Summary() (position.Summary, error) {
	return view(s, func(b *model.Book, today day.Date) (position.Summary, error) {
		return position.NewSummary(b, today), nil
	})
}

// BalanceSheet groups account balances by type and class.
func (s *Service) BalanceSheet() (position.BalanceSheet, error) {
	return view(s, func(b *model.Book, _ day.Date) (position.BalanceSheet, error) {
		return position.NewBalanceSheet(b), nil
	})
}

// Categories returns the category lists and known tags.
func (s *Service) Categories() (model.Categories, []string, error) {
	var tags []string
	cats, err := view(s, func(b *model.Book, _ day.Date) (model.Categories, error) {
		tags = b.Tags
		return b.Categories, nil
	})
	return cats, tags, err
}
