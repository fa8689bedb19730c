// Package pl aggregates a month's income and expense by category.
package pl

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/accounts"
	"github.com/kakeibo-dev/kakeibo/internal/credit"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Tree nests category, then tag combination, then schedule label.
type Tree map[string]map[string]map[string]int64

func (t Tree) add(category, tags, schedule string, amount int64) {
	byTag, ok := t[category]
	if !ok {
		byTag = make(map[string]map[string]int64)
		t[category] = byTag
	}
	bySchedule, ok := byTag[tags]
	if !ok {
		bySchedule = make(map[string]int64)
		byTag[tags] = bySchedule
	}
	bySchedule[schedule] += amount
}

// Share is one expense category's part of total expense.
type Share struct {
	Category string          `json:"category"`
	Amount   int64           `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

// Report is the profit and loss of one month.
type Report struct {
	Month             day.Month        `json:"month"`
	IncomeByCategory  map[string]int64 `json:"incomeByCategory"`
	ExpenseByCategory map[string]int64 `json:"expenseByCategory"`
	IncomeDetail      Tree             `json:"incomeDetail"`
	ExpenseDetail     Tree             `json:"expenseDetail"`
	UnsortedCCSpend   int64            `json:"unsortedCcSpend"`
	TotalIncome       int64            `json:"totalIncome"`
	TotalExpense      int64            `json:"totalExpense"`
	Net               int64            `json:"net"`
	ExpenseShares     []Share          `json:"expenseShares"`
}

func (r *Report) expense(category string, tags []string, schedule string, amount int64) {
	category = fallback(category, model.CategoryMisc)
	r.ExpenseByCategory[category] += amount
	r.ExpenseDetail.add(category, tagKey(tags), fallback(schedule, model.PlaceholderNoSchedule), amount)
	r.TotalExpense += amount
}

func (r *Report) income(category string, tags []string, schedule string, amount int64) {
	category = fallback(category, model.CategoryMiscIncome)
	r.IncomeByCategory[category] += amount
	r.IncomeDetail.add(category, tagKey(tags), fallback(schedule, model.PlaceholderNoSchedule), amount)
	r.TotalIncome += amount
}

// MonthlyPL builds the P/L for month as seen from today.
//
// Card purchases recorded as plain expenses are left out; the card's spend
// is counted through its itemizations, its matured fixed costs and an
// unsorted remainder booked to miscellaneous expense, so nothing is
// counted twice.
func MonthlyPL(b *model.Book, month day.Month, today day.Date) Report {
	accts := accounts.NewService(b.Accounts)
	r := Report{
		Month:             month,
		IncomeByCategory:  map[string]int64{},
		ExpenseByCategory: map[string]int64{},
		IncomeDetail:      Tree{},
		ExpenseDetail:     Tree{},
		ExpenseShares:     []Share{},
	}

	for _, tx := range b.Transactions {
		if !month.Contains(tx.Date) {
			continue
		}
		switch tx.Kind {
		case model.KindCCDetail:
			r.expense(tx.Category, tx.Tags, tx.Schedule, tx.Amount)
		case model.KindExpense:
			if accts.IsRevolving(tx.AccountID) {
				continue
			}
			r.expense(tx.Category, tx.Tags, tx.Schedule, tx.Amount)
		case model.KindIncome:
			r.income(tx.Category, tx.Tags, tx.Schedule, tx.Amount)
		}
	}

	for _, a := range accts.Revolving() {
		for _, fc := range credit.Matured(b, a.ID, month, today) {
			r.expense(fc.Category, fc.Tags, model.LeafFixedCost, fc.Amount)
		}
		if u := unsorted(b, a, month, today); u > 0 {
			r.UnsortedCCSpend += u
		}
	}
	if r.UnsortedCCSpend > 0 {
		r.expense(model.CategoryMisc, nil, model.LeafUnsortedCC, r.UnsortedCCSpend)
	}

	r.Net = r.TotalIncome - r.TotalExpense
	r.ExpenseShares = shares(r.ExpenseByCategory, r.TotalExpense)
	return r
}

// unsorted is the card spend of month not itemized and not explained by a
// matured fixed cost. Today's month uses the live cycle figure.
func unsorted(b *model.Book, a model.Account, month day.Month, today day.Date) int64 {
	if month == today.MonthOf() {
		return credit.UnjournaledSpend(b, a, today)
	}
	var spent, itemized int64
	for _, tx := range b.Transactions {
		if tx.AccountID != a.ID || !month.Contains(tx.Date) {
			continue
		}
		switch tx.Kind {
		case model.KindExpense:
			spent += tx.Amount
		case model.KindCCDetail:
			itemized += tx.Amount
		}
	}
	return spent - itemized - credit.MaturedTotal(b, a.ID, month, today)
}

var hundred = decimal.NewFromInt(100)

func shares(byCategory map[string]int64, total int64) []Share {
	out := make([]Share, 0, len(byCategory))
	if total <= 0 {
		return out
	}
	for category, amount := range byCategory {
		pct := decimal.NewFromInt(amount).Mul(hundred).Div(decimal.NewFromInt(total)).Round(1)
		out = append(out, Share{Category: category, Amount: amount, Percent: pct})
	}
	slices.SortFunc(out, func(x, y Share) int {
		if c := cmp.Compare(y.Amount, x.Amount); c != 0 {
			return c
		}
		return strings.Compare(x.Category, y.Category)
	})
	return out
}

func tagKey(tags []string) string {
	var kept []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return model.PlaceholderNoTag
	}
	return strings.Join(kept, ", ")
}

func fallback(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
