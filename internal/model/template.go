package model

import (
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/day"
)

// FixedCost is a monthly expense template. It never posts; projections place
// it on its day each month.
type FixedCost struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Amount    int64    `json:"amount"`
	Category  string   `json:"category"`
	Day       int      `json:"day"`
	AccountID int      `json:"accountId"`
	Tags      []string `json:"tags"`
}

// On returns the date the cost falls on in m, clamped to the month's length.
func (f FixedCost) On(m day.Month) day.Date { return m.Clamp(f.Day) }

func (f FixedCost) Validate() error {
	return validateTemplate(f.Name, f.Amount, f.Day, f.AccountID)
}

func (f FixedCost) Clone() FixedCost {
	f.Tags = slices.Clone(f.Tags)
	return f
}

// IncomeSchedule is a monthly income template.
type IncomeSchedule struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	Day       int    `json:"day"`
	AccountID int    `json:"accountId"`
}

// On returns the date the income arrives in m, clamped to the month's length.
func (s IncomeSchedule) On(m day.Month) day.Date { return m.Clamp(s.Day) }

func (s IncomeSchedule) Validate() error {
	return validateTemplate(s.Name, s.Amount, s.Day, s.AccountID)
}

func validateTemplate(name string, amount int64, d, accountID int) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be a positive integer"}
	}
	if d < 1 || d > 31 {
		return &ValidationError{Field: "day", Reason: "must be between 1 and 31"}
	}
	if accountID <= 0 {
		return &ValidationError{Field: "accountId", Reason: "required"}
	}
	return nil
}
