package ledger

import (
	"fmt"
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// FixedCostUpdate carries the fixed-cost fields to change.
type FixedCostUpdate struct {
	Name      *string   `json:"name,omitempty"`
	Amount    *int64    `json:"amount,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Day       *int      `json:"day,omitempty"`
	AccountID *int      `json:"accountId,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
}

// IncomeUpdate carries the income-schedule fields to change.
type IncomeUpdate struct {
	Name      *string `json:"name,omitempty"`
	Amount    *int64  `json:"amount,omitempty"`
	Day       *int    `json:"day,omitempty"`
	AccountID *int    `json:"accountId,omitempty"`
}

// AddFixedCost validates and appends a fixed-cost template.
func AddFixedCost(b *model.Book, fc model.FixedCost) (model.FixedCost, error) {
	if fc.Category == "" {
		fc.Category = model.CategoryMisc
	}
	if fc.Tags == nil {
		fc.Tags = []string{}
	}
	if err := checkTemplate(b, fc, fc.AccountID); err != nil {
		return model.FixedCost{}, err
	}
	fc.ID = id.Next(b.FixedCosts, func(f model.FixedCost) int { return f.ID })
	b.FixedCosts = append(b.FixedCosts, fc)
	b.RegisterTags(fc.Tags)
	return fc.Clone(), nil
}

// UpdateFixedCost applies upd to the fixed cost with the given ID.
func UpdateFixedCost(b *model.Book, fcID int, upd FixedCostUpdate) (model.FixedCost, error) {
	i := slices.IndexFunc(b.FixedCosts, func(f model.FixedCost) bool { return f.ID == fcID })
	if i < 0 {
		return model.FixedCost{}, fmt.Errorf("fixed cost %d: %w", fcID, model.ErrTemplateNotFound)
	}
	fc := b.FixedCosts[i].Clone()
	if upd.Name != nil {
		fc.Name = *upd.Name
	}
	if upd.Amount != nil {
		fc.Amount = *upd.Amount
	}
	if upd.Category != nil {
		fc.Category = *upd.Category
	}
	if upd.Day != nil {
		fc.Day = *upd.Day
	}
	if upd.AccountID != nil {
		fc.AccountID = *upd.AccountID
	}
	if upd.Tags != nil {
		fc.Tags = slices.Clone(*upd.Tags)
	}
	if err := checkTemplate(b, fc, fc.AccountID); err != nil {
		return model.FixedCost{}, err
	}
	b.FixedCosts[i] = fc
	b.RegisterTags(fc.Tags)
	return fc.Clone(), nil
}

// DeleteFixedCost removes a fixed-cost template.
func DeleteFixedCost(b *model.Book, fcID int) error {
	n := len(b.FixedCosts)
	b.FixedCosts = slices.DeleteFunc(b.FixedCosts, func(f model.FixedCost) bool { return f.ID == fcID })
	if len(b.FixedCosts) == n {
		return fmt.Errorf("fixed cost %d: %w", fcID, model.ErrTemplateNotFound)
	}
	return nil
}

// AddIncome validates and appends an income-schedule template.
func AddIncome(b *model.Book, s model.IncomeSchedule) (model.IncomeSchedule, error) {
	if err := checkTemplate(b, s, s.AccountID); err != nil {
		return model.IncomeSchedule{}, err
	}
	s.ID = id.Next(b.IncomeSchedule, func(x model.IncomeSchedule) int { return x.ID })
	b.IncomeSchedule = append(b.IncomeSchedule, s)
	return s, nil
}

// UpdateIncome applies upd to the income schedule with the given ID.
func UpdateIncome(b *model.Book, incomeID int, upd IncomeUpdate) (model.IncomeSchedule, error) {
	i := slices.IndexFunc(b.IncomeSchedule, func(x model.IncomeSchedule) bool { return x.ID == incomeID })
	if i < 0 {
		return model.IncomeSchedule{}, fmt.Errorf("income schedule %d: %w", incomeID, model.ErrTemplateNotFound)
	}
	s := b.IncomeSchedule[i]
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Amount != nil {
		s.Amount = *upd.Amount
	}
	if upd.Day != nil {
		s.Day = *upd.Day
	}
	if upd.AccountID != nil {
		s.AccountID = *upd.AccountID
	}
	if err := checkTemplate(b, s, s.AccountID); err != nil {
		return model.IncomeSchedule{}, err
	}
	b.IncomeSchedule[i] = s
	return s, nil
}

// DeleteIncome removes an income-schedule template.
func DeleteIncome(b *model.Book, incomeID int) error {
	n := len(b.IncomeSchedule)
	b.IncomeSchedule = slices.DeleteFunc(b.IncomeSchedule, func(x model.IncomeSchedule) bool { return x.ID == incomeID })
	if len(b.IncomeSchedule) == n {
		return fmt.Errorf("income schedule %d: %w", incomeID, model.ErrTemplateNotFound)
	}
	return nil
}

func checkTemplate(b *model.Book, t interface{ Validate() error }, accountID int) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, ok := b.Account(accountID); !ok {
		return fmt.Errorf("account %d: %w", accountID, model.ErrAccountNotFound)
	}
	return nil
}
