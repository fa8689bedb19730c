package service

import (
	"fmt"
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// FixedCosts lists the fixed-cost templates.
func (s *Service) FixedCosts() ([]model.FixedCost, error) {
	return view(s, func(b *model.Book, _ day.Date) ([]model.FixedCost, error) {
		out := make([]model.FixedCost, len(b.FixedCosts))
		for i, fc := range b.FixedCosts {
			out[i] = fc.Clone()
		}
		return out, nil
	})
}

func (s *Service) AddFixedCost(fc model.FixedCost) (model.FixedCost, error) {
	created, err := update(s, func(b *model.Book, _ day.Date) (model.FixedCost, error) {
		return ledger.AddFixedCost(b, fc)
	})
	if err != nil {
		return model.FixedCost{}, fmt.Errorf("adding fixed cost: %w", err)
	}
	s.logger.Info().Int("fixedCost", created.ID).Str("name", created.Name).Int64("amount", created.Amount).Msg("fixed cost added")
	return created, nil
}

func (s *Service) UpdateFixedCost(id int, upd ledger.FixedCostUpdate) (model.FixedCost, error) {
	updated, err := update(s, func(b *model.Book, _ day.Date) (model.FixedCost, error) {
		return ledger.UpdateFixedCost(b, id, upd)
	})
	if err != nil {
		return model.FixedCost{}, fmt.Errorf("updating fixed cost %d: %w", id, err)
	}
	s.logger.Info().Int("fixedCost", id).Msg("fixed cost updated")
	return updated, nil
}

func (s *Service) DeleteFixedCost(id int) error {
	if _, err := update(s, func(b *model.Book, _ day.Date) (struct{}, error) {
		return struct{}{}, ledger.DeleteFixedCost(b, id)
	}); err != nil {
		return fmt.Errorf("deleting fixed cost %d: %w", id, err)
	}
	s.logger.Info().Int("fixedCost", id).Msg("fixed cost deleted")
	return nil
}

// IncomeSchedule lists the scheduled-income templates.
func (s *Service) IncomeSchedule() ([]model.IncomeSchedule, error) {
	return view(s, func(b *model.Book, _ day.Date) ([]model.IncomeSchedule, error) {
		return slices.Clone(b.IncomeSchedule), nil
	})
}

func (s *Service) AddIncome(inc model.IncomeSchedule) (model.IncomeSchedule, error) {
	created, err := update(s, func(b *model.Book, _ day.Date) (model.IncomeSchedule, error) {
		return ledger.AddIncome(b, inc)
	})
	if err != nil {
		return model.IncomeSchedule{}, fmt.Errorf("adding income: %w", err)
	}
	s.logger.Info().Int("income", created.ID).Str("name", created.Name).Int64("amount", created.Amount).Msg("income added")
	return created, nil
}

func (s *Service) UpdateIncome(id int, upd ledger.IncomeUpdate) (model.IncomeSchedule, error) {
	updated, err := update(s, func(b *model.Book, _ day.Date) (model.IncomeSchedule, error) {
		return ledger.UpdateIncome(b, id, upd)
	})
	if err != nil {
		return model.IncomeSchedule{}, fmt.Errorf("updating income %d: %w", id, err)
	}
	s.logger.Info().Int("income", id).Msg("income updated")
	return updated, nil
}

func (s *Service) DeleteIncome(id int) error {
	if _, err := update(s, func(b *model.Book, _ day.Date) (struct{}, error) {
		return struct{}{}, ledger.DeleteIncome(b, id)
	}); err != nil {
		return fmt.Errorf("deleting income %d: %w", id, err)
	}
	s.logger.Info().Int("income", id).Msg("income deleted")
	return nil
}
