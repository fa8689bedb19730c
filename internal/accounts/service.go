package accounts

import (
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Service provides in-memory lookup over a book's accounts.
type Service struct {
	accounts []model.Account
	byID     map[int]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[int]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// Name returns the account's name, or "" for an unknown ID.
func (s *Service) Name(id int) string {
	return s.byID[id].Name
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// ByTypeClass returns all accounts of the given type and class.
func (s *Service) ByTypeClass(accountType model.AccountType, class model.AccountClass) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType && a.Class == class {
			result = append(result, a)
		}
	}
	return result
}

// Revolving returns the accounts that bill on a monthly cycle.
func (s *Service) Revolving() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.IsRevolving() {
			result = append(result, a)
		}
	}
	return result
}

// IsCurrentAsset reports whether id names a current-class asset account.
func (s *Service) IsCurrentAsset(id int) bool {
	a, ok := s.byID[id]
	return ok && a.IsCurrentAsset()
}

// IsRevolving reports whether id names a revolving account.
func (s *Service) IsRevolving(id int) bool {
	a, ok := s.byID[id]
	return ok && a.IsRevolving()
}

// Total sums the balances of the given type and class.
func (s *Service) Total(accountType model.AccountType, class model.AccountClass) int64 {
	var sum int64
	for _, a := range s.ByTypeClass(accountType, class) {
		sum += a.Balance
	}
	return sum
}
