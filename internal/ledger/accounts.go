package ledger

import (
	"fmt"
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// AccountUpdate carries the account fields to change. Nil fields are left
// as they are.
type AccountUpdate struct {
	Name             *string             `json:"name,omitempty"`
	Type             *model.AccountType  `json:"type,omitempty"`
	Class            *model.AccountClass `json:"class,omitempty"`
	Balance          *int64              `json:"balance,omitempty"`
	PayDay           *int                `json:"payDay,omitempty"`
	PayFromAccountID *int                `json:"payFromAccountId,omitempty"`
}

// AddAccount appends a new account. A non-zero opening balance is booked
// through AdjustBalance so the account still replays from zero. The book is
// only changed once both steps succeed.
func AddAccount(b *model.Book, acct model.Account, today day.Date) (model.Account, *model.Transaction, error) {
	if acct.Class == "" {
		acct.Class = model.ClassCurrent
	}
	opening := acct.Balance
	acct.Balance = 0
	if err := validateAccount(b, acct); err != nil {
		return model.Account{}, nil, err
	}

	next := b.Clone()
	acct.ID = id.Next(next.Accounts, func(a model.Account) int { return a.ID })
	next.Accounts = append(next.Accounts, acct)
	adj, err := AdjustBalance(next, acct.ID, opening, today)
	if err != nil {
		return model.Account{}, nil, err
	}
	*b = *next

	created, _ := b.Account(acct.ID)
	return *created, adj, nil
}

// UpdateAccount changes account fields. A balance change is booked through
// AdjustBalance, and a refused adjustment leaves the fields unchanged too.
// Changing the type of an account with history is refused because the
// history would replay differently.
func UpdateAccount(b *model.Book, accountID int, upd AccountUpdate, today day.Date) (model.Account, *model.Transaction, error) {
	acct, ok := b.Account(accountID)
	if !ok {
		return model.Account{}, nil, fmt.Errorf("account %d: %w", accountID, model.ErrAccountNotFound)
	}
	next := *acct
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Type != nil {
		next.Type = *upd.Type
	}
	if upd.Class != nil {
		next.Class = *upd.Class
	}
	if upd.PayDay != nil {
		next.PayDay = *upd.PayDay
	}
	if upd.PayFromAccountID != nil {
		next.PayFromAccountID = *upd.PayFromAccountID
	}
	if !(next.IsLiability() && next.IsCurrent()) {
		next.PayDay = 0
		next.PayFromAccountID = 0
	}

	if next.Type != acct.Type && referencedByTransactions(b, accountID) {
		return model.Account{}, nil, &model.ConflictError{
			Resource: "account", ID: accountID,
			Reason: "type cannot change while transactions reference the account",
		}
	}
	if err := validateAccount(b, next); err != nil {
		return model.Account{}, nil, err
	}

	staged := b.Clone()
	target, _ := staged.Account(accountID)
	*target = next

	var adj *model.Transaction
	if upd.Balance != nil {
		var err error
		adj, err = AdjustBalance(staged, accountID, *upd.Balance, today)
		if err != nil {
			return model.Account{}, nil, err
		}
	}
	*b = *staged

	updated, _ := b.Account(accountID)
	return *updated, adj, nil
}

// DeleteAccount removes an account nothing refers to. References are never
// cascaded.
func DeleteAccount(b *model.Book, accountID int) error {
	if _, ok := b.Account(accountID); !ok {
		return fmt.Errorf("account %d: %w", accountID, model.ErrAccountNotFound)
	}
	conflict := func(reason string) error {
		return &model.ConflictError{Resource: "account", ID: accountID, Reason: reason}
	}
	if referencedByTransactions(b, accountID) {
		return conflict("referenced by transactions")
	}
	for _, f := range b.FixedCosts {
		if f.AccountID == accountID {
			return conflict(fmt.Sprintf("referenced by fixed cost %d", f.ID))
		}
	}
	for _, s := range b.IncomeSchedule {
		if s.AccountID == accountID {
			return conflict(fmt.Sprintf("referenced by income schedule %d", s.ID))
		}
	}
	for _, a := range b.Accounts {
		if a.ID != accountID && a.PayFromAccountID == accountID {
			return conflict(fmt.Sprintf("pays account %d", a.ID))
		}
	}
	b.Accounts = slices.DeleteFunc(b.Accounts, func(a model.Account) bool { return a.ID == accountID })
	return nil
}

// SeedAccounts replaces the chart of an empty book with accts, keeping
// their IDs. Opening balances are booked through AdjustBalance so the book
// still replays from zero.
func SeedAccounts(b *model.Book, accts []model.Account, today day.Date) error {
	if len(b.Transactions) > 0 {
		return &model.ConflictError{Resource: "book", Reason: "accounts can only be seeded before any transaction"}
	}
	if len(accts) == 0 {
		return &model.ValidationError{Field: "accounts", Reason: "at least one account is required"}
	}

	chart := make([]model.Account, 0, len(accts))
	seen := make(map[int]bool, len(accts))
	for _, a := range accts {
		if a.ID <= 0 || seen[a.ID] {
			return &model.ValidationError{Field: "id", Reason: fmt.Sprintf("account IDs must be positive and unique, got %d", a.ID)}
		}
		seen[a.ID] = true
		if a.Class == "" {
			a.Class = model.ClassCurrent
		}
		a.Balance = 0
		chart = append(chart, a)
	}

	next := b.Clone()
	next.Accounts = chart
	for _, a := range chart {
		if err := validateAccount(next, a); err != nil {
			return fmt.Errorf("account %d: %w", a.ID, err)
		}
	}
	for _, a := range accts {
		if _, err := AdjustBalance(next, a.ID, a.Balance, today); err != nil {
			return fmt.Errorf("account %d opening balance: %w", a.ID, err)
		}
	}
	*b = *next
	return nil
}

func validateAccount(b *model.Book, acct model.Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	if acct.PayFromAccountID != 0 {
		from, ok := b.Account(acct.PayFromAccountID)
		if !ok {
			return fmt.Errorf("pay-from account %d: %w", acct.PayFromAccountID, model.ErrAccountNotFound)
		}
		if !from.IsAsset() {
			return &model.ValidationError{Field: "payFromAccountId", Reason: "must be an asset account"}
		}
	}
	return nil
}

func referencedByTransactions(b *model.Book, accountID int) bool {
	return slices.ContainsFunc(b.Transactions, func(t model.Transaction) bool { return t.References(accountID) })
}
