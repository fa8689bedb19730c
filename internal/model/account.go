package model

// AccountType says which side of the balance sheet an account sits on.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
)

// AccountClass separates liquid accounts from long-term holdings.
type AccountClass string

const (
	ClassCurrent AccountClass = "current"
	ClassLong    AccountClass = "long"
)

// Account is a balance-carrying account. Balance is the fold of every
// posted transaction and is only ever changed by the ledger.
type Account struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	Type             AccountType  `json:"type"`
	Class            AccountClass `json:"class"`
	Balance          int64        `json:"balance"`
	PayDay           int          `json:"payDay,omitempty"`           // liability+current only
	PayFromAccountID int          `json:"payFromAccountId,omitempty"` // liability+current only
}

func (a Account) IsAsset() bool     { return a.Type == AccountTypeAsset }
func (a Account) IsLiability() bool { return a.Type == AccountTypeLiability }
func (a Account) IsCurrent() bool   { return a.Class == ClassCurrent }

// IsCurrentAsset reports whether the account counts toward money in hand.
func (a Account) IsCurrentAsset() bool { return a.IsAsset() && a.IsCurrent() }

// IsRevolving reports whether the account bills on a monthly cycle, like a
// credit card.
func (a Account) IsRevolving() bool {
	return a.IsLiability() && a.IsCurrent() && a.PayDay > 0
}

// Validate checks the fields an account needs to take part in posting.
func (a Account) Validate() error {
	if a.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	switch a.Type {
	case AccountTypeAsset, AccountTypeLiability:
	default:
		return &ValidationError{Field: "type", Reason: "must be asset or liability"}
	}
	switch a.Class {
	case ClassCurrent, ClassLong:
	default:
		return &ValidationError{Field: "class", Reason: "must be current or long"}
	}
	if a.PayDay < 0 || a.PayDay > 31 {
		return &ValidationError{Field: "payDay", Reason: "must be between 1 and 31"}
	}
	if (a.PayDay != 0 || a.PayFromAccountID != 0) && !(a.IsLiability() && a.IsCurrent()) {
		return &ValidationError{Field: "payDay", Reason: "only current liabilities have a billing day"}
	}
	return nil
}
