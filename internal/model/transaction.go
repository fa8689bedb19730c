package model

import (
	"slices"

	"github.com/kakeibo-dev/kakeibo/internal/day"
)

// Kind discriminates the four transaction shapes.
type Kind string

const (
	KindExpense  Kind = "expense"
	KindIncome   Kind = "income"
	KindTransfer Kind = "transfer"
	// KindCCDetail itemizes spend already carried by a revolving account's
	// balance. It never moves a balance.
	KindCCDetail Kind = "cc_detail"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindExpense, KindIncome, KindTransfer, KindCCDetail:
		return true
	}
	return false
}

// Role is the part an account plays in a transaction.
type Role string

const (
	RolePrimary Role = "primary"
	RoleFrom    Role = "from"
	RoleTo      Role = "to"
)

// Leg pairs an account with the role it plays in a transaction.
type Leg struct {
	Role      Role
	AccountID int
}

// Transaction is one entry in the log. Which account fields are set depends
// on Kind: transfers use FromAccountID and ToAccountID, every other kind uses
// AccountID.
type Transaction struct {
	ID            int      `json:"id"`
	Date          day.Date `json:"date"`
	Amount        int64    `json:"amount"`
	Kind          Kind     `json:"kind"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Schedule      string   `json:"schedule,omitempty"`
	Memo          string   `json:"memo,omitempty"`
	AccountID     int      `json:"accountId,omitempty"`
	FromAccountID int      `json:"fromAccountId,omitempty"`
	ToAccountID   int      `json:"toAccountId,omitempty"`
}

// Legs returns the accounts the transaction references.
func (t Transaction) Legs() []Leg {
	if t.Kind == KindTransfer {
		return []Leg{
			{Role: RoleFrom, AccountID: t.FromAccountID},
			{Role: RoleTo, AccountID: t.ToAccountID},
		}
	}
	return []Leg{{Role: RolePrimary, AccountID: t.AccountID}}
}

// References reports whether any leg of t points at accountID.
func (t Transaction) References(accountID int) bool {
	for _, l := range t.Legs() {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}

// Signed returns the amount as seen from the spending side: expense and
// cc_detail are negative, income is positive, transfers are zero.
func (t Transaction) Signed() int64 {
	switch t.Kind {
	case KindExpense, KindCCDetail:
		return -t.Amount
	case KindIncome:
		return t.Amount
	}
	return 0
}

// Validate rejects a transaction whose fields do not fit its kind.
func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: "must be expense, income, transfer or cc_detail"}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if t.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be a positive integer"}
	}
	if t.Kind == KindTransfer {
		if t.AccountID != 0 {
			return &ValidationError{Field: "accountId", Reason: "not used by transfers"}
		}
		if t.FromAccountID <= 0 {
			return &ValidationError{Field: "fromAccountId", Reason: "required"}
		}
		if t.ToAccountID <= 0 {
			return &ValidationError{Field: "toAccountId", Reason: "required"}
		}
		if t.FromAccountID == t.ToAccountID {
			return &ValidationError{Field: "toAccountId", Reason: "must differ from fromAccountId"}
		}
		return nil
	}
	if t.FromAccountID != 0 || t.ToAccountID != 0 {
		return &ValidationError{Field: "fromAccountId", Reason: "only used by transfers"}
	}
	if t.AccountID <= 0 {
		return &ValidationError{Field: "accountId", Reason: "required"}
	}
	return nil
}

// Clone returns a copy of t that shares no slices with it.
func (t Transaction) Clone() Transaction {
	t.Tags = slices.Clone(t.Tags)
	return t
}
