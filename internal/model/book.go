package model

import "slices"

// Categories lists the category names offered for each side of the P/L.
type Categories struct {
	Expense []string `json:"expense"`
	Income  []string `json:"income"`
}

// Book is the whole persisted dataset. It is loaded, mutated and saved as a
// single unit.
type Book struct {
	Accounts       []Account        `json:"accounts"`
	Transactions   []Transaction    `json:"transactions"`
	FixedCosts     []FixedCost      `json:"fixedCosts"`
	IncomeSchedule []IncomeSchedule `json:"incomeSchedule"`
	Categories     Categories       `json:"categories"`
	Tags           []string         `json:"tags"`
}

// Account returns a pointer to the account with the given ID so the ledger
// can update its balance in place.
func (b *Book) Account(id int) (*Account, bool) {
	for i := range b.Accounts {
		if b.Accounts[i].ID == id {
			return &b.Accounts[i], true
		}
	}
	return nil, false
}

// AccountName returns the account's name, or "" if it does not exist.
func (b *Book) AccountName(id int) string {
	if a, ok := b.Account(id); ok {
		return a.Name
	}
	return ""
}

// TransactionIndex returns the slice index of a transaction, or -1.
func (b *Book) TransactionIndex(id int) int {
	return slices.IndexFunc(b.Transactions, func(t Transaction) bool { return t.ID == id })
}

// RegisterTags appends tags not yet known to the book's tag list.
func (b *Book) RegisterTags(tags []string) {
	for _, tag := range tags {
		if tag != "" && !slices.Contains(b.Tags, tag) {
			b.Tags = append(b.Tags, tag)
		}
	}
}

// Normalize fills in defaults for documents written by older versions:
// empty lists instead of null and current class for unclassified accounts.
func (b *Book) Normalize() {
	if b.Accounts == nil {
		b.Accounts = []Account{}
	}
	if b.Transactions == nil {
		b.Transactions = []Transaction{}
	}
	if b.FixedCosts == nil {
		b.FixedCosts = []FixedCost{}
	}
	if b.IncomeSchedule == nil {
		b.IncomeSchedule = []IncomeSchedule{}
	}
	if b.Categories.Expense == nil {
		b.Categories.Expense = []string{}
	}
	if b.Categories.Income == nil {
		b.Categories.Income = []string{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	for i := range b.Accounts {
		if b.Accounts[i].Class == "" {
			b.Accounts[i].Class = ClassCurrent
		}
	}
	for i := range b.Transactions {
		if b.Transactions[i].Tags == nil {
			b.Transactions[i].Tags = []string{}
		}
	}
	for i := range b.FixedCosts {
		if b.FixedCosts[i].Tags == nil {
			b.FixedCosts[i].Tags = []string{}
		}
	}
}

// Clone returns a deep copy of b.
func (b *Book) Clone() *Book {
	c := &Book{
		Accounts:       slices.Clone(b.Accounts),
		Transactions:   make([]Transaction, len(b.Transactions)),
		FixedCosts:     make([]FixedCost, len(b.FixedCosts)),
		IncomeSchedule: slices.Clone(b.IncomeSchedule),
		Categories: Categories{
			Expense: slices.Clone(b.Categories.Expense),
			Income:  slices.Clone(b.Categories.Income),
		},
		Tags: slices.Clone(b.Tags),
	}
	for i, t := range b.Transactions {
		c.Transactions[i] = t.Clone()
	}
	for i, f := range b.FixedCosts {
		c.FixedCosts[i] = f.Clone()
	}
	return c
}
