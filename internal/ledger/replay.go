package ledger

import (
	"fmt"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Mismatch is an account whose cached balance differs from its replay.
type Mismatch struct {
	AccountID int    `json:"accountId"`
	Name      string `json:"name"`
	Cached    int64  `json:"cached"`
	Replayed  int64  `json:"replayed"`
}

// Replay folds every transaction, in log order, over zeroed balances and
// returns the resulting balance per account.
func Replay(b *model.Book) (map[int]int64, error) {
	scratch := b.Clone()
	for i := range scratch.Accounts {
		scratch.Accounts[i].Balance = 0
	}
	for _, tx := range scratch.Transactions {
		if err := Post(scratch, tx, Apply); err != nil {
			return nil, fmt.Errorf("replaying transaction %d: %w", tx.ID, err)
		}
	}
	balances := make(map[int]int64, len(scratch.Accounts))
	for _, a := range scratch.Accounts {
		balances[a.ID] = a.Balance
	}
	return balances, nil
}

// Verify reports every account whose cached balance is not the replay of
// its history. An empty result means the book is consistent.
func Verify(b *model.Book) ([]Mismatch, error) {
	replayed, err := Replay(b)
	if err != nil {
		return nil, err
	}
	var out []Mismatch
	for _, a := range b.Accounts {
		if r := replayed[a.ID]; r != a.Balance {
			out = append(out, Mismatch{AccountID: a.ID, Name: a.Name, Cached: a.Balance, Replayed: r})
		}
	}
	return out, nil
}
