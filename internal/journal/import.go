package journal

import (
	"fmt"

	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Import posts txs to b in order as new transactions and returns them with
// their assigned IDs. IDs in the input are ignored. The first failure stops
// the import; b then holds the rows posted so far, so callers run Import
// inside a repository update that discards the book on error.
func Import(b *model.Book, txs []model.Transaction) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(txs))
	for i, tx := range txs {
		tx.ID = 0
		created, err := ledger.CreateTransaction(b, tx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, created)
	}
	return out, nil
}
