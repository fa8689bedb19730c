// Package journal reads and writes the transaction log as CSV.
package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Header is the CSV header for exported transactions.
const Header = "tx_id,date,kind,amount,account_id,from_account_id,to_account_id,category,tags,schedule,memo"

// TagSeparator joins tags inside the tags column.
const TagSeparator = ";"

const (
	numFields = 11
	colID     = 0
	colDate   = 1
	colKind   = 2
	colAmount = 3
	colAcctID = 4
	colFromID = 5
	colToID   = 6
	colCat    = 7
	colTags   = 8
	colSched  = 9
	colMemo   = 10
)

// ReadTransactions reads all transactions from a CSV reader. The first row
// must be the header.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return nil, fmt.Errorf("unexpected header %q", got)
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes transactions as CSV, header first.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = optionalID(tx.ID)
	row[colDate] = tx.Date.String()
	row[colKind] = string(tx.Kind)
	row[colAmount] = strconv.FormatInt(tx.Amount, 10)
	row[colAcctID] = optionalID(tx.AccountID)
	row[colFromID] = optionalID(tx.FromAccountID)
	row[colToID] = optionalID(tx.ToAccountID)
	row[colCat] = tx.Category
	row[colTags] = strings.Join(tx.Tags, TagSeparator)
	row[colSched] = tx.Schedule
	row[colMemo] = tx.Memo
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. The ID column
// may be empty for rows that have never been posted.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := day.Parse(record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date: %w", err)
	}
	kind := model.Kind(strings.TrimSpace(record[colKind]))
	if !kind.Valid() {
		return model.Transaction{}, fmt.Errorf("unknown kind %q", record[colKind])
	}
	amount, err := ledger.ParseAmount(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	tx := model.Transaction{
		Date:     date,
		Kind:     kind,
		Amount:   amount,
		Category: record[colCat],
		Tags:     splitTags(record[colTags]),
		Schedule: record[colSched],
		Memo:     record[colMemo],
	}
	for _, f := range []struct {
		col  int
		name string
		dst  *int
	}{
		{colID, "tx_id", &tx.ID},
		{colAcctID, "account_id", &tx.AccountID},
		{colFromID, "from_account_id", &tx.FromAccountID},
		{colToID, "to_account_id", &tx.ToAccountID},
	} {
		if *f.dst, err = parseOptionalID(record[f.col]); err != nil {
			return model.Transaction{}, fmt.Errorf("parsing %s %q: %w", f.name, record[f.col], err)
		}
	}
	return tx, nil
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, TagSeparator) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func optionalID(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseOptionalID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
