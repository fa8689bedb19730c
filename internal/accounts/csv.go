package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

const (
	numFields  = 7
	colID      = 0
	colName    = 1
	colType    = 2
	colClass   = 3
	colBalance = 4
	colPayDay  = 5
	colPayFrom = 6
)

var header = []string{"account_id", "name", "type", "class", "balance", "pay_day", "pay_from_account_id"}

// ReadAccounts reads an accounts CSV with a header row.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts as CSV, header first.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(acct.ID)
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colClass] = string(acct.Class)
	row[colBalance] = strconv.FormatInt(acct.Balance, 10)
	if acct.PayDay != 0 {
		row[colPayDay] = strconv.Itoa(acct.PayDay)
	}
	if acct.PayFromAccountID != 0 {
		row[colPayFrom] = strconv.Itoa(acct.PayFromAccountID)
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_id %q: %w", record[colID], err)
	}

	balance, err := strconv.ParseInt(record[colBalance], 10, 64)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	var payDay, payFrom int
	if record[colPayDay] != "" {
		payDay, err = strconv.Atoi(record[colPayDay])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing pay_day %q: %w", record[colPayDay], err)
		}
	}
	if record[colPayFrom] != "" {
		payFrom, err = strconv.Atoi(record[colPayFrom])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing pay_from_account_id %q: %w", record[colPayFrom], err)
		}
	}

	return model.Account{
		ID:               id,
		Name:             record[colName],
		Type:             model.AccountType(record[colType]),
		Class:            model.AccountClass(record[colClass]),
		Balance:          balance,
		PayDay:           payDay,
		PayFromAccountID: payFrom,
	}, nil
}
