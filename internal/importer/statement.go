package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/day"
)

// BankParser parses bank account statements: 日付,摘要,金額 with a signed
// amount.
type BankParser struct{}

// CardParser parses card statements: 利用日,利用店名,利用金額. Card
// statements list purchases as positive amounts and refunds as negative.
type CardParser struct{}

const (
	statementNumFields = 3
	colDate            = 0
	colDesc            = 1
	colAmount          = 2
)

var dateLayouts = []string{"2006/01/02", "2006-01-02", "2006/1/2"}

func (p *BankParser) Format() string { return "bank" }

func (p *BankParser) Parse(r io.Reader) ([]Line, error) {
	return parseStatement(r, "bank", false)
}

func (p *CardParser) Format() string { return "card" }

func (p *CardParser) Parse(r io.Reader) ([]Line, error) {
	return parseStatement(r, "card", true)
}

// parseStatement reads a three-column statement after its header row.
// spendPositive flips the sign so that spending is always negative.
func parseStatement(r io.Reader, format string, spendPositive bool) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = statementNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", format, err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var lines []Line
	for i, rec := range records[1:] {
		line, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if spendPositive {
			line.Amount = line.Amount.Neg()
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func parseRow(rec []string) (Line, error) {
	date, err := parseDate(rec[colDate])
	if err != nil {
		return Line{}, err
	}

	raw := strings.NewReplacer(",", "", "¥", "", "円", "").Replace(strings.TrimSpace(rec[colAmount]))
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Line{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}

	return Line{
		Date:        date,
		Description: strings.TrimSpace(rec[colDesc]),
		Amount:      amount,
	}, nil
}

func parseDate(s string) (day.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day.FromTime(t), nil
		}
	}
	return day.Date{}, fmt.Errorf("parsing date %q", s)
}
