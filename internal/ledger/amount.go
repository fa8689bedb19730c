package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ParseAmount parses a positive whole amount in minor units. Grouping
// commas and a leading yen sign are accepted: "1,200", "¥500".
func ParseAmount(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "¥")
	raw = strings.TrimSuffix(raw, "円")
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0, &model.ValidationError{Field: "amount", Reason: "required"}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &model.ValidationError{Field: "amount", Reason: "not a number: " + strconv.Quote(s)}
	}
	switch {
	case !d.IsInteger():
		return 0, &model.ValidationError{Field: "amount", Reason: "must be a whole number"}
	case !d.IsPositive():
		return 0, &model.ValidationError{Field: "amount", Reason: "must be positive"}
	case d.GreaterThan(maxAmount):
		return 0, &model.ValidationError{Field: "amount", Reason: "too large"}
	}
	return d.IntPart(), nil
}

// ParseDay parses a day of month between 1 and 31.
func ParseDay(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 31 {
		return 0, &model.ValidationError{Field: "day", Reason: "must be a number between 1 and 31"}
	}
	return n, nil
}
