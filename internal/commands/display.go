package commands

import (
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
)

// moneyFormatter renders minor-unit amounts in the configured currency.
type moneyFormatter struct {
	currency string
}

func (m moneyFormatter) format(amount int64) string {
	return money.New(amount, m.code()).Display()
}

// signed always shows the sign, so inflows read as "+¥500".
func (m moneyFormatter) signed(amount int64) string {
	if amount > 0 {
		return "+" + m.format(amount)
	}
	return m.format(amount)
}

func (m moneyFormatter) code() string {
	if m.currency == "" {
		return money.JPY
	}
	return strings.ToUpper(m.currency)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
