// Package clock provides the "now" used by the ledger so that projections
// can be computed against a pinned day in tests and on the command line.
package clock

import (
	"time"

	"github.com/kakeibo-dev/kakeibo/internal/day"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns T.
type Fixed struct {
	T time.Time
}

func (c Fixed) Now() time.Time { return c.T }

// At returns a Fixed clock at midnight local time on d.
func At(d day.Date) Fixed {
	return Fixed{T: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)}
}

// Today returns the calendar day of c.Now().
func Today(c Clock) day.Date {
	return day.FromTime(c.Now())
}
