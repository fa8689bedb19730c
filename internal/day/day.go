// Package day provides calendar dates and months with day granularity.
package day

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format is the ISO-8601 layout used for dates.
const Format = "2006-01-02"

// MonthFormat is the layout used for month keys.
const MonthFormat = "2006-01"

// Date is a calendar day without time or zone.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date. Out of range days roll over like time.Date.
func New(year int, month time.Month, d int) Date {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

// FromTime returns the calendar day of t in t's location.
func FromTime(t time.Time) Date {
	return New(t.Date())
}

// Parse parses a date in "2006-01-02" form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Format, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) Year() int { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int { return d.d }
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }
func (d Date) String() string { return d.time().Format(Format) }
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// MonthOf returns the month containing d.
func (d Date) MonthOf() Month { return Month{Year: d.y, Month: d.m} }

// Add returns d shifted by n days.
func (d Date) Add(n int) Date { return New(d.y, d.m, d.d+n) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmp(d.y, x.y)
	case d.m != x.m:
		return cmp(int(d.m), int(x.m))
	default:
		return cmp(d.d, x.d)
	}
}

// Between reports whether from <= d <= to.
func (d Date) Between(from, to Date) bool {
	return d.Compare(from) >= 0 && d.Compare(to) <= 0
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a month in "2006-01" form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthFormat, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err.Error())
	}
	return m
}

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// First returns day 1 of the month.
func (m Month) First() Date { return New(m.Year, m.Month, 1) }

// Last returns the last day of the month.
func (m Month) Last() Date { return New(m.Year, m.Month+1, 0) }

// Days returns the number of days in the month.
func (m Month) Days() int { return m.Last().Day() }

// Add returns m shifted by n months.
func (m Month) Add(n int) Month {
	d := New(m.Year, m.Month+time.Month(n), 1)
	return d.MonthOf()
}

// Compare returns -1, 0 or +1.
func (m Month) Compare(x Month) int {
	if m.Year != x.Year {
		return cmp(m.Year, x.Year)
	}
	return cmp(int(m.Month), int(x.Month))
}

// Contains reports whether d falls in m.
func (m Month) Contains(d Date) bool {
	return d.y == m.Year && d.m == m.Month
}

// Clamp returns the date of day in m, pulled back to the last day when the
// month is shorter (day 31 in February is the 28th or 29th).
func (m Month) Clamp(d int) Date {
	if d < 1 {
		d = 1
	}
	if n := m.Days(); d > n {
		d = n
	}
	return New(m.Year, m.Month, d)
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
