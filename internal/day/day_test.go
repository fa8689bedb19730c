package day

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, "2024-02-29", d.String())

	_, err = Parse("2023-02-29")
	assert.Error(t, err)
	_, err = Parse("not-a-date")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	a := MustParse("2024-05-26")
	b := MustParse("2024-05-27")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(MustParse("2024-05-26")))
	assert.True(t, a.Between(a, b))
	assert.False(t, MustParse("2024-06-01").Between(a, b))
}

func TestAdd(t *testing.T) {
	assert.Equal(t, "2024-03-01", MustParse("2024-02-29").Add(1).String())
	assert.Equal(t, "2023-12-31", MustParse("2024-01-01").Add(-1).String())
}

func TestMonthDays(t *testing.T) {
	tests := []struct {
		month string
		want  int
	}{
		{"2024-02", 29},
		{"2023-02", 28},
		{"2100-02", 28},
		{"2000-02", 29},
		{"2024-04", 30},
		{"2024-12", 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MustParseMonth(tt.month).Days(), tt.month)
	}
}

func TestMonthAdd(t *testing.T) {
	m := MustParseMonth("2024-11")
	assert.Equal(t, "2024-12", m.Add(1).String())
	assert.Equal(t, "2025-01", m.Add(2).String())
	assert.Equal(t, "2023-12", MustParseMonth("2024-01").Add(-1).String())
}

func TestMonthClamp(t *testing.T) {
	assert.Equal(t, "2024-02-29", MustParseMonth("2024-02").Clamp(31).String())
	assert.Equal(t, "2023-02-28", MustParseMonth("2023-02").Clamp(30).String())
	assert.Equal(t, "2024-04-30", MustParseMonth("2024-04").Clamp(31).String())
	assert.Equal(t, "2024-05-27", MustParseMonth("2024-05").Clamp(27).String())
}

func TestMonthCompareContains(t *testing.T) {
	m := MustParseMonth("2024-05")
	assert.Equal(t, -1, m.Compare(MustParseMonth("2024-06")))
	assert.Equal(t, 1, m.Compare(MustParseMonth("2023-12")))
	assert.True(t, m.Contains(MustParse("2024-05-31")))
	assert.False(t, m.Contains(MustParse("2024-06-01")))
	assert.Equal(t, m, MustParse("2024-05-10").MonthOf())
}

func TestJSON(t *testing.T) {
	type doc struct {
		Date  Date  `json:"date"`
		Month Month `json:"month"`
	}
	in := doc{Date: MustParse("2024-05-27"), Month: MustParseMonth("2024-05")}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-27","month":"2024-05"}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"27/05/2024"}`), &out))
}
