package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Next returns the next free ID for a collection: one past the largest ID
// in use, or 1 when the collection is empty.
func Next[T any](items []T, idOf func(T) int) int {
	highest := 0
	for _, it := range items {
		if v := idOf(it); v > highest {
			highest = v
		}
	}
	return highest + 1
}

// Parse parses a positive integer ID such as "42" or "#42".
func Parse(s string) (int, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if raw == "" {
		return 0, fmt.Errorf("invalid ID: %q", s)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be positive", s)
	}
	return n, nil
}

// Format renders an ID for display: 7 -> "#7".
func Format(n int) string {
	return "#" + strconv.Itoa(n)
}
