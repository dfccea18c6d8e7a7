package views

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"2006",
}

// ParseYear extracts the year from a start-of-operation date.
func ParseYear(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}

	return 0, false
}

// Decade rounds a year down to a multiple of ten.
func Decade(year int) int {
	d := year / 10
	if year%10 < 0 {
		d--
	}

	return d * 10
}
