package core

// convert.go provides best-effort coercion of CSV cell text into order fields.
//
// Import never rejects a row: every helper reports ok=false instead of an
// error and the caller substitutes a default.

import (
	"strings"
	"time"
)

// DefaultDateTimeLayout renders timestamps in the dashboard and in exports.
const DefaultDateTimeLayout = "1/2/2006, 3:04:05 PM"

// Timestamp layouts accepted on import, tried in order. Zone-less layouts are
// read in the import location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		DefaultDateTimeLayout,
		"1/2/2006, 15:04:05",
		"02.01.2006, 15:04:05",
		"1/2/2006 15:04",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "02.01.2006",
		"Jan 2, 2006", "2 Jan 2006",
	}
)

// ParseTimestamp reads a timestamp in any accepted layout.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseItems reads the leading integer of s, the way a lenient parseInt does:
// "12", " 12 ", "12 pcs" and "12.9" all give 12. Negative or missing counts
// report ok=false.
func ParseItems(s string) (int, bool) {
	s = strings.TrimSpace(CleanCell(s))
	if s == "" {
		return 0, false
	}
	if s[0] == '+' {
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if n > 1<<31 {
			return 0, false
		}
	}
	if digits == 0 {
		return 0, false
	}
	return n, true
}

// CleanCell trims whitespace and strips a spreadsheet formula wrapper (="...")
// that some tools emit to keep leading zeros.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		return s[2 : len(s)-1]
	}
	return s
}
