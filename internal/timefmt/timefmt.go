// Package timefmt renders feed timestamps for display. Nothing here returns
// an error: unparsable input degrades to a fallback string.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// layouts are tried in order. The Python isoformat variants cover payloads
// produced with and without a zone offset.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// Parse tries every known layout. Timestamps without a zone are read as UTC.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime returns a relative age for recent timestamps and a short date
// otherwise:
//
//	age < 1h   "Just now" (also for timestamps in the future)
//	age < 24h  "5h ago"
//	otherwise  "Jan 2", or "Jan 2, 2006" outside the current year
//
// Unparsable input is returned unchanged.
func FormatTime(raw string, now time.Time) string {
	t, ok := Parse(raw)
	if !ok {
		return fallback(raw)
	}

	age := now.Sub(t)
	switch {
	case age < time.Hour:
		return "Just now"
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	}

	local := t.In(now.Location())
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006")
	}
	return local.Format("Jan 2")
}

// FormatDate renders the full short date ("Jan 2, 2006").
func FormatDate(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return fallback(raw)
	}
	return t.Format("Jan 2, 2006")
}

func fallback(raw string) string {
	return strings.TrimSpace(raw)
}
