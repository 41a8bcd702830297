// Package dateutil provides calendar-day helpers. Days are represented as
// time.Time values at midnight UTC.
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted from users and files.
const (
	LayoutISO    = "2006-01-02"
	LayoutBR     = "02/01/2006"
	LayoutBRDash = "02-01-2006"
	LayoutBRYY   = "02/01/06"
)

var layouts = []string{LayoutISO, LayoutBR, LayoutBRDash, LayoutBRYY, time.RFC3339}

// Day truncates t to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in the local time zone.
func Today() time.Time {
	return Day(time.Now())
}

// Parse reads "2025-01-31", "31/01/2025", "31-01-2025" or "31/01/25".
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// Format renders t as an ISO day.
func Format(t time.Time) string {
	return t.Format(LayoutISO)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// AddMonths moves t by n months keeping the day of month, clamped to the
// target month's last day: Jan 31 + 1 month = Feb 28 (or 29).
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := EndOfMonth(first).Day()
	d := t.Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// MonthKey returns "2025-01".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Months lists the first day of every month touched by [from, to].
func Months(from, to time.Time) []time.Time {
	var out []time.Time
	for m := StartOfMonth(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}

// Within reports whether t falls in the closed interval [from, to]. A zero
// bound is open.
func Within(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

// AbsDays returns the number of whole days between a and b.
func AbsDays(a, b time.Time) int {
	d := int(Day(a).Sub(Day(b)).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
