// Package dates handles the YYYY-MM-DD calendar dates exchanged with clients
// and stored on meal plans, shopping lists and weight entries. Weeks start on Monday.
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire and storage format for calendar dates.
const Layout = "2006-01-02"

// Format renders t as YYYY-MM-DD in t's own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a YYYY-MM-DD string as midnight UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Valid reports whether s is a well-formed YYYY-MM-DD date.
func Valid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of the week containing t, at midnight.
func WeekStart(t time.Time) time.Time {
	d := Midnight(t)
	offset := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	return d.AddDate(0, 0, -offset)
}

// WeekDates returns the seven days Monday..Sunday of the week containing t.
func WeekDates(t time.Time) []time.Time {
	start := WeekStart(t)
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// OffsetWeek moves t by n weeks.
func OffsetWeek(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

// SubDays returns midnight n days before t.
func SubDays(t time.Time, n int) time.Time {
	return Midnight(t).AddDate(0, 0, -n)
}

// Range returns every day from start to end inclusive. It is empty when end is before start.
func Range(start, end time.Time) []time.Time {
	s, e := Midnight(start), Midnight(end)
	var out []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Strings formats each date with Format.
func Strings(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = Format(t)
	}
	return out
}
