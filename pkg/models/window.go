package models

import (
	"time"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
)

// Window is an inclusive calendar-day date range scoping an
// aggregation. Time-of-day components of From and To are ignored:
// comparisons happen on dates only.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewWindow builds a window and rejects from > to (date-only
// comparison) with apperrors.ErrInvalidWindow.
func NewWindow(from, to time.Time) (Window, error) {
	if DateOf(from).After(DateOf(to)) {
		return Window{}, apperrors.ErrInvalidWindow
	}
	return Window{From: from, To: to}, nil
}

// AllTime returns the window [start, now] used when a caller asks for
// an unbounded report.
func AllTime(start time.Time) Window {
	return Window{From: start, To: time.Now()}
}

// Days enumerates every calendar day in the window, inclusive on both
// ends, normalized to midnight UTC.
func (w Window) Days() []time.Time {
	from := DateOf(w.From)
	to := DateOf(w.To)

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ContainsDay reports whether t's calendar day falls inside the window.
func (w Window) ContainsDay(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(w.From)) && !d.After(DateOf(w.To))
}

// DateOf truncates a timestamp to its calendar day at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats a timestamp as the YYYY-MM-DD key used in daily
// report rows.
func DateKey(t time.Time) string {
	return DateOf(t).Format("2006-01-02")
}
