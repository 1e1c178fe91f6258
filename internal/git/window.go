package git

import (
	"time"

	"github.com/masmgr/worklog-go/internal/errdefs"
)

// Window is a closed time interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, inclusive on both ends.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Today returns the window covering now's calendar day.
func Today(now time.Time) Window {
	return Window{Start: StartOfDay(now), End: EndOfDay(now)}
}

// DayWindow resolves optional bounds into [StartOfDay(since), EndOfDay(until)].
// With no bounds the window is now's calendar day; a single bound stands for both.
func DayWindow(since, until *time.Time, now time.Time) (Window, error) {
	switch {
	case since == nil && until == nil:
		return Today(now), nil
	case since == nil:
		since = until
	case until == nil:
		until = since
	}

	w := Window{Start: StartOfDay(*since), End: EndOfDay(*until)}
	if w.Start.After(w.End) {
		return Window{}, errdefs.Newf(errdefs.KindConfiguration, "resolve window",
			"window start %s is after end %s", since.Format("2006-01-02"), until.Format("2006-01-02"))
	}
	return w, nil
}
