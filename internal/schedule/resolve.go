package schedule

import (
	"fmt"
	"strings"
	"time"

	"daydesk/internal/dateutil"
)

// minTimedDuration is the span forced onto a timed item whose end is
// missing or not after its start.
const minTimedDuration = time.Hour

// dateLayout is the all-day date input format.
const dateLayout = "2006-01-02"

// timedLayouts are the accepted local date-time input formats, tried in
// order.
var timedLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ResolveInput carries the user-entered fields of a create or edit form.
// All strings are local to loc; empty strings mean "not supplied".
type ResolveInput struct {
	AllDay bool

	// Start / End are "YYYY-MM-DD" in all-day mode, full local
	// date-times otherwise.
	Start string
	End   string

	// Now supplies the defaulting clock; time.Now is used when nil.
	Now func() time.Time
}

// ResolveTimes converts form input into the committed (start, end) pair.
//
// All-day mode parses calendar dates and materializes them at noon. An
// end date before the start date is clamped to the start date. The
// committed end follows the exclusive convention (one day past the last
// included day), so feeding the result back through Normalize yields
// exactly the DisplayRange the editor displayed.
//
// Timed mode parses local date-times directly. A missing start defaults
// to now; a missing or invalid end, or one not after the start, is
// forced to start plus one hour.
//
// A non-empty start that cannot be parsed is a commit error (wrapped
// ErrParse): committing "now" in place of a typo would silently store
// the wrong time.
func ResolveTimes(in ResolveInput, loc *time.Location) (time.Time, time.Time, error) {
	now := time.Now
	if in.Now != nil {
		now = in.Now
	}

	if in.AllDay {
		return resolveAllDay(in, now, loc)
	}
	return resolveTimed(in, now, loc)
}

func resolveAllDay(in ResolveInput, now func() time.Time, loc *time.Location) (time.Time, time.Time, error) {
	startDate, err := parseDate(in.Start, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	endDate := startDate
	if s := strings.TrimSpace(in.End); s != "" {
		if d, perr := parseDate(s, now, loc); perr == nil {
			endDate = d
		}
	}
	if endDate.Before(startDate) {
		endDate = startDate
	}

	// Exclusive end: one day past the last included day.
	return startDate.Noon(loc), endDate.AddDays(1).Noon(loc), nil
}

func resolveTimed(in ResolveInput, now func() time.Time, loc *time.Location) (time.Time, time.Time, error) {
	var start time.Time
	if s := strings.TrimSpace(in.Start); s == "" {
		start = now().In(loc)
	} else {
		t, err := parseTimed(s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}

	end := start.Add(minTimedDuration)
	if s := strings.TrimSpace(in.End); s != "" {
		if t, err := parseTimed(s, loc); err == nil && t.After(start) {
			end = t
		}
	}

	return start, end, nil
}

func parseDate(s string, now func() time.Time, loc *time.Location) (dateutil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dateutil.DateOf(now().In(loc), loc), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return dateutil.Date{}, fmt.Errorf("%w: bad date %q", ErrParse, s)
	}
	return dateutil.DateOf(t, loc), nil
}

func parseTimed(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timedLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: bad date-time %q", ErrParse, s)
}
