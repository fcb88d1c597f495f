package schedule

import (
	"time"

	"daydesk/internal/dateutil"
	"daydesk/internal/model"
)

// DisplayRange is the inclusive calendar-day span an item visually
// occupies, after exclusive-end adjustment for all-day items.
type DisplayRange struct {
	Start dateutil.Date
	End   dateutil.Date
}

// RangeOf computes an item's DisplayRange in loc.
//
// All-day items store End one day past the last included day when they
// span more than one day, so one day is subtracted before reducing to a
// date. The result always satisfies Start <= End.
func RangeOf(item model.ScheduleItem, loc *time.Location) DisplayRange {
	start := dateutil.DateOf(item.Start, loc)
	end := dateutil.DateOf(item.End, loc)

	if item.AllDay && end.After(start) {
		end = end.AddDays(-1)
	}
	if end.Before(start) {
		end = start
	}

	return DisplayRange{Start: start, End: end}
}

// Days returns the number of calendar days the range covers (>= 1).
func (r DisplayRange) Days() int {
	return dateutil.DaysBetween(r.Start, r.End) + 1
}

// Contains reports whether d falls inside the range.
func (r DisplayRange) Contains(d dateutil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether the range intersects the inclusive day span
// [start, end].
func (r DisplayRange) Overlaps(start, end dateutil.Date) bool {
	return !r.Start.After(end) && !r.End.Before(start)
}
