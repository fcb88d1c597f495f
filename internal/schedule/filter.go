package schedule

import (
	"sort"
	"time"

	"daydesk/internal/dateutil"
	"daydesk/internal/model"
)

// Mode selects the visible calendar range.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

// VisibleRange computes the instant range a view mode covers around a
// reference instant.
//
// Month mode returns the full displayed grid, i.e. the span from the
// first day of the week containing the 1st through the last day of the
// week containing the month's final day, so leading and trailing days
// of adjacent months are included.
func VisibleRange(mode Mode, ref time.Time, weekStart time.Weekday, loc *time.Location) (time.Time, time.Time) {
	switch mode {
	case ModeDay:
		return dateutil.StartOfDay(ref, loc), dateutil.EndOfDay(ref, loc)
	case ModeWeek:
		return dateutil.StartOfWeek(ref, weekStart, loc), dateutil.EndOfWeek(ref, weekStart, loc)
	case ModeMonth:
		gridStart := dateutil.StartOfWeek(dateutil.StartOfMonth(ref, loc), weekStart, loc)
		gridEnd := dateutil.EndOfWeek(dateutil.EndOfMonth(ref, loc), weekStart, loc)
		return gridStart, gridEnd
	default:
		// Unknown modes fall back to the single day around ref.
		return dateutil.StartOfDay(ref, loc), dateutil.EndOfDay(ref, loc)
	}
}

// FilterRange selects the items whose DisplayRange overlaps the
// inclusive instant range [rangeStart, rangeEnd] and returns them sorted
// ascending by start instant. The sort is stable: items starting at the
// same instant keep their input order, no secondary key is imposed.
//
// The overlap test compares calendar days, not instants, because the
// stored all-day end is exclusive until DisplayRange adjusts it.
func FilterRange(items []model.ScheduleItem, rangeStart, rangeEnd time.Time, loc *time.Location) []model.ScheduleItem {
	startDay := dateutil.DateOf(rangeStart, loc)
	endDay := dateutil.DateOf(rangeEnd, loc)

	visible := make([]model.ScheduleItem, 0, len(items))
	for _, item := range items {
		if RangeOf(item, loc).Overlaps(startDay, endDay) {
			visible = append(visible, item)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Start.Before(visible[j].Start)
	})

	return visible
}
