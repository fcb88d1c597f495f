// Package dateutil provides calendar-day arithmetic in an explicit
// time zone. All week/month boundary math is calendar-based (AddDate),
// never fixed-24h-based, so it stays correct across DST transitions.
package dateutil

import "time"

// Date is a plain calendar day with no time-of-day and no zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf reduces an instant to its calendar day in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	lt := t.In(loc)
	return Date{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()}
}

// Time materializes the date at midnight in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Noon materializes the date at 12:00 in loc. All-day items are anchored
// here so later truncation cannot slip across a day boundary.
func (d Date) Noon(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

// AddDays returns the date n calendar days later (n may be negative).
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Key formats the date as "YYYY-MM-DD", the canonical day-bucket key.
func (d Date) Key() string {
	return d.Time(time.UTC).Format("2006-01-02")
}

func (d Date) ordinal() int {
	// UTC has no DST, so dividing by 24h is exact.
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return int(t.Unix() / 86400)
}

func (d Date) Before(o Date) bool { return d.ordinal() < o.ordinal() }
func (d Date) After(o Date) bool  { return d.ordinal() > o.ordinal() }
func (d Date) Equal(o Date) bool  { return d == o }

// DaysBetween returns b - a in calendar days (0 for the same day,
// negative when b precedes a).
func DaysBetween(a, b Date) int {
	return b.ordinal() - a.ordinal()
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of two dates.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return DateOf(t, loc).Time(loc)
}

// EndOfDay returns the last representable instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return DateOf(t, loc).AddDays(1).Time(loc).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight of the first day of t's week, where
// weekStart selects which weekday opens the week.
func StartOfWeek(t time.Time, weekStart time.Weekday, loc *time.Location) time.Time {
	lt := t.In(loc)
	offset := (int(lt.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(lt.AddDate(0, 0, -offset), loc)
}

// EndOfWeek returns the last instant of t's week.
func EndOfWeek(t time.Time, weekStart time.Weekday, loc *time.Location) time.Time {
	return EndOfDay(StartOfWeek(t, weekStart, loc).AddDate(0, 0, 6), loc)
}

// StartOfMonth returns midnight of the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns the last instant of t's month in loc.
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	firstOfNext := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstOfNext.Add(-time.Nanosecond)
}

// AddDays shifts t by n calendar days in loc, preserving time-of-day where
// the target day allows it.
func AddDays(t time.Time, n int, loc *time.Location) time.Time {
	return t.In(loc).AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateOf(a, loc) == DateOf(b, loc)
}

// SameMonth reports whether a and b fall in the same calendar month in loc.
func SameMonth(a, b time.Time, loc *time.Location) bool {
	la, lb := a.In(loc), b.In(loc)
	return la.Year() == lb.Year() && la.Month() == lb.Month()
}
