package schedule

import (
	"time"

	"daydesk/internal/dateutil"
	"daydesk/internal/model"
)

// DayBuckets maps a calendar-day key ("2006-01-02") to the items visible
// on that day, in the order they were supplied.
type DayBuckets map[string][]model.ScheduleItem

// BucketByDay expands each item across every calendar day its
// DisplayRange covers. An item appears under exactly the keys d with
// DisplayRange.Start <= d <= DisplayRange.End.
//
// Cost is the sum of item day-spans, which is small for any realistic
// grid; callers pass the already range-filtered month superset.
func BucketByDay(items []model.ScheduleItem, loc *time.Location) DayBuckets {
	buckets := make(DayBuckets)
	for _, item := range items {
		r := RangeOf(item, loc)
		for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
			key := d.Key()
			buckets[key] = append(buckets[key], item)
		}
	}
	return buckets
}

// DayKey returns the bucket key for an instant in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return dateutil.DateOf(t, loc).Key()
}
