package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daydesk/internal/model"
	"daydesk/internal/schedule"
)

func TestBucketByDayTimedEventSingleBucket(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	// Monday 9:00-10:00, not all-day.
	item := timedItem("standup",
		time.Date(2024, 3, 4, 9, 0, 0, 0, loc),
		time.Date(2024, 3, 4, 10, 0, 0, 0, loc))

	buckets := schedule.BucketByDay([]model.ScheduleItem{item}, loc)

	require.Len(t, buckets, 1)
	require.Len(t, buckets["2024-03-04"], 1)
	assert.Equal(t, "standup", buckets["2024-03-04"][0].ID)
}

func TestBucketByDayMultiDayAllDayEvent(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	// All-day Mar 4 .. Mar 7 exclusive: display days Mar 4, 5, 6.
	item := model.ScheduleItem{
		ID:     "offsite",
		AllDay: true,
		Start:  time.Date(2024, 3, 4, 12, 0, 0, 0, loc),
		End:    time.Date(2024, 3, 7, 12, 0, 0, 0, loc),
	}

	buckets := schedule.BucketByDay([]model.ScheduleItem{item}, loc)

	require.Len(t, buckets, 3)
	for _, key := range []string{"2024-03-04", "2024-03-05", "2024-03-06"} {
		require.Len(t, buckets[key], 1, "missing bucket %s", key)
		assert.Equal(t, "offsite", buckets[key][0].ID)
	}
	assert.NotContains(t, buckets, "2024-03-07")
}

func TestBucketByDayCompleteness(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	items := []model.ScheduleItem{
		timedItem("a",
			time.Date(2024, 3, 4, 9, 0, 0, 0, loc),
			time.Date(2024, 3, 4, 10, 0, 0, 0, loc)),
		timedItem("overnight",
			time.Date(2024, 3, 5, 22, 0, 0, 0, loc),
			time.Date(2024, 3, 6, 2, 0, 0, 0, loc)),
		{
			ID:     "span",
			AllDay: true,
			Start:  time.Date(2024, 3, 1, 12, 0, 0, 0, loc),
			End:    time.Date(2024, 3, 11, 12, 0, 0, 0, loc),
		},
	}

	buckets := schedule.BucketByDay(items, loc)

	// Every item appears under each day of its DisplayRange and nowhere
	// else.
	for _, item := range items {
		r := schedule.RangeOf(item, loc)
		count := 0
		for key, bucket := range buckets {
			found := false
			for _, got := range bucket {
				if got.ID == item.ID {
					found = true
					count++
				}
			}
			inRange := false
			for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
				if d.Key() == key {
					inRange = true
				}
			}
			assert.Equal(t, inRange, found, "item %s in bucket %s", item.ID, key)
		}
		assert.Equal(t, r.Days(), count, "item %s bucket count", item.ID)
	}
}

func TestBucketByDayPreservesInputOrderWithinDay(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	at := time.Date(2024, 3, 4, 9, 0, 0, 0, loc)
	items := []model.ScheduleItem{
		timedItem("first", at, at.Add(time.Hour)),
		timedItem("second", at, at.Add(time.Hour)),
	}

	buckets := schedule.BucketByDay(items, loc)
	require.Len(t, buckets["2024-03-04"], 2)
	assert.Equal(t, "first", buckets["2024-03-04"][0].ID)
	assert.Equal(t, "second", buckets["2024-03-04"][1].ID)
}
