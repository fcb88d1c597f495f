package ics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daydesk/internal/ics"
)

// feed builds a CRLF-terminated ICS payload from bare content lines.
func feed(lines ...string) []byte {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//daydesk//EN"}, lines...)
	all = append(all, "END:VCALENDAR", "")
	return []byte(strings.Join(all, "\r\n"))
}

func testSource() ics.Source {
	return ics.Source{ID: "team", URL: "https://calendar.example/team.ics"}
}

func TestParseSkipsEventsWithoutUID(t *testing.T) {
	t.Parallel()

	body := feed(
		"BEGIN:VEVENT",
		"UID:standup",
		"SUMMARY:Standup",
		"DTSTART:20240304T090000Z",
		"DTEND:20240304T093000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:No uid here",
		"DTSTART:20240305T090000Z",
		"DTEND:20240305T100000Z",
		"END:VEVENT",
	)

	events, err := ics.Parse(testSource(), body)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "standup", events[0].UID)
	assert.Equal(t, "Standup", events[0].Summary)
	assert.False(t, events[0].AllDay)
}

func TestParseDetectsAllDayAndRecurrence(t *testing.T) {
	t.Parallel()

	body := feed(
		"BEGIN:VEVENT",
		"UID:fair",
		"SUMMARY:Spring fair",
		"DTSTART;VALUE=DATE:20240310",
		"DTEND;VALUE=DATE:20240312",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:sync",
		"SUMMARY:Weekly sync",
		"DTSTART:20240304T090000Z",
		"DTEND:20240304T100000Z",
		"RRULE:FREQ=WEEKLY;COUNT=4",
		"EXDATE:20240311T090000Z",
		"END:VEVENT",
	)

	events, err := ics.Parse(testSource(), body)
	require.NoError(t, err)
	require.Len(t, events, 2)

	fair := events[0]
	assert.True(t, fair.AllDay)
	assert.Empty(t, fair.RawRRule)

	sync := events[1]
	assert.False(t, sync.AllDay)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", sync.RawRRule)
	require.Len(t, sync.ExDates, 1)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), sync.ExDates[0].UTC())
}

func TestParseEmptyBody(t *testing.T) {
	t.Parallel()

	_, err := ics.Parse(testSource(), nil)
	assert.Error(t, err)
}

func TestExpandWeeklyRuleWithExDate(t *testing.T) {
	t.Parallel()

	body := feed(
		"BEGIN:VEVENT",
		"UID:sync",
		"SUMMARY:Weekly sync",
		"DTSTART:20240304T090000Z",
		"DTEND:20240304T100000Z",
		"RRULE:FREQ=WEEKLY;COUNT=4",
		"EXDATE:20240311T090000Z",
		"END:VEVENT",
	)
	parsed, err := ics.Parse(testSource(), body)
	require.NoError(t, err)

	cfg := ics.ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
	}
	out, err := ics.Expand(parsed, cfg)
	require.NoError(t, err)

	// COUNT=4 yields Mar 4, 11, 18, 25 and the EXDATE drops Mar 11.
	require.Len(t, out, 3)
	assert.Equal(t, "sync@2024-03-04T09:00:00Z", out[0].ID)
	assert.Equal(t, "sync@2024-03-18T09:00:00Z", out[1].ID)
	assert.Equal(t, "sync@2024-03-25T09:00:00Z", out[2].ID)
	for _, ev := range out {
		assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
		assert.Equal(t, "Weekly sync", ev.Title)
	}
}

func TestExpandRecurrenceOverride(t *testing.T) {
	t.Parallel()

	body := feed(
		"BEGIN:VEVENT",
		"UID:sync",
		"SUMMARY:Weekly sync",
		"DTSTART:20240304T090000Z",
		"DTEND:20240304T100000Z",
		"RRULE:FREQ=WEEKLY;COUNT=2",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:sync",
		"RECURRENCE-ID:20240311T090000Z",
		"SUMMARY:Weekly sync (moved)",
		"DTSTART:20240311T140000Z",
		"DTEND:20240311T150000Z",
		"END:VEVENT",
	)
	parsed, err := ics.Parse(testSource(), body)
	require.NoError(t, err)

	cfg := ics.ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	out, err := ics.Expand(parsed, cfg)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Weekly sync", out[0].Title)
	assert.Equal(t, "Weekly sync (moved)", out[1].Title)
	assert.Equal(t, time.Date(2024, 3, 11, 14, 0, 0, 0, time.UTC), out[1].Start)
}

func TestExpandAllDayOccupiesWholeDays(t *testing.T) {
	t.Parallel()

	body := feed(
		"BEGIN:VEVENT",
		"UID:fair",
		"SUMMARY:Spring fair",
		"DTSTART;VALUE=DATE:20240310",
		"DTEND;VALUE=DATE:20240312",
		"END:VEVENT",
	)
	parsed, err := ics.Parse(testSource(), body)
	require.NoError(t, err)

	cfg := ics.ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	out, err := ics.Expand(parsed, cfg)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.True(t, out[0].AllDay)
	// Exclusive DTEND carries through: two calendar days.
	assert.Equal(t, 48*time.Hour, out[0].End.Sub(out[0].Start))
}

func TestParseDefaultsMissingDTEND(t *testing.T) {
	t.Parallel()

	body := feed(
		"BEGIN:VEVENT",
		"UID:ping",
		"SUMMARY:Ping",
		"DTSTART:20240305T090000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:holiday",
		"SUMMARY:Holiday",
		"DTSTART;VALUE=DATE:20240310",
		"END:VEVENT",
	)
	parsed, err := ics.Parse(testSource(), body)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	// Timed: zero-length at the start instant.
	assert.Equal(t, parsed[0].Start, parsed[0].End)
	assert.False(t, parsed[0].End.IsZero())
	// Date value: one whole day.
	assert.Equal(t, parsed[1].Start.AddDate(0, 0, 1), parsed[1].End)

	// The events are not silently dropped during expansion.
	out, err := ics.Expand(parsed, ics.ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ping", out[0].Title)
	assert.Equal(t, "Holiday", out[1].Title)
}

func TestExpandIsDeterministic(t *testing.T) {
	t.Parallel()

	body := feed(
		"BEGIN:VEVENT",
		"UID:sync",
		"SUMMARY:Weekly sync",
		"DTSTART:20240304T090000Z",
		"DTEND:20240304T100000Z",
		"RRULE:FREQ=WEEKLY;COUNT=4",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:standup",
		"SUMMARY:Standup",
		"DTSTART:20240305T090000Z",
		"DTEND:20240305T093000Z",
		"END:VEVENT",
	)
	parsed, err := ics.Parse(testSource(), body)
	require.NoError(t, err)

	cfg := ics.ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	first, err := ics.Expand(parsed, cfg)
	require.NoError(t, err)
	second, err := ics.Expand(parsed, cfg)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("expansion not deterministic (-first +second):\n%s", diff)
	}
}

func TestExpandRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	_, err := ics.Expand(nil, ics.ExpandConfig{
		RangeStart: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}
