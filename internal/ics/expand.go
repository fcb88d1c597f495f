package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "daydesk/internal/log"
	"daydesk/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// DisplayLocation is the zone all occurrences are converted into.
	// time.Local when nil.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd bound the inclusive expansion window.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway rules; the package default
	// applies when zero.
	MaxOccurrencesPerEvent int
}

// Expand turns parsed VEVENTs into concrete raw event records within the
// window. It handles plain events, RRULE recurrence, EXDATE removals and
// RECURRENCE-ID overrides. Each occurrence gets a deterministic id of
// the form "<uid>@<local start>", so re-expanding the same feed yields
// the same ids.
func Expand(events []ParsedEvent, cfg ExpandConfig) ([]model.Event, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("ics: expand range end before start")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	// Group base events and their instance overrides by UID.
	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	uidOrder := make([]string, 0)

	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
			continue
		}
		if _, seen := baseByUID[ev.UID]; !seen {
			uidOrder = append(uidOrder, ev.UID)
		}
		baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
	}

	out := make([]model.Event, 0)
	for _, uid := range uidOrder {
		for _, ev := range baseByUID[uid] {
			occ, hitCap := expandEvent(ev, overridesByUID[uid], cfg)
			if hitCap {
				appLog.Warn("ics: recurrence capped", "uid", uid, "cap", cfg.MaxOccurrencesPerEvent)
			}
			out = append(out, occ...)
		}
	}
	return out, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Event, bool) {
	if ev.RawRRule == "" {
		return expandSingle(ev, overrides, cfg), false
	}
	return expandRecurring(ev, overrides, cfg)
}

func expandSingle(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.Event {
	if !rangesOverlap(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}

	start, end := ev.Start, ev.End
	if o, ok := overrideForStart(overrides, start); ok {
		start, end, ev = o.Start, o.End, o
	}
	return []model.Event{makeEvent(ev, start, end, cfg.DisplayLocation)}
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Event, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Warn("ics: bad RRULE, keeping base instance only", "uid", ev.UID, "err", err)
		return expandSingle(ev, overrides, cfg), false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Between() wants the window in the event's own zone.
	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())
	occTimes := set.Between(rangeStart, rangeEnd, true)

	hitCap := false
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	dur := ev.End.Sub(ev.Start)
	out := make([]model.Event, 0, len(occTimes))
	for _, occStart := range occTimes {
		var occEnd time.Time
		if ev.AllDay {
			// All-day instances occupy [date 00:00, next day 00:00).
			date := time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, occStart.Location())
			occStart = date
			occEnd = date.AddDate(0, 0, 1)
		} else {
			occEnd = occStart.Add(dur)
		}

		instEv, start, end := ev, occStart, occEnd
		if o, ok := overrideForStart(overrides, occStart); ok {
			instEv, start, end = o, o.Start, o.End
		}
		out = append(out, makeEvent(instEv, start, end, cfg.DisplayLocation))
	}
	return out, hitCap
}

func overrideForStart(overrides []ParsedEvent, baseStart time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence == nil {
			continue
		}
		if ov.Recurrence.In(baseStart.Location()).Equal(baseStart) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

func makeEvent(ev ParsedEvent, start, end time.Time, loc *time.Location) model.Event {
	startLocal := start.In(loc)
	return model.Event{
		ID:          ev.UID + "@" + startLocal.Format(time.RFC3339),
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       startLocal,
		End:         end.In(loc),
	}
}

func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
