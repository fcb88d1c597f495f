package store

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	appLog "daydesk/internal/log"
	"daydesk/internal/model"
)

// GoogleCalendar implements EventStore on top of the Calendar v3 API.
type GoogleCalendar struct {
	srv        *calendar.Service
	calendarID string

	// loc resolves the day for all-day date values.
	loc *time.Location

	// horizonPast / horizonFuture bound ListEvents; the layout engine
	// only ever asks for finite visible ranges.
	horizonPast   time.Duration
	horizonFuture time.Duration
}

// NewGoogleCalendar connects to one calendar. calendarID may be
// "primary" or a concrete calendar id.
func NewGoogleCalendar(ctx context.Context, auth GoogleAuth, calendarID string, loc *time.Location) (*GoogleCalendar, error) {
	client, err := auth.Client(ctx, calendar.CalendarEventsScope, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("google calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{
		srv:           srv,
		calendarID:    calendarID,
		loc:           loc,
		horizonPast:   90 * 24 * time.Hour,
		horizonFuture: 366 * 24 * time.Hour,
	}, nil
}

func (g *GoogleCalendar) ListEvents(ctx context.Context) ([]model.Event, error) {
	now := time.Now().In(g.loc)
	call := g.srv.Events.List(g.calendarID).
		SingleEvents(true).
		TimeMin(now.Add(-g.horizonPast).Format(time.RFC3339)).
		TimeMax(now.Add(g.horizonFuture).Format(time.RFC3339)).
		MaxResults(2500).
		Context(ctx)

	events := make([]model.Event, 0)
	pageToken := ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, mapGoogleErr("list events", err)
		}
		for _, item := range resp.Items {
			ev, err := eventFromGoogle(item, g.loc)
			if err != nil {
				// Malformed date values lose the item, not the view.
				appLog.Warn("google calendar: skipping event", "id", item.Id, "reason", err)
				continue
			}
			events = append(events, ev)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return events, nil
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, ev model.Event) (model.Event, error) {
	created, err := g.srv.Events.Insert(g.calendarID, eventToGoogle(ev)).Context(ctx).Do()
	if err != nil {
		return model.Event{}, mapGoogleErr("create event", err)
	}
	return eventFromGoogle(created, g.loc)
}

func (g *GoogleCalendar) SaveEvent(ctx context.Context, ev model.Event) (model.Event, error) {
	updated, err := g.srv.Events.Update(g.calendarID, ev.ID, eventToGoogle(ev)).Context(ctx).Do()
	if err != nil {
		return model.Event{}, mapGoogleErr("save event", err)
	}
	return eventFromGoogle(updated, g.loc)
}

func (g *GoogleCalendar) DeleteEvent(ctx context.Context, id string) error {
	if err := g.srv.Events.Delete(g.calendarID, id).Context(ctx).Do(); err != nil {
		return mapGoogleErr("delete event", err)
	}
	return nil
}

// eventFromGoogle maps an API event to a raw record. All-day events
// carry date-only values; the API end date is already exclusive, which
// is the same convention model.Event uses.
func eventFromGoogle(item *calendar.Event, loc *time.Location) (model.Event, error) {
	ev := model.Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
	}

	start, allDay, err := parseGoogleTime(item.Start, loc)
	if err != nil {
		return model.Event{}, fmt.Errorf("start: %w", err)
	}
	end, _, err := parseGoogleTime(item.End, loc)
	if err != nil {
		return model.Event{}, fmt.Errorf("end: %w", err)
	}

	ev.Start = start
	ev.End = end
	ev.AllDay = allDay
	return ev, nil
}

func parseGoogleTime(dt *calendar.EventDateTime, loc *time.Location) (time.Time, bool, error) {
	if dt == nil {
		return time.Time{}, false, fmt.Errorf("missing date value")
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", dt.Date, loc)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, dt.DateTime)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.In(loc), false, nil
}

func eventToGoogle(ev model.Event) *calendar.Event {
	out := &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
	}
	if ev.AllDay {
		out.Start = &calendar.EventDateTime{Date: ev.Start.Format("2006-01-02")}
		out.End = &calendar.EventDateTime{Date: ev.End.Format("2006-01-02")}
	} else {
		out.Start = &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)}
		out.End = &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)}
	}
	return out
}
