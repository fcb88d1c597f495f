package ics

import (
	"context"
	"errors"
	"fmt"
	"time"

	appLog "daydesk/internal/log"
	"daydesk/internal/model"
)

// ErrReadOnly is returned for any write against an ICS subscription.
var ErrReadOnly = errors.New("ics: subscription feeds are read-only")

// Subscription adapts one or more ICS feeds to the event-store contract.
// Listing fetches, parses and expands every feed into raw events within
// a rolling horizon around now; writes are rejected.
type Subscription struct {
	fetcher *Fetcher
	sources []Source
	loc     *time.Location

	// HorizonPast / HorizonFuture bound recurrence expansion around the
	// listing time.
	HorizonPast   time.Duration
	HorizonFuture time.Duration
}

// NewSubscription builds a Subscription over the given sources, caching
// feed bodies under cacheDir.
func NewSubscription(cacheDir string, sources []Source, loc *time.Location) *Subscription {
	return &Subscription{
		fetcher:       NewFetcher(cacheDir),
		sources:       sources,
		loc:           loc,
		HorizonPast:   90 * 24 * time.Hour,
		HorizonFuture: 366 * 24 * time.Hour,
	}
}

func (s *Subscription) ListEvents(ctx context.Context) ([]model.Event, error) {
	results, errs := s.fetcher.FetchAll(ctx, s.sources)
	if len(results) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("ics: all %d feeds failed: %w", len(errs), errs[0])
	}

	parsed := make([]ParsedEvent, 0)
	for _, res := range results {
		events, err := Parse(res.Source, res.Body)
		if err != nil {
			// One broken feed must not hide the rest.
			appLog.Error("ics: parse failed for source", err, "id", res.Source.ID)
			continue
		}
		parsed = append(parsed, events...)
	}

	now := time.Now().In(s.loc)
	return Expand(parsed, ExpandConfig{
		DisplayLocation: s.loc,
		RangeStart:      now.Add(-s.HorizonPast),
		RangeEnd:        now.Add(s.HorizonFuture),
	})
}

func (s *Subscription) CreateEvent(context.Context, model.Event) (model.Event, error) {
	return model.Event{}, ErrReadOnly
}

func (s *Subscription) SaveEvent(context.Context, model.Event) (model.Event, error) {
	return model.Event{}, ErrReadOnly
}

func (s *Subscription) DeleteEvent(context.Context, string) error {
	return ErrReadOnly
}
