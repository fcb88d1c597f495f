// Package store defines the contracts between the layout engine and the
// systems that own event and task records, plus the concrete backends:
// an in-memory store, Google Calendar, Google Tasks, and (read-only) ICS
// subscriptions via internal/ics.
//
// The engine never mutates records it reads; edits go back through these
// interfaces as explicit calls, and a failed lookup surfaces as
// ErrNotFound so the caller can report the commit failure.
package store

import (
	"context"
	"errors"

	"daydesk/internal/model"
)

// ErrNotFound reports an edit that references a record no longer present
// in its source collection. The edit is a no-op; the error is returned,
// never swallowed.
var ErrNotFound = errors.New("store: record not found")

// EventStore owns calendar events for one account.
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, ev model.Event) (model.Event, error)
	SaveEvent(ctx context.Context, ev model.Event) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// TaskStore owns task lists and tasks for one account.
type TaskStore interface {
	ListTaskLists(ctx context.Context) ([]model.TaskList, error)
	ListTasks(ctx context.Context, taskListID string) ([]model.Task, error)
	SaveTask(ctx context.Context, taskListID string, task model.Task) (model.Task, error)
}
