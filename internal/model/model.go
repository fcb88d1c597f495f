package model

import "time"

// ItemKind distinguishes the two sources a schedulable item can come from.
type ItemKind string

const (
	KindEvent ItemKind = "event"
	KindTask  ItemKind = "task"
)

// Event is a raw calendar event as handed over by an event store
// (Google Calendar, an ICS subscription, or the in-memory store).
type Event struct {
	ID string

	Title       string
	Description string
	Location    string

	AllDay bool

	// Start / End are absolute instants. For all-day events End follows
	// the exclusive convention: one day past the last included day.
	Start time.Time
	End   time.Time
}

// TaskList is a named collection of tasks within one account.
type TaskList struct {
	ID    string
	Title string
}

// Task is a raw task record as handed over by a task store.
type Task struct {
	ID         string
	TaskListID string

	Title string
	Notes string

	// Due is optional; tasks without a due date do not appear on the
	// calendar at all.
	Due       *time.Time
	Completed bool
}

// SourceRef points back at the record a ScheduleItem was derived from.
// It routes edits to the owning store; it carries no lifecycle meaning.
type SourceRef struct {
	Kind       ItemKind
	AccountID  string
	EventID    string
	TaskListID string
	TaskID     string
}

// ScheduleItem is the normalized schedulable entity the layout engine
// operates on. Events and due-dated tasks both reduce to this shape.
type ScheduleItem struct {
	// ID is unique across the whole normalized set. Task-derived ids are
	// deterministic functions of the source task, so re-normalizing the
	// same input always yields the same ids.
	ID   string
	Kind ItemKind

	Title       string
	Description string
	Location    string

	// Start / End are absolute instants, End >= Start for timed items.
	// All-day items anchor both at noon local time so that reducing them
	// to a calendar date can never shift across a day boundary.
	Start time.Time
	End   time.Time

	AllDay bool

	// Completed carries task semantics only; it is always false for events.
	Completed bool

	Source SourceRef
}
