// Package schedule is the temporal layout engine: it normalizes raw
// events and tasks into schedulable items, filters them against a
// visible range, buckets them per calendar day, and packs multi-day
// items into non-overlapping lanes for a week row.
//
// Every function in this package is pure. Inputs are snapshots owned by
// the stores; each stage returns a new derived view and mutates nothing.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"daydesk/internal/dateutil"
	appLog "daydesk/internal/log"
	"daydesk/internal/model"
)

// ErrParse marks date/time input that could not be interpreted. Parse
// failures are local: the offending item or field is skipped and the
// rest of the view still renders.
var ErrParse = errors.New("schedule: unparseable date/time")

// TaskItemID derives the deterministic ScheduleItem id for a task. The
// same task always maps to the same id, so re-normalizing a snapshot is
// idempotent and can never collide with event ids.
func TaskItemID(taskListID, taskID string) string {
	return fmt.Sprintf("task:%s:%s", taskListID, taskID)
}

// EventItemID derives the ScheduleItem id for an event.
func EventItemID(eventID string) string {
	return "event:" + eventID
}

// Normalize merges raw events and tasks from one account into the
// uniform ScheduleItem representation.
//
//   - Events pass through with their instants as given. All-day events
//     are re-anchored to noon of their calendar days, keeping the
//     exclusive-end convention intact.
//   - Tasks appear only when they have a due date and are not completed.
//     A task occupies exactly its due day as an all-day item.
//   - Items without a start instant are logged and skipped, never fatal.
//     An end before its start is clamped to the start.
func Normalize(accountID string, events []model.Event, tasks []model.Task, loc *time.Location) []model.ScheduleItem {
	items := make([]model.ScheduleItem, 0, len(events)+len(tasks))

	for _, ev := range events {
		item, err := normalizeEvent(accountID, ev, loc)
		if err != nil {
			appLog.Warn("normalize: skipping event", "account", accountID, "event", ev.ID, "reason", err)
			continue
		}
		items = append(items, item)
	}

	for _, task := range tasks {
		item, ok := normalizeTask(accountID, task, loc)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items
}

func normalizeEvent(accountID string, ev model.Event, loc *time.Location) (model.ScheduleItem, error) {
	if ev.Start.IsZero() {
		return model.ScheduleItem{}, fmt.Errorf("%w: event has no start", ErrParse)
	}

	start := ev.Start
	end := ev.End
	if end.IsZero() {
		end = start
	}

	if ev.AllDay {
		// Anchor at noon so a later reduction to a calendar date cannot
		// shift across a DST or zone edge. The exclusive end stays one
		// day past the last included day.
		start = dateutil.DateOf(start, loc).Noon(loc)
		end = dateutil.DateOf(end, loc).Noon(loc)
		if end.Before(start) {
			end = start
		}
	} else if end.Before(start) {
		// An inverted range is a range error, not a parse error: clamp it
		// so the item stays visible on its start day.
		appLog.Warn("normalize: clamping inverted event range", "account", accountID, "event", ev.ID)
		end = start
	}

	return model.ScheduleItem{
		ID:          EventItemID(ev.ID),
		Kind:        model.KindEvent,
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       start,
		End:         end,
		AllDay:      ev.AllDay,
		Source: model.SourceRef{
			Kind:      model.KindEvent,
			AccountID: accountID,
			EventID:   ev.ID,
		},
	}, nil
}

func normalizeTask(accountID string, task model.Task, loc *time.Location) (model.ScheduleItem, bool) {
	if task.Due == nil || task.Completed {
		return model.ScheduleItem{}, false
	}

	// A task occupies exactly its due day.
	due := dateutil.DateOf(*task.Due, loc).Noon(loc)

	return model.ScheduleItem{
		ID:          TaskItemID(task.TaskListID, task.ID),
		Kind:        model.KindTask,
		Title:       task.Title,
		Description: task.Notes,
		Start:       due,
		End:         due,
		AllDay:      true,
		Source: model.SourceRef{
			Kind:       model.KindTask,
			AccountID:  accountID,
			TaskListID: task.TaskListID,
			TaskID:     task.ID,
		},
	}, true
}
