package agenda

import (
	"context"
	"fmt"
	"time"

	"daydesk/internal/model"
	"daydesk/internal/schedule"
	"daydesk/internal/store"
)

// EventEdit is a requested create, update or delete of one event.
// EventID empty means create; Delete true wins over field updates.
// Start/End are the user-entered strings the time resolver interprets.
type EventEdit struct {
	AccountID string `json:"account_id"`
	EventID   string `json:"event_id,omitempty"`
	Delete    bool   `json:"delete,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	AllDay      bool   `json:"all_day"`
	Start       string `json:"start"`
	End         string `json:"end"`

	// Now overrides the defaulting clock (tests).
	Now func() time.Time `json:"-"`
}

// CommitEvent resolves the edit's times, routes it to the owning store
// and patches the snapshot with the result. A reference to a record the
// store no longer has surfaces as store.ErrNotFound; the snapshot is
// left untouched in that case.
func (s *Service) CommitEvent(ctx context.Context, edit EventEdit) (model.Event, error) {
	acct, err := s.account(edit.AccountID)
	if err != nil {
		return model.Event{}, err
	}
	if acct.Events == nil {
		return model.Event{}, fmt.Errorf("account %s has no event store: %w", edit.AccountID, store.ErrNotFound)
	}

	if edit.Delete {
		if err := acct.Events.DeleteEvent(ctx, edit.EventID); err != nil {
			return model.Event{}, err
		}
		s.dropEvent(edit.AccountID, edit.EventID)
		return model.Event{ID: edit.EventID}, nil
	}

	start, end, err := schedule.ResolveTimes(schedule.ResolveInput{
		AllDay: edit.AllDay,
		Start:  edit.Start,
		End:    edit.End,
		Now:    edit.Now,
	}, s.loc)
	if err != nil {
		return model.Event{}, err
	}

	ev := model.Event{
		ID:          edit.EventID,
		Title:       edit.Title,
		Description: edit.Description,
		Location:    edit.Location,
		AllDay:      edit.AllDay,
		Start:       start,
		End:         end,
	}

	var committed model.Event
	if edit.EventID == "" {
		committed, err = acct.Events.CreateEvent(ctx, ev)
	} else {
		committed, err = acct.Events.SaveEvent(ctx, ev)
	}
	if err != nil {
		return model.Event{}, err
	}

	s.upsertEvent(edit.AccountID, committed)
	return committed, nil
}

// TaskEdit is a requested save of one task. TaskID empty means create.
type TaskEdit struct {
	AccountID  string `json:"account_id"`
	TaskListID string `json:"task_list_id"`
	TaskID     string `json:"task_id,omitempty"`

	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Due       string `json:"due"` // "YYYY-MM-DD" or empty to clear
	Completed bool   `json:"completed"`

	Now func() time.Time `json:"-"`
}

// CommitTask resolves the due date and routes the save to the owning
// task store.
func (s *Service) CommitTask(ctx context.Context, edit TaskEdit) (model.Task, error) {
	acct, err := s.account(edit.AccountID)
	if err != nil {
		return model.Task{}, err
	}
	if acct.Tasks == nil {
		return model.Task{}, fmt.Errorf("account %s has no task store: %w", edit.AccountID, store.ErrNotFound)
	}

	task := model.Task{
		ID:         edit.TaskID,
		TaskListID: edit.TaskListID,
		Title:      edit.Title,
		Notes:      edit.Notes,
		Completed:  edit.Completed,
	}

	if edit.Due != "" {
		// A due date is all-day by nature; reuse the resolver so the
		// committed instant round-trips to the same calendar day.
		due, _, rerr := schedule.ResolveTimes(schedule.ResolveInput{
			AllDay: true,
			Start:  edit.Due,
			Now:    edit.Now,
		}, s.loc)
		if rerr != nil {
			return model.Task{}, rerr
		}
		task.Due = &due
	}

	committed, err := acct.Tasks.SaveTask(ctx, edit.TaskListID, task)
	if err != nil {
		return model.Task{}, err
	}

	s.upsertTask(edit.AccountID, committed)
	return committed, nil
}

func (s *Service) upsertEvent(accountID string, ev model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.ensureData(accountID)
	for i := range data.events {
		if data.events[i].ID == ev.ID {
			data.events[i] = ev
			return
		}
	}
	data.events = append(data.events, ev)
}

func (s *Service) dropEvent(accountID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.ensureData(accountID)
	for i := range data.events {
		if data.events[i].ID == id {
			data.events = append(data.events[:i], data.events[i+1:]...)
			return
		}
	}
}

func (s *Service) upsertTask(accountID string, task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.ensureData(accountID)
	for i := range data.tasks {
		if data.tasks[i].ID == task.ID && data.tasks[i].TaskListID == task.TaskListID {
			data.tasks[i] = task
			return
		}
	}
	data.tasks = append(data.tasks, task)
}

// ensureData must be called with s.mu held.
func (s *Service) ensureData(accountID string) *accountData {
	data, ok := s.data[accountID]
	if !ok {
		data = &accountData{}
		s.data[accountID] = data
	}
	return data
}
