package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"daydesk/internal/model"
)

// MemoryEvents is an in-process EventStore. It backs standalone runs
// (no external account configured) and tests. List order is insertion
// order, which keeps downstream sorting deterministic.
type MemoryEvents struct {
	mu     sync.RWMutex
	order  []string
	events map[string]model.Event
}

func NewMemoryEvents() *MemoryEvents {
	return &MemoryEvents{events: make(map[string]model.Event)}
}

func (m *MemoryEvents) ListEvents(_ context.Context) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Event, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.events[id])
	}
	return out, nil
}

func (m *MemoryEvents) CreateEvent(_ context.Context, ev model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if _, exists := m.events[ev.ID]; exists {
		return model.Event{}, fmt.Errorf("event %s already exists", ev.ID)
	}
	m.events[ev.ID] = ev
	m.order = append(m.order, ev.ID)
	return ev, nil
}

func (m *MemoryEvents) SaveEvent(_ context.Context, ev model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.events[ev.ID]; !exists {
		return model.Event{}, fmt.Errorf("save event %s: %w", ev.ID, ErrNotFound)
	}
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *MemoryEvents) DeleteEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.events[id]; !exists {
		return fmt.Errorf("delete event %s: %w", id, ErrNotFound)
	}
	delete(m.events, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryTasks is an in-process TaskStore with a single default list
// unless others are added via AddList.
type MemoryTasks struct {
	mu    sync.RWMutex
	lists []model.TaskList
	// tasks preserves insertion order per list.
	tasks map[string][]model.Task
}

const defaultTaskListID = "default"

func NewMemoryTasks() *MemoryTasks {
	return &MemoryTasks{
		lists: []model.TaskList{{ID: defaultTaskListID, Title: "Tasks"}},
		tasks: map[string][]model.Task{defaultTaskListID: {}},
	}
}

// AddList registers an additional task list.
func (m *MemoryTasks) AddList(list model.TaskList) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, list)
	if _, ok := m.tasks[list.ID]; !ok {
		m.tasks[list.ID] = []model.Task{}
	}
}

func (m *MemoryTasks) ListTaskLists(_ context.Context) ([]model.TaskList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.TaskList, len(m.lists))
	copy(out, m.lists)
	return out, nil
}

func (m *MemoryTasks) ListTasks(_ context.Context, taskListID string) ([]model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks, ok := m.tasks[taskListID]
	if !ok {
		return nil, fmt.Errorf("task list %s: %w", taskListID, ErrNotFound)
	}
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// SaveTask updates a task in place, or appends it when the id is new or
// empty. Unknown lists are an error; unknown ids with a non-empty id are
// ErrNotFound so a stale edit does not silently resurrect a task.
func (m *MemoryTasks) SaveTask(_ context.Context, taskListID string, task model.Task) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks, ok := m.tasks[taskListID]
	if !ok {
		return model.Task{}, fmt.Errorf("task list %s: %w", taskListID, ErrNotFound)
	}

	task.TaskListID = taskListID
	if task.ID == "" {
		task.ID = uuid.NewString()
		m.tasks[taskListID] = append(tasks, task)
		return task, nil
	}

	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			return task, nil
		}
	}
	return model.Task{}, fmt.Errorf("save task %s: %w", task.ID, ErrNotFound)
}
