package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daydesk/internal/model"
	"daydesk/internal/store"
)

func TestMemoryEventsCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemoryEvents()

	created, err := m.CreateEvent(ctx, model.Event{
		Title: "Dentist",
		Start: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Title = "Dentist (moved)"
	saved, err := m.SaveEvent(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Dentist (moved)", saved.Title)

	events, err := m.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, saved, events[0])

	require.NoError(t, m.DeleteEvent(ctx, created.ID))
	events, err = m.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMemoryEventsNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemoryEvents()

	_, err := m.SaveEvent(ctx, model.Event{ID: "ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = m.DeleteEvent(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryEventsListOrderIsInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemoryEvents()

	for _, title := range []string{"a", "b", "c"} {
		_, err := m.CreateEvent(ctx, model.Event{
			Title: title,
			Start: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	events, err := m.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[0].Title)
	assert.Equal(t, "b", events[1].Title)
	assert.Equal(t, "c", events[2].Title)
}

func TestMemoryTasksSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemoryTasks()

	lists, err := m.ListTaskLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	listID := lists[0].ID

	due := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	created, err := m.SaveTask(ctx, listID, model.Task{Title: "Pay rent", Due: &due})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Completed = true
	updated, err := m.SaveTask(ctx, listID, created)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	tasks, err := m.ListTasks(ctx, listID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, updated, tasks[0])
}

func TestMemoryTasksNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemoryTasks()

	_, err := m.ListTasks(ctx, "no-such-list")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = m.SaveTask(ctx, "default", model.Task{ID: "ghost", Title: "stale edit"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
