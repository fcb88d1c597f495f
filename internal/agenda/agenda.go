// Package agenda owns the in-memory snapshot of every configured
// account and derives calendar views from it. Stores are pulled on
// refresh; all view computation is pure and happens on the snapshot, so
// a slow or broken backend can never block rendering.
package agenda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"daydesk/internal/dateutil"
	appLog "daydesk/internal/log"
	"daydesk/internal/model"
	"daydesk/internal/schedule"
	"daydesk/internal/store"
)

// Account couples the stores of one configured account. Either side may
// be nil (an ICS subscription has no tasks, a tasks-only account has no
// events).
type Account struct {
	ID     string
	Events store.EventStore
	Tasks  store.TaskStore
}

// accountData is the raw snapshot pulled from one account.
type accountData struct {
	events []model.Event
	tasks  []model.Task
}

// Service holds the latest snapshot and answers view queries.
type Service struct {
	loc       *time.Location
	weekStart time.Weekday
	accounts  []Account

	mu          sync.RWMutex
	data        map[string]*accountData
	refreshedAt time.Time
}

func New(loc *time.Location, weekStart time.Weekday, accounts []Account) *Service {
	return &Service{
		loc:       loc,
		weekStart: weekStart,
		accounts:  accounts,
		data:      make(map[string]*accountData),
	}
}

// Refresh pulls every account's events and tasks into the snapshot.
// Per-account failures are logged and leave that account's previous data
// in place; Refresh only errors when every account failed.
func (s *Service) Refresh(ctx context.Context) error {
	var firstErr error
	failed := 0

	for _, acct := range s.accounts {
		data, err := s.pull(ctx, acct)
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			appLog.Error("agenda refresh: account failed, keeping previous snapshot", err, "account", acct.ID)
			continue
		}
		s.mu.Lock()
		s.data[acct.ID] = data
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	if failed == len(s.accounts) && failed > 0 {
		return fmt.Errorf("agenda refresh: all %d accounts failed: %w", failed, firstErr)
	}
	return nil
}

func (s *Service) pull(ctx context.Context, acct Account) (*accountData, error) {
	data := &accountData{}

	if acct.Events != nil {
		events, err := acct.Events.ListEvents(ctx)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		data.events = events
	}

	if acct.Tasks != nil {
		lists, err := acct.Tasks.ListTaskLists(ctx)
		if err != nil {
			return nil, fmt.Errorf("list task lists: %w", err)
		}
		for _, list := range lists {
			tasks, err := acct.Tasks.ListTasks(ctx, list.ID)
			if err != nil {
				return nil, fmt.Errorf("list tasks %s: %w", list.ID, err)
			}
			data.tasks = append(data.tasks, tasks...)
		}
	}

	return data, nil
}

// Items returns the normalized schedule items of the current snapshot,
// account order first, events before tasks within an account. The order
// is deterministic for identical snapshots.
func (s *Service) Items() []model.ScheduleItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.ScheduleItem, 0)
	for _, acct := range s.accounts {
		data, ok := s.data[acct.ID]
		if !ok {
			continue
		}
		items = append(items, schedule.Normalize(acct.ID, data.events, data.tasks, s.loc)...)
	}
	return items
}

// RefreshedAt reports when the snapshot was last pulled.
func (s *Service) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// View is one computed calendar view: the visible items in order, their
// day buckets, and for grid modes the packed lane rows per week.
type View struct {
	Mode       schedule.Mode
	RangeStart time.Time
	RangeEnd   time.Time

	Items   []model.ScheduleItem
	Buckets schedule.DayBuckets
	Weeks   []schedule.WeekLanes
}

// ViewAt computes the view for a mode around a reference instant. Day
// mode carries no lane rows; week mode one; month mode one per grid row.
func (s *Service) ViewAt(mode schedule.Mode, ref time.Time) View {
	rangeStart, rangeEnd := schedule.VisibleRange(mode, ref, s.weekStart, s.loc)
	visible := schedule.FilterRange(s.Items(), rangeStart, rangeEnd, s.loc)

	view := View{
		Mode:       mode,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Items:      visible,
		Buckets:    schedule.BucketByDay(visible, s.loc),
	}

	switch mode {
	case schedule.ModeWeek:
		view.Weeks = []schedule.WeekLanes{
			schedule.PackWeek(visible, dateutil.DateOf(rangeStart, s.loc), s.loc),
		}
	case schedule.ModeMonth:
		view.Weeks = schedule.PackMonth(visible,
			dateutil.DateOf(rangeStart, s.loc),
			dateutil.DateOf(rangeEnd, s.loc),
			s.loc)
	}

	return view
}

func (s *Service) account(id string) (Account, error) {
	for _, acct := range s.accounts {
		if acct.ID == id {
			return acct, nil
		}
	}
	return Account{}, fmt.Errorf("account %s: %w", id, store.ErrNotFound)
}
