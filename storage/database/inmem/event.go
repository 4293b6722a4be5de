package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/ratiba/core/calendar"
)

type eventRepository struct {
	db *eventTable
}

var _ calendar.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db.event}
}

// query must be called with the table lock held.
func (repo *eventRepository) query() []calendar.Event {
	events := make([]calendar.Event, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		events = append(events, *repo.db.table[id])
	}
	return events
}

func (repo *eventRepository) QueryEvents(_ context.Context, filter calendar.QueryFilter) ([]calendar.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]calendar.Event, 0)
	for _, ev := range repo.query() {
		if filter.OwnerID != "" && ev.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Title != "" && !strings.EqualFold(ev.Title, filter.Title) {
			continue
		}
		start, end := ev.Span()
		if !filter.From.IsZero() && end.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && start.After(filter.To) {
			continue
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) })
	return events, nil
}

func (repo *eventRepository) GetEvent(_ context.Context, ownerID string, id calendar.EventID) (calendar.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ev, ok := repo.db.table[id]; ok && ev.OwnerID == ownerID {
		return *ev, nil
	}
	return calendar.Event{}, calendar.ErrNotFound
}

func (repo *eventRepository) CreateEvent(_ context.Context, ev calendar.Event) (calendar.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ev.ID]; ok {
		return calendar.Event{}, calendar.ErrDuplicateID
	}
	repo.db.order = append(repo.db.order, ev.ID)
	repo.db.table[ev.ID] = &ev
	return ev, nil
}

func (repo *eventRepository) UpdateEvent(_ context.Context, ev calendar.Event) (calendar.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[ev.ID]
	if !ok || orig.OwnerID != ev.OwnerID {
		return calendar.Event{}, calendar.ErrNotFound
	}
	*orig = ev
	return ev, nil
}

func (repo *eventRepository) DeleteEvent(_ context.Context, ownerID string, id calendar.EventID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	ev, ok := repo.db.table[id]
	if !ok || ev.OwnerID != ownerID {
		return calendar.ErrNotFound
	}
	delete(repo.db.table, id)
	for i, oid := range repo.db.order {
		if oid == id {
			repo.db.order = append(repo.db.order[:i], repo.db.order[i+1:]...)
			break
		}
	}
	return nil
}
