package calendar

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// errors
var (
	ErrNotFound    = errors.New("event not found")
	ErrDuplicateID = errors.New("event id already taken")
)

type (
	Repository interface {
		// QueryEvents applies AND operation on available QueryFilter fields.
		// From/To select the events overlapping the range.
		QueryEvents(ctx context.Context, filter QueryFilter) ([]Event, error)
		GetEvent(ctx context.Context, ownerID string, id EventID) (Event, error)
		// CreateEvent fails with ErrDuplicateID when ev.ID is already stored.
		CreateEvent(ctx context.Context, ev Event) (Event, error)
		UpdateEvent(ctx context.Context, ev Event) (Event, error)
		DeleteEvent(ctx context.Context, ownerID string, id EventID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListMonth returns the owner's events overlapping the cursor's month, ordered by start.
func (svc *Service) ListMonth(ctx context.Context, ownerID string, cursor MonthCursor) ([]Event, error) {
	return svc.repo.QueryEvents(ctx, QueryFilter{
		OwnerID: ownerID,
		From:    cursor.FirstDay(),
		To:      cursor.LastDay(),
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return svc.repo.QueryEvents(ctx, filter)
}

func (svc *Service) Get(ctx context.Context, ownerID string, id EventID) (Event, error) {
	return svc.repo.GetEvent(ctx, ownerID, id)
}

// Create stores the event converted from a validated NewEvent.
func (svc *Service) Create(ctx context.Context, ownerID string, ne NewEvent) (Event, error) {
	ev := ne.Event(ownerID)
	ev.ID = EventID(uuid.New().String())
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return svc.repo.CreateEvent(ctx, ev)
}

// Import stores an already built event, keeping its identity unless it is missing or taken.
func (svc *Service) Import(ctx context.Context, ev Event) (Event, error) {
	if ev.ID == "" {
		ev.ID = EventID(uuid.New().String())
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	created, err := svc.repo.CreateEvent(ctx, ev)
	if errors.Cause(err) == ErrDuplicateID {
		ev.ID = EventID(uuid.New().String())
		return svc.repo.CreateEvent(ctx, ev)
	}
	return created, err
}

// Update applies a validated UpdateEvent on the original event.
func (svc *Service) Update(ctx context.Context, orig Event, ue UpdateEvent) (Event, error) {
	ev := ue.Apply(orig)
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return svc.repo.UpdateEvent(ctx, ev)
}

func (svc *Service) Delete(ctx context.Context, ownerID string, id EventID) error {
	return svc.repo.DeleteEvent(ctx, ownerID, id)
}

// DeleteByTitle deletes the owner's events titled title occurring on d, and returns how many.
func (svc *Service) DeleteByTitle(ctx context.Context, ownerID, title string, d Date) (int, error) {
	events, err := svc.repo.QueryEvents(ctx, QueryFilter{OwnerID: ownerID, From: d, To: d, Title: title})
	if err != nil {
		return 0, errors.Wrap(err, "querying events")
	}
	for _, ev := range events {
		if err := svc.repo.DeleteEvent(ctx, ownerID, ev.ID); err != nil {
			return 0, errors.Wrapf(err, "deleting event %s", ev.ID)
		}
	}
	return len(events), nil
}
