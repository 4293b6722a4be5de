// Package schedule drives the calendar view: it fetches the events of the viewed month,
// tracks the loading state and refreshes when the notification bus fires.
package schedule

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/core/notify"
)

var ErrFetchFailed = errors.New("fetching events failed")

type (
	// FetchRequest selects the events of an owner for one month (1-based).
	FetchRequest struct {
		OwnerID string
		Year    int
		Month   int
	}

	FetchResponse struct {
		Success bool             `json:"success"`
		Data    []calendar.Event `json:"data"`
		Message string           `json:"message,omitempty"`
	}

	Fetcher interface {
		FetchEvents(ctx context.Context, req FetchRequest) (FetchResponse, error)
	}
)

type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Controller owns the events snapshot of the viewed month.
// A failed fetch keeps the last good snapshot; responses for a month that is no longer
// viewed are discarded.
type Controller struct {
	ownerID string
	fetcher Fetcher
	bus     *notify.Bus
	log     core.Logger
	vm      *calendar.ViewModel

	mu          sync.Mutex
	state       State
	err         error
	unsubscribe func()
	onChange    func()
}

func NewController(ownerID string, fetcher Fetcher, bus *notify.Bus, logger core.Logger) *Controller {
	return &Controller{
		ownerID: ownerID,
		fetcher: fetcher,
		bus:     bus,
		log:     logger,
		vm:      calendar.NewViewModel(),
	}
}

// OnChange registers fn, called after every state or grid change.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Mount subscribes to the bus and loads the current month.
func (c *Controller) Mount(ctx context.Context) error {
	unsubscribe := c.bus.Subscribe(c.Reload)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return c.Load(ctx, c.vm.Cursor())
}

// Unmount releases the bus subscription.
func (c *Controller) Unmount() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Load moves the view to cursor and fetches its events.
func (c *Controller) Load(ctx context.Context, cursor calendar.MonthCursor) error {
	cursor = c.vm.SetCursor(cursor)
	c.setState(Loading, nil)

	resp, err := c.fetcher.FetchEvents(ctx, FetchRequest{
		OwnerID: c.ownerID,
		Year:    cursor.Year,
		Month:   int(cursor.Month),
	})
	if err == nil && !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "unsuccessful response"
		}
		err = errors.New(msg)
	}

	if err != nil {
		c.mu.Lock()
		if c.vm.Cursor() != cursor {
			c.mu.Unlock()
			c.discard(cursor)
			return nil
		}
		err = errors.Wrapf(ErrFetchFailed, "%s: %v", cursor, err)
		c.state, c.err = Failed, err
		c.mu.Unlock()
		c.log.Warn("schedule: fetch failed", err)
		c.changed()
		return err
	}

	c.mu.Lock()
	if !c.vm.SetEventsFor(cursor, resp.Data) {
		c.mu.Unlock()
		c.discard(cursor)
		return nil
	}
	c.state, c.err = Ready, nil
	c.mu.Unlock()
	c.changed()
	return nil
}

func (c *Controller) discard(requested calendar.MonthCursor) {
	c.log.Debug("schedule: discarding stale response", map[string]interface{}{
		"requested": requested.String(),
		"current":   c.vm.Cursor().String(),
	})
}

func (c *Controller) setState(state State, err error) {
	c.mu.Lock()
	c.state, c.err = state, err
	c.mu.Unlock()
	c.changed()
}

// Reload refetches the viewed month.
func (c *Controller) Reload(ctx context.Context) error {
	return c.Load(ctx, c.vm.Cursor())
}

func (c *Controller) GoToPreviousMonth(ctx context.Context) error {
	return c.Load(ctx, c.vm.Cursor().Prev())
}

func (c *Controller) GoToNextMonth(ctx context.Context) error {
	return c.Load(ctx, c.vm.Cursor().Next())
}

// GoToToday views the current month with today selected.
func (c *Controller) GoToToday(ctx context.Context) error {
	return c.Load(ctx, c.vm.GoToToday())
}

func (c *Controller) Select(d calendar.Date) {
	c.vm.Select(d)
	c.changed()
}

func (c *Controller) Grid() calendar.MonthGrid { return c.vm.Grid() }

func (c *Controller) Cursor() calendar.MonthCursor { return c.vm.Cursor() }

func (c *Controller) Selected() calendar.Date { return c.vm.Selected() }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
