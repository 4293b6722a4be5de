// Package notify implements the single-slot bus through which the chat assistant
// asks the schedule view to refresh.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

// Handler is invoked on each Publish.
type Handler func(ctx context.Context) error

// Bus holds at most one Handler; the last Subscribe wins.
type Bus struct {
	log core.Logger

	mu      sync.Mutex
	handler *Handler
	wg      sync.WaitGroup
}

func NewBus(logger core.Logger) *Bus {
	return &Bus{log: logger}
}

// Subscribe registers h, replacing any previous handler.
// The returned func clears the slot only if it still holds h.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	slot := &h
	b.mu.Lock()
	b.handler = slot
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.handler == slot {
			b.handler = nil
		}
	}
}

// Subscribed reports whether a handler is registered.
func (b *Bus) Subscribed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handler != nil
}

// Publish runs the current handler on its own goroutine and returns immediately.
// It is a no-op without a subscriber. Handler errors and panics are logged, never returned.
func (b *Bus) Publish(ctx context.Context) {
	b.mu.Lock()
	slot := b.handler
	b.mu.Unlock()
	if slot == nil {
		return
	}
	h := *slot

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.log.Error("notify: handler panicked", errors.New(fmt.Sprint(r)))
			}
		}()
		if err := h(context.WithoutCancel(ctx)); err != nil {
			b.log.Error("notify: handler failed", err)
		}
	}()
}

// Wait blocks until every in-flight handler has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TriggerEventUpdate tells the subscriber that schedule data changed. It always returns nil.
func (b *Bus) TriggerEventUpdate(ctx context.Context) error {
	b.Publish(ctx)
	return nil
}
