package inmemdb

import (
	"sync"

	"github.com/trezcool/ratiba/core/calendar"
)

type (
	DB struct {
		event *eventTable
	}

	eventTable struct {
		sync.RWMutex
		table map[calendar.EventID]*calendar.Event
		order []calendar.EventID // insertion order
	}
)

func Open() (*DB, error) {
	db := &DB{
		event: &eventTable{table: make(map[calendar.EventID]*calendar.Event)},
	}
	return db, nil
}
