package calendar

import (
	"sync"
	"time"
)

var NowFunc = time.Now // mockable

// DayCell is one day of a MonthGrid.
type DayCell struct {
	Date           Date
	IsCurrentMonth bool
	IsToday        bool
	IsSelected     bool
	Events         []Event
}

// MonthGrid is the render-ready matrix for a month: 6 weeks of 7 days, Sunday first.
type MonthGrid struct {
	Cursor MonthCursor
	Cells  [GridSize]DayCell
}

func (g MonthGrid) First() Date { return g.Cells[0].Date }

func (g MonthGrid) Last() Date { return g.Cells[GridSize-1].Date }

// Weeks splits the cells into 6 rows of 7 days.
func (g MonthGrid) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, GridSize/7)
	for i := 0; i < GridSize; i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}

// Cell returns the cell for d, if d is displayed.
func (g MonthGrid) Cell(d Date) (DayCell, bool) {
	idx := g.First().DaysUntil(d)
	if idx < 0 || idx >= GridSize {
		return DayCell{}, false
	}
	return g.Cells[idx], true
}

// BuildMonthGrid merges the date skeleton of cursor with the binned events.
func BuildMonthGrid(cursor MonthCursor, events []Event, today, selected Date) MonthGrid {
	dates := cursor.Grid()
	bins := BinEvents(events, dates[0], dates[GridSize-1])
	grid := MonthGrid{Cursor: cursor}
	for i, d := range dates {
		grid.Cells[i] = DayCell{
			Date:           d,
			IsCurrentMonth: cursor.Contains(d),
			IsToday:        d == today,
			IsSelected:     !selected.IsZero() && d == selected,
			Events:         bins.On(d),
		}
	}
	return grid
}

// ViewModel owns the month cursor, the selected day and the events snapshot,
// and keeps the MonthGrid built from them.
type ViewModel struct {
	mu       sync.RWMutex
	cursor   MonthCursor
	selected Date
	events   []Event
	grid     MonthGrid
}

// NewViewModel returns a ViewModel positioned on the current month.
func NewViewModel() *ViewModel {
	vm := &ViewModel{cursor: CursorOf(Today())}
	vm.rebuild()
	return vm
}

// rebuild must be called with mu held.
func (vm *ViewModel) rebuild() {
	vm.grid = BuildMonthGrid(vm.cursor, vm.events, Today(), vm.selected)
}

func (vm *ViewModel) Cursor() MonthCursor {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.cursor
}

func (vm *ViewModel) Selected() Date {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.selected
}

func (vm *ViewModel) Grid() MonthGrid {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.grid
}

// Events returns the current snapshot.
func (vm *ViewModel) Events() []Event {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.events
}

// SetCursor moves the view to cursor and returns it.
func (vm *ViewModel) SetCursor(cursor MonthCursor) MonthCursor {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cursor = NewCursor(cursor.Year, cursor.Index())
	vm.rebuild()
	return vm.cursor
}

func (vm *ViewModel) GoToPreviousMonth() MonthCursor {
	return vm.SetCursor(vm.Cursor().Prev())
}

func (vm *ViewModel) GoToNextMonth() MonthCursor {
	return vm.SetCursor(vm.Cursor().Next())
}

// GoToToday moves to the current month and selects today.
func (vm *ViewModel) GoToToday() MonthCursor {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	today := Today()
	vm.cursor = CursorOf(today)
	vm.selected = today
	vm.rebuild()
	return vm.cursor
}

// Select marks d as the selected day; the cursor does not move.
func (vm *ViewModel) Select(d Date) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.selected = d
	vm.rebuild()
}

// SetEvents replaces the events snapshot.
func (vm *ViewModel) SetEvents(events []Event) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.events = events
	vm.rebuild()
}

// SetEventsFor replaces the events snapshot only if the view is still on cursor.
// It reports whether the snapshot was installed.
func (vm *ViewModel) SetEventsFor(cursor MonthCursor, events []Event) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.cursor != cursor {
		return false
	}
	vm.events = events
	vm.rebuild()
	return true
}
