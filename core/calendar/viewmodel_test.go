package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockNow(t *testing.T, now time.Time) {
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
}

func TestBuildMonthGrid(t *testing.T) {
	cursor := MonthCursor{Year: 2024, Month: time.March}
	today := MustParseDate("2024-03-14")
	events := []Event{
		newTestEvent("1", "2024-03-14", "2024-03-16"),
		newTestEvent("2", "2024-02-26", "2024-02-26"),
	}

	grid := BuildMonthGrid(cursor, events, today, MustParseDate("2024-03-15"))
	assert.Equal(t, "2024-02-25", grid.First().Key())
	assert.Equal(t, "2024-04-06", grid.Last().Key())
	assert.Len(t, grid.Weeks(), 6)

	var currentMonth int
	for _, cell := range grid.Cells {
		if cell.IsCurrentMonth {
			currentMonth++
		}
	}
	assert.Equal(t, 31, currentMonth)

	cell, ok := grid.Cell(today)
	require.True(t, ok)
	assert.True(t, cell.IsToday)
	assert.False(t, cell.IsSelected)
	assert.Len(t, cell.Events, 1)

	cell, _ = grid.Cell(MustParseDate("2024-03-15"))
	assert.True(t, cell.IsSelected)
	assert.False(t, cell.IsToday)

	// adjacent month cells carry their own events
	cell, _ = grid.Cell(MustParseDate("2024-02-26"))
	assert.False(t, cell.IsCurrentMonth)
	assert.Len(t, cell.Events, 1)

	_, ok = grid.Cell(MustParseDate("2024-04-07"))
	assert.False(t, ok)

	// same inputs, same grid
	assert.Equal(t, grid, BuildMonthGrid(cursor, events, today, MustParseDate("2024-03-15")))
}

func TestViewModelNavigation(t *testing.T) {
	mockNow(t, time.Date(2024, time.January, 31, 10, 0, 0, 0, time.Local))

	vm := NewViewModel()
	assert.Equal(t, MonthCursor{2024, time.January}, vm.Cursor())
	assert.True(t, vm.Selected().IsZero())

	// day 31 never overflows into March
	assert.Equal(t, MonthCursor{2024, time.February}, vm.GoToNextMonth())
	assert.Equal(t, MonthCursor{2024, time.January}, vm.GoToPreviousMonth())
	assert.Equal(t, MonthCursor{2023, time.December}, vm.GoToPreviousMonth())
	assert.Equal(t, "2023-11-26", vm.Grid().First().Key())

	vm.Select(MustParseDate("2023-12-25"))
	cell, _ := vm.Grid().Cell(MustParseDate("2023-12-25"))
	assert.True(t, cell.IsSelected)

	assert.Equal(t, MonthCursor{2024, time.January}, vm.GoToToday())
	assert.Equal(t, MustParseDate("2024-01-31"), vm.Selected())
	cell, _ = vm.Grid().Cell(MustParseDate("2024-01-31"))
	assert.True(t, cell.IsToday)
	assert.True(t, cell.IsSelected)
}

func TestViewModelSetEvents(t *testing.T) {
	mockNow(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local))

	vm := NewViewModel()
	vm.SetEvents([]Event{newTestEvent("1", "2024-03-14", "2024-03-16")})

	for _, key := range []string{"2024-03-14", "2024-03-15", "2024-03-16"} {
		cell, ok := vm.Grid().Cell(MustParseDate(key))
		require.True(t, ok)
		assert.Len(t, cell.Events, 1, key)
	}
	cell, _ := vm.Grid().Cell(MustParseDate("2024-03-17"))
	assert.Empty(t, cell.Events)

	vm.SetEvents(nil)
	cell, _ = vm.Grid().Cell(MustParseDate("2024-03-14"))
	assert.Empty(t, cell.Events)
}

func TestViewModelSetEventsFor(t *testing.T) {
	mockNow(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local))

	vm := NewViewModel()
	march := vm.Cursor()
	april := vm.GoToNextMonth()

	// a late March response after moving to April is dropped
	assert.False(t, vm.SetEventsFor(march, []Event{newTestEvent("1", "2024-03-31", "2024-04-02")}))
	assert.Empty(t, vm.Events())
	cell, ok := vm.Grid().Cell(MustParseDate("2024-04-01"))
	require.True(t, ok)
	assert.Empty(t, cell.Events)

	assert.True(t, vm.SetEventsFor(april, []Event{newTestEvent("2", "2024-04-01", "2024-04-01")}))
	cell, _ = vm.Grid().Cell(MustParseDate("2024-04-01"))
	require.Len(t, cell.Events, 1)
	assert.Equal(t, EventID("2"), cell.Events[0].ID)
}
