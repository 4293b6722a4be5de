package calendar

import (
	"fmt"
	"time"
)

// GridSize is the number of cells in a month grid: 6 full Sunday-first weeks.
const GridSize = 42

// MonthCursor identifies the month being viewed.
type MonthCursor struct {
	Year  int
	Month time.Month
}

// CursorOf returns the month containing d.
func CursorOf(d Date) MonthCursor {
	return MonthCursor{Year: d.Year, Month: d.Month}
}

// NewCursor normalizes a zero-based month index (eg. 12 -> January of the next year).
func NewCursor(year, monthIndex int) MonthCursor {
	return CursorOf(NewDate(year, time.Month(monthIndex+1), 1))
}

func (c MonthCursor) FirstDay() Date { return Date{Year: c.Year, Month: c.Month, Day: 1} }

func (c MonthCursor) LastDay() Date { return NewDate(c.Year, c.Month+1, 0) }

// AddMonths shifts the cursor by n calendar months.
func (c MonthCursor) AddMonths(n int) MonthCursor {
	return NewCursor(c.Year, c.Index()+n)
}

func (c MonthCursor) Next() MonthCursor { return c.AddMonths(1) }

func (c MonthCursor) Prev() MonthCursor { return c.AddMonths(-1) }

// Index returns the zero-based month index.
func (c MonthCursor) Index() int { return int(c.Month) - 1 }

func (c MonthCursor) Contains(d Date) bool {
	return d.Year == c.Year && d.Month == c.Month
}

func (c MonthCursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Grid returns the 42 dates displayed for the cursor's month.
func (c MonthCursor) Grid() [GridSize]Date {
	return BuildDateGrid(c.Year, c.Index())
}

// BuildDateGrid returns the 42 consecutive dates starting on the Sunday on or before
// the first day of the month. monthIndex is zero-based and normalized.
func BuildDateGrid(year, monthIndex int) [GridSize]Date {
	var grid [GridSize]Date
	first := NewCursor(year, monthIndex).FirstDay()
	start := first.AddDays(-int(first.Weekday()))
	for i := range grid {
		grid[i] = start.AddDays(i)
	}
	return grid
}
