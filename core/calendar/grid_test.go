package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDateGrid(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		monthIndex int
		wantFirst  string
		wantLast   string
	}{
		{name: "march 2024", year: 2024, monthIndex: 2, wantFirst: "2024-02-25", wantLast: "2024-04-06"},
		{name: "month starting on sunday", year: 2023, monthIndex: 9, wantFirst: "2023-10-01", wantLast: "2023-11-11"},
		{name: "year boundary", year: 2025, monthIndex: 0, wantFirst: "2024-12-29", wantLast: "2025-02-08"},
		{name: "february leap year", year: 2024, monthIndex: 1, wantFirst: "2024-01-28", wantLast: "2024-03-09"},
		{name: "index 12 rolls over", year: 2024, monthIndex: 12, wantFirst: "2024-12-29", wantLast: "2025-02-08"},
		{name: "index -1 rolls back", year: 2025, monthIndex: -1, wantFirst: "2024-12-01", wantLast: "2025-01-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := BuildDateGrid(tt.year, tt.monthIndex)
			assert.Equal(t, tt.wantFirst, grid[0].Key())
			assert.Equal(t, tt.wantLast, grid[GridSize-1].Key())
		})
	}
}

func TestBuildDateGridProperties(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for idx := 0; idx < 12; idx++ {
			grid := BuildDateGrid(year, idx)
			cursor := NewCursor(year, idx)

			if !assert.Len(t, grid, GridSize) {
				return
			}
			assert.Equal(t, time.Sunday, grid[0].Weekday(), "%s starts on %s", cursor, grid[0].Weekday())
			for i := 1; i < GridSize; i++ {
				assert.Equal(t, grid[i-1].AddDays(1), grid[i], "%s cell %d", cursor, i)
			}
			assert.True(t, cursor.FirstDay().Between(grid[0], grid[GridSize-1]), "%s misses its first day", cursor)
			assert.True(t, cursor.LastDay().Between(grid[0], grid[GridSize-1]), "%s misses its last day", cursor)
		}
	}
}

func TestMonthCursor(t *testing.T) {
	tests := []struct {
		name     string
		cursor   MonthCursor
		months   int
		want     MonthCursor
		wantLast string
	}{
		{name: "next", cursor: MonthCursor{2024, time.March}, months: 1, want: MonthCursor{2024, time.April}, wantLast: "2024-04-30"},
		{name: "prev", cursor: MonthCursor{2024, time.March}, months: -1, want: MonthCursor{2024, time.February}, wantLast: "2024-02-29"},
		{name: "december to january", cursor: MonthCursor{2024, time.December}, months: 1, want: MonthCursor{2025, time.January}, wantLast: "2025-01-31"},
		{name: "january to december", cursor: MonthCursor{2025, time.January}, months: -1, want: MonthCursor{2024, time.December}, wantLast: "2024-12-31"},
		{name: "many months", cursor: MonthCursor{2024, time.January}, months: 25, want: MonthCursor{2026, time.February}, wantLast: "2026-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cursor.AddMonths(tt.months)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLast, got.LastDay().Key())
			assert.Equal(t, tt.cursor, got.AddMonths(-tt.months))
		})
	}
}

func TestDate(t *testing.T) {
	d := MustParseDate("2024-02-28")
	assert.Equal(t, "2024-03-01", d.AddDays(2).Key())
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))
	assert.Equal(t, -3, d.DaysUntil(d.AddDays(-3)))
	assert.Equal(t, NewDate(2024, time.January, 32), MustParseDate("2024-02-01"))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.Equal(t, 0, d.Compare(NewDate(2024, 2, 28)))

	_, err := ParseDate("2024-13-01")
	assert.Error(t, err)

	text, err := Date{}.MarshalText()
	assert.NoError(t, err)
	assert.Empty(t, text)

	var parsed Date
	assert.NoError(t, parsed.UnmarshalText([]byte("2024-03-14")))
	assert.Equal(t, NewDate(2024, time.March, 14), parsed)
}
