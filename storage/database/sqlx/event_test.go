package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/tests"
)

func TestEventRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	nine, eleven := calendar.TimeOfDay{Hour: 9}, calendar.TimeOfDay{Hour: 11}
	exam, err := repo.CreateEvent(ctx, calendar.Event{
		ID:          "exam",
		OwnerID:     "1",
		Title:       "Exam",
		Description: "Maths",
		StartDate:   calendar.MustParseDate("2024-03-14"),
		EndDate:     calendar.MustParseDate("2024-03-14"),
		StartTime:   &nine,
		EndTime:     &eleven,
		EventType:   "exam",
		Color:       "#ff0000",
	})
	require.NoError(t, err)
	_, err = repo.CreateEvent(ctx, exam)
	assert.Equal(t, calendar.ErrDuplicateID, err)

	trip := testutil.CreateEvent(t, repo, "1", "Trip", "2024-02-28", "2024-03-02")
	_ = testutil.CreateEvent(t, repo, "1", "Holiday", "2024-04-01", "2024-04-01")

	events, err := repo.QueryEvents(ctx, calendar.QueryFilter{
		OwnerID: "1",
		From:    calendar.MustParseDate("2024-03-01"),
		To:      calendar.MustParseDate("2024-03-31"),
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, trip.ID, events[0].ID)
	assert.Equal(t, exam, events[1])

	events, err = repo.QueryEvents(ctx, calendar.QueryFilter{OwnerID: "1", Title: "EXAM"})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	exam.Location = "Room 2"
	exam.StartTime = nil
	exam.EndTime = nil
	exam.IsAllDay = true
	_, err = repo.UpdateEvent(ctx, exam)
	require.NoError(t, err)
	got, err := repo.GetEvent(ctx, "1", exam.ID)
	require.NoError(t, err)
	assert.Equal(t, exam, got)

	assert.Equal(t, calendar.ErrNotFound, repo.DeleteEvent(ctx, "2", exam.ID))
	require.NoError(t, repo.DeleteEvent(ctx, "1", exam.ID))
	_, err = repo.GetEvent(ctx, "1", exam.ID)
	assert.Equal(t, calendar.ErrNotFound, err)
}
