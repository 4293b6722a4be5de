package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/tests"
)

func TestEventRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewEventRepository(db)

	exam := testutil.CreateEvent(t, repo, "1", "Exam", "2024-03-14", "2024-03-16")
	trip := testutil.CreateEvent(t, repo, "1", "Trip", "2024-02-28", "2024-03-02")
	_ = testutil.CreateEvent(t, repo, "1", "Holiday", "2024-04-01", "2024-04-01")
	_ = testutil.CreateEvent(t, repo, "2", "Exam", "2024-03-14", "2024-03-14")

	tests := []struct {
		name    string
		filter  calendar.QueryFilter
		wantIDs []calendar.EventID
	}{
		{
			name:    "month overlap",
			filter:  calendar.QueryFilter{OwnerID: "1", From: calendar.MustParseDate("2024-03-01"), To: calendar.MustParseDate("2024-03-31")},
			wantIDs: []calendar.EventID{trip.ID, exam.ID},
		},
		{
			name:    "title",
			filter:  calendar.QueryFilter{OwnerID: "1", Title: "exam"},
			wantIDs: []calendar.EventID{exam.ID},
		},
		{
			name:    "no match",
			filter:  calendar.QueryFilter{OwnerID: "3"},
			wantIDs: []calendar.EventID{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.QueryEvents(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]calendar.EventID, 0, len(events))
			for _, ev := range events {
				ids = append(ids, ev.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetEvent(ctx, "1", exam.ID)
		require.NoError(t, err)
		assert.Equal(t, exam, got)

		_, err = repo.GetEvent(ctx, "2", exam.ID)
		assert.Equal(t, calendar.ErrNotFound, err)
	})

	t.Run("duplicate id", func(t *testing.T) {
		dup := exam
		dup.OwnerID = "2"
		_, err := repo.CreateEvent(ctx, dup)
		assert.Equal(t, calendar.ErrDuplicateID, err)
	})

	t.Run("update", func(t *testing.T) {
		upd := exam
		upd.Title = "Final exam"
		_, err := repo.UpdateEvent(ctx, upd)
		require.NoError(t, err)
		got, _ := repo.GetEvent(ctx, "1", exam.ID)
		assert.Equal(t, "Final exam", got.Title)

		upd.OwnerID = "2"
		_, err = repo.UpdateEvent(ctx, upd)
		assert.Equal(t, calendar.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, calendar.ErrNotFound, repo.DeleteEvent(ctx, "2", trip.ID))
		require.NoError(t, repo.DeleteEvent(ctx, "1", trip.ID))
		_, err := repo.GetEvent(ctx, "1", trip.ID)
		assert.Equal(t, calendar.ErrNotFound, err)
	})
}
