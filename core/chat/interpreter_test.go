package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/tests"
)

func setup(t *testing.T) (*Interpreter, calendar.Repository) {
	calendar.NowFunc = func() time.Time { return time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local) } // thursday
	t.Cleanup(func() { calendar.NowFunc = time.Now })

	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewEventRepository(db)

	translator := core.NewTranslator()
	validate := core.NewValidate(translator)
	calendar.RegisterValidators(validate, translator)
	return NewInterpreter(calendar.NewService(repo), validate, testutil.NewLoggerMock()), repo
}

func TestInterpreterSchedule(t *testing.T) {
	in, repo := setup(t)
	testutil.CreateEvent(t, repo, "1", "Exam", "2024-03-14", "2024-03-14")
	testutil.CreateEvent(t, repo, "1", "Trip", "2024-03-15", "2024-03-16")
	testutil.CreateEvent(t, repo, "1", "Assembly", "2024-03-11", "2024-03-11")
	testutil.CreateEvent(t, repo, "2", "Other", "2024-03-14", "2024-03-14")

	tests := []struct {
		name         string
		message      string
		wantContains []string
		wantMissing  []string
	}{
		{name: "today", message: "What's on today?", wantContains: []string{"1 event(s) today", "Exam"}, wantMissing: []string{"Trip", "Other"}},
		{name: "today in korean", message: "오늘 일정 알려줘", wantContains: []string{"Exam"}},
		{name: "tomorrow", message: "tomorrow", wantContains: []string{"tomorrow", "2024-03-15 ~ 2024-03-16 all day: Trip"}},
		{name: "this week", message: "this week please", wantContains: []string{"3 event(s) this week", "Assembly", "Exam", "Trip"}},
		{name: "specific day", message: "what's on 2024-03-16", wantContains: []string{"on 2024-03-16", "Trip"}},
		{name: "empty day", message: "3/20", wantContains: []string{"no events on 2024-03-20"}},
		{name: "help", message: "hello", wantContains: []string{"I can help"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := in.Respond(context.Background(), "1", tt.message)
			require.NoError(t, err)
			for _, s := range tt.wantContains {
				assert.Contains(t, reply, s)
			}
			for _, s := range tt.wantMissing {
				assert.NotContains(t, reply, s)
			}
		})
	}
}

func TestInterpreterAdd(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantReply string
		wantTitle string
		wantDate  string
		wantTime  string
		wantType  string
	}{
		{name: "timed", message: "add Math exam on 2024-03-20 at 9:30", wantReply: AddedReply, wantTitle: "Math exam", wantDate: "2024-03-20", wantTime: "09:30-10:30", wantType: "exam"},
		{name: "relative day", message: "Add Sports festival tomorrow", wantReply: AddedReply, wantTitle: "Sports festival", wantDate: "2024-03-15", wantTime: "all day", wantType: "event"},
		{name: "slash date", message: "create Parents meeting on 4/2", wantReply: AddedReply, wantTitle: "Parents meeting", wantDate: "2024-04-02", wantTime: "all day", wantType: "meeting"},
		{name: "default day", message: "add Groceries", wantReply: AddedReply, wantTitle: "Groceries", wantDate: "2024-03-14", wantTime: "all day", wantType: "personal"},
		{name: "late hour", message: "add Stargazing at 23:30", wantReply: AddedReply, wantTitle: "Stargazing", wantDate: "2024-03-14", wantTime: "23:30-23:59", wantType: "personal"},
		{name: "bad date", message: "add Exam on 2024-02-30", wantReply: "I could not understand the date"},
		{name: "no title", message: "add tomorrow", wantReply: "Please tell me the title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, repo := setup(t)
			reply, err := in.Respond(context.Background(), "1", tt.message)
			require.NoError(t, err)
			assert.Contains(t, reply, tt.wantReply)

			events, _ := repo.QueryEvents(context.Background(), calendar.QueryFilter{OwnerID: "1"})
			if tt.wantTitle == "" {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, tt.wantTitle, events[0].Title)
			assert.Equal(t, tt.wantDate, events[0].StartDate.Key())
			assert.Equal(t, tt.wantTime, events[0].TimeLabel())
			assert.Equal(t, tt.wantType, events[0].EventType)
		})
	}
}

func TestInterpreterDelete(t *testing.T) {
	in, repo := setup(t)
	testutil.CreateEvent(t, repo, "1", "Exam", "2024-03-20", "2024-03-20")

	reply, err := in.Respond(context.Background(), "1", "delete Trip on 2024-03-20")
	require.NoError(t, err)
	assert.Contains(t, reply, "could not find 'Trip'")

	reply, err = in.Respond(context.Background(), "1", "delete exam on 2024-03-20")
	require.NoError(t, err)
	assert.Contains(t, reply, DeletedReply)

	events, _ := repo.QueryEvents(context.Background(), calendar.QueryFilter{OwnerID: "1"})
	assert.Empty(t, events)
}
