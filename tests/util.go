package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/storage/database"
)

// CreateEvent stores an all-day event spanning [start, end] for ownerID.
func CreateEvent(t *testing.T, repo calendar.Repository, ownerID, title, start, end string) calendar.Event {
	t.Helper()
	ev := calendar.Event{
		ID:        calendar.EventID(fmt.Sprintf("%s-%s-%s", ownerID, start, title)),
		OwnerID:   ownerID,
		Title:     title,
		StartDate: calendar.MustParseDate(start),
		EndDate:   calendar.MustParseDate(end),
		EventType: calendar.DefaultEventType,
		IsAllDay:  true,
	}
	ev, err := repo.CreateEvent(context.Background(), ev)
	if err != nil {
		t.Fatalf("CreateEvent() failed: %v", err)
	}
	return ev
}

// OpenDB opens & migrates the test database; the test is skipped when TEST_DATABASE_HOST is unset.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("TEST_DATABASE_HOST") == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}
	conf := core.NewConfig()
	ctx := context.Background()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		t.Fatalf("CreateIfNotExist() failed: %v", err)
	}
	db, err := database.OpenX(ctx, conf)
	if err != nil {
		t.Fatalf("OpenX() failed: %v", err)
	}
	if err = database.Migrate(db.DB, "up"); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Exec("TRUNCATE event")
		_ = db.Close()
	})
	return db
}

// LogEntry is a message recorded by LoggerMock.
type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// LoggerMock is a core.Logger recording every message.
type LoggerMock struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*LoggerMock)(nil)

func NewLoggerMock() *LoggerMock { return &LoggerMock{} }

func (l *LoggerMock) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *LoggerMock) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *LoggerMock) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *LoggerMock) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *LoggerMock) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *LoggerMock) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Entries returns the recorded messages of level (all of them if level is "").
func (l *LoggerMock) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}
