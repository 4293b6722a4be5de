package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
)

const uniqueViolation = pq.ErrorCode("23505")

// events of a day keep their insertion order
var eventOrdering = []core.DBOrdering{{Field: "start_date", Ascending: true}, {Field: "created_at", Ascending: true}}

const eventColumns = `id, owner_id, title, description, start_date, end_date, start_time, end_time,
	event_type, color, is_all_day, location`

type eventRow struct {
	ID          string      `db:"id"`
	OwnerID     string      `db:"owner_id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	StartDate   time.Time   `db:"start_date"`
	EndDate     time.Time   `db:"end_date"`
	StartTime   null.String `db:"start_time"`
	EndTime     null.String `db:"end_time"`
	EventType   string      `db:"event_type"`
	Color       null.String `db:"color"`
	IsAllDay    bool        `db:"is_all_day"`
	Location    null.String `db:"location"`
}

func toRow(ev calendar.Event) eventRow {
	row := eventRow{
		ID:          string(ev.ID),
		OwnerID:     ev.OwnerID,
		Title:       ev.Title,
		Description: null.NewString(ev.Description, ev.Description != ""),
		StartDate:   ev.StartDate.In(time.UTC),
		EndDate:     ev.EndDate.In(time.UTC),
		EventType:   ev.EventType,
		Color:       null.NewString(ev.Color, ev.Color != ""),
		IsAllDay:    ev.IsAllDay,
		Location:    null.NewString(ev.Location, ev.Location != ""),
	}
	if ev.StartTime != nil {
		row.StartTime = null.StringFrom(ev.StartTime.String())
	}
	if ev.EndTime != nil {
		row.EndTime = null.StringFrom(ev.EndTime.String())
	}
	return row
}

func (row eventRow) event() calendar.Event {
	ev := calendar.Event{
		ID:          calendar.EventID(row.ID),
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Description: row.Description.String,
		StartDate:   calendar.DateOf(row.StartDate),
		EndDate:     calendar.DateOf(row.EndDate),
		EventType:   row.EventType,
		Color:       row.Color.String,
		IsAllDay:    row.IsAllDay,
		Location:    row.Location.String,
	}
	if t, err := calendar.ParseTimeOfDay(row.StartTime.String); row.StartTime.Valid && err == nil {
		ev.StartTime = &t
	}
	if t, err := calendar.ParseTimeOfDay(row.EndTime.String); row.EndTime.Valid && err == nil {
		ev.EndTime = &t
	}
	return ev
}

type eventRepository struct {
	exec sqlx.ExtContext
}

var _ calendar.Repository = (*eventRepository)(nil) // interface compliance check

// NewEventRepository returns a Postgres event repository; exec may be a *sqlx.DB or a *sqlx.Tx.
func NewEventRepository(exec sqlx.ExtContext) *eventRepository {
	return &eventRepository{exec: exec}
}

func (repo eventRepository) QueryEvents(ctx context.Context, filter calendar.QueryFilter) ([]calendar.Event, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if !filter.From.IsZero() {
		where = append(where, "end_date >= ?")
		args = append(args, filter.From.In(time.UTC))
	}
	if !filter.To.IsZero() {
		where = append(where, "start_date <= ?")
		args = append(args, filter.To.In(time.UTC))
	}
	if filter.Title != "" {
		where = append(where, "lower(title) = lower(?)")
		args = append(args, filter.Title)
	}

	q := "SELECT " + eventColumns + " FROM event"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += core.OrderBy(eventOrdering...)

	var rows []eventRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, repo.exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting events")
	}
	events := make([]calendar.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.event())
	}
	return events, nil
}

func (repo eventRepository) GetEvent(ctx context.Context, ownerID string, id calendar.EventID) (calendar.Event, error) {
	q := repo.exec.Rebind("SELECT " + eventColumns + " FROM event WHERE id = ? AND owner_id = ?")
	var row eventRow
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, string(id), ownerID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return calendar.Event{}, calendar.ErrNotFound
		}
		return calendar.Event{}, errors.Wrap(err, "selecting event")
	}
	return row.event(), nil
}

func (repo eventRepository) CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	q := `INSERT INTO event (` + eventColumns + `)
		VALUES (:id, :owner_id, :title, :description, :start_date, :end_date, :start_time, :end_time,
			:event_type, :color, :is_all_day, :location)`
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, q, toRow(ev)); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return calendar.Event{}, calendar.ErrDuplicateID
		}
		return calendar.Event{}, errors.Wrap(err, "inserting event")
	}
	return ev, nil
}

func (repo eventRepository) UpdateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	q := `UPDATE event SET
			title = :title, description = :description, start_date = :start_date, end_date = :end_date,
			start_time = :start_time, end_time = :end_time, event_type = :event_type, color = :color,
			is_all_day = :is_all_day, location = :location, updated_at = now()
		WHERE id = :id AND owner_id = :owner_id`
	res, err := sqlx.NamedExecContext(ctx, repo.exec, q, toRow(ev))
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "updating event")
	}
	if err = checkAffected(res); err != nil {
		return calendar.Event{}, err
	}
	return ev, nil
}

func (repo eventRepository) DeleteEvent(ctx context.Context, ownerID string, id calendar.EventID) error {
	q := repo.exec.Rebind("DELETE FROM event WHERE id = ? AND owner_id = ?")
	res, err := repo.exec.ExecContext(ctx, q, string(id), ownerID)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return calendar.ErrNotFound
	}
	return nil
}
