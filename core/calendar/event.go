package calendar

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var errInvalidTimeOfDay = errors.New("invalid time of day")

// EventID is an opaque event identity.
// Backends may send it as a JSON number or string.
type EventID string

func (id *EventID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EventID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "decoding event id")
	}
	*id = EventID(n.String())
	return nil
}

// TimeOfDay is a wall-clock time formatted as HH:MM.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses HH:MM (seconds, if present, are ignored).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, errors.Wrapf(errInvalidTimeOfDay, "parsing %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, errors.Wrapf(errInvalidTimeOfDay, "parsing %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, errors.Wrapf(errInvalidTimeOfDay, "parsing %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the minutes elapsed since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Event is a single materialized occurrence of a calendar event.
// EndDate is inclusive.
type Event struct {
	ID          EventID    `json:"id"`
	OwnerID     string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	StartTime   *TimeOfDay `json:"start_time,omitempty"`
	EndTime     *TimeOfDay `json:"end_time,omitempty"`
	EventType   string     `json:"event_type"`
	Color       string     `json:"color"`
	IsAllDay    bool       `json:"is_all_day"`
	Location    string     `json:"location,omitempty"`
}

// UnmarshalJSON decodes the wire shape; a blank or null start_time/end_time is unset.
func (ev *Event) UnmarshalJSON(data []byte) error {
	type Alias Event
	aux := struct {
		*Alias
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
	}{Alias: (*Alias)(ev)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if ev.StartTime, err = optionalTimeOfDay(aux.StartTime); err != nil {
		return errors.Wrap(err, "decoding start_time")
	}
	if ev.EndTime, err = optionalTimeOfDay(aux.EndTime); err != nil {
		return errors.Wrap(err, "decoding end_time")
	}
	return nil
}

func optionalTimeOfDay(s *string) (*TimeOfDay, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the event invariants:
// start date <= end date, and start/end times are set unless the event is all-day.
func (ev Event) Validate() error {
	var flds []core.FieldError
	if ev.StartDate.IsZero() {
		flds = append(flds, core.FieldError{Field: "start_date", Error: "this field is required"})
	}
	if ev.EndDate.IsZero() {
		flds = append(flds, core.FieldError{Field: "end_date", Error: "this field is required"})
	}
	if !ev.StartDate.IsZero() && !ev.EndDate.IsZero() && ev.EndDate.Before(ev.StartDate) {
		flds = append(flds, core.FieldError{Field: "end_date", Error: "end_date cannot be before start_date"})
	}
	if !ev.IsAllDay {
		if ev.StartTime == nil {
			flds = append(flds, core.FieldError{Field: "start_time", Error: "start_time is required unless the event is all-day"})
		}
		if ev.EndTime == nil {
			flds = append(flds, core.FieldError{Field: "end_time", Error: "end_time is required unless the event is all-day"})
		}
		if ev.StartTime != nil && ev.EndTime != nil && ev.StartDate == ev.EndDate && ev.EndTime.Minutes() < ev.StartTime.Minutes() {
			flds = append(flds, core.FieldError{Field: "end_time", Error: "end_time cannot be before start_time"})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Span returns the inclusive date range covered by the event.
// A malformed event (end before start) spans its start date only.
func (ev Event) Span() (Date, Date) {
	if ev.EndDate.IsZero() || ev.EndDate.Before(ev.StartDate) {
		return ev.StartDate, ev.StartDate
	}
	return ev.StartDate, ev.EndDate
}

// OccursOn reports whether the event is live on d.
func (ev Event) OccursOn(d Date) bool {
	first, last := ev.Span()
	return d.Between(first, last)
}

// Overlaps reports whether the event covers at least one day of [first, last].
func (ev Event) Overlaps(first, last Date) bool {
	start, end := ev.Span()
	return !end.Before(first) && !start.After(last)
}

// TimeLabel returns a short label for the event's time slot.
func (ev Event) TimeLabel() string {
	if ev.IsAllDay || ev.StartTime == nil {
		return "all day"
	}
	if ev.EndTime == nil {
		return ev.StartTime.String()
	}
	return ev.StartTime.String() + "-" + ev.EndTime.String()
}
