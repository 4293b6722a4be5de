// Package icalendar converts calendar events from and to iCalendar (RFC 5545) feeds.
package icalendar

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/calendar"
)

const (
	productID        = "-//Ratiba//Schedule//EN"
	dateLayout       = "20060102"
	propertyColor    = ical.ComponentProperty("COLOR")
	uidDomain        = "@ratiba"
	defaultEventType = "general"
)

var (
	NowFunc = time.Now // mockable

	errMissingStart = errors.New("missing DTSTART")
)

// NewCalendar builds a published calendar named name holding events.
// Times are interpreted in loc.
func NewCalendar(name string, events []calendar.Event, loc *time.Location) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := NowFunc()
	for _, ev := range events {
		vev := cal.AddEvent(string(ev.ID) + uidDomain)
		vev.SetDtStampTime(stamp)
		vev.SetSummary(ev.Title)
		if ev.Description != "" {
			vev.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vev.SetLocation(ev.Location)
		}
		if ev.EventType != "" {
			vev.SetProperty(ical.ComponentPropertyCategories, ev.EventType)
		}
		if ev.Color != "" {
			vev.SetProperty(propertyColor, ev.Color)
		}

		start, end := ev.Span()
		if ev.IsAllDay || ev.StartTime == nil || ev.EndTime == nil {
			vev.SetAllDayStartAt(start.In(loc))
			vev.SetAllDayEndAt(end.AddDays(1).In(loc)) // DTEND is exclusive
			continue
		}
		vev.SetStartAt(atTime(start, *ev.StartTime, loc))
		vev.SetEndAt(atTime(end, *ev.EndTime, loc))
	}
	return cal
}

// Encode writes events as an iCalendar feed to w.
func Encode(w io.Writer, name string, events []calendar.Event, loc *time.Location) error {
	_, err := io.WriteString(w, NewCalendar(name, events, loc).Serialize())
	return errors.Wrap(err, "writing calendar")
}

// Decode reads the VEVENTs of an iCalendar feed as events owned by ownerID.
// Events that cannot be converted are skipped and reported in the returned error slice.
func Decode(r io.Reader, ownerID string, loc *time.Location) ([]calendar.Event, []error, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing calendar")
	}

	var (
		events []calendar.Event
		skip   []error
	)
	for _, vev := range cal.Events() {
		ev, err := decodeEvent(vev, ownerID, loc)
		if err != nil {
			skip = append(skip, errors.Wrapf(err, "event %q", vev.Id()))
			continue
		}
		events = append(events, ev)
	}
	return events, skip, nil
}

func decodeEvent(vev *ical.VEvent, ownerID string, loc *time.Location) (calendar.Event, error) {
	ev := calendar.Event{
		ID:        calendar.EventID(strings.TrimSuffix(vev.Id(), uidDomain)),
		OwnerID:   ownerID,
		EventType: defaultEventType,
	}
	if p := vev.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}
	if p := vev.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := vev.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}
	if p := vev.GetProperty(ical.ComponentPropertyCategories); p != nil && p.Value != "" {
		ev.EventType = strings.ToLower(strings.SplitN(p.Value, ",", 2)[0])
	}
	if p := vev.GetProperty(propertyColor); p != nil {
		ev.Color = strings.ToLower(p.Value)
	}

	dtStart := vev.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return calendar.Event{}, errMissingStart
	}

	if !strings.Contains(dtStart.Value, "T") { // VALUE=DATE
		ev.IsAllDay = true
		start, err := time.ParseInLocation(dateLayout, dtStart.Value, loc)
		if err != nil {
			return calendar.Event{}, errors.Wrap(err, "parsing DTSTART")
		}
		ev.StartDate = calendar.DateOf(start)
		ev.EndDate = ev.StartDate
		if dtEnd := vev.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			end, err := time.ParseInLocation(dateLayout, dtEnd.Value, loc)
			if err != nil {
				return calendar.Event{}, errors.Wrap(err, "parsing DTEND")
			}
			if last := calendar.DateOf(end).AddDays(-1); last.After(ev.StartDate) {
				ev.EndDate = last
			}
		}
		return ev, ev.Validate()
	}

	start, err := vev.GetStartAt()
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "parsing DTSTART")
	}
	end, err := vev.GetEndAt()
	if err != nil {
		end = start
	}
	start, end = start.In(loc), end.In(loc)
	st := calendar.TimeOfDay{Hour: start.Hour(), Minute: start.Minute()}
	et := calendar.TimeOfDay{Hour: end.Hour(), Minute: end.Minute()}
	ev.StartDate, ev.EndDate = calendar.DateOf(start), calendar.DateOf(end)
	ev.StartTime, ev.EndTime = &st, &et
	return ev, ev.Validate()
}

func atTime(d calendar.Date, t calendar.TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, loc)
}
