package calendar

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

var (
	endBeforeStartTag  = "endbeforestart"
	endBeforeStartText = "{0} cannot be before start"

	timeRequiredTag  = "timerequired"
	timeRequiredText = "{0} is required unless the event is all-day"

	DefaultEventType = "general"
)

// RegisterValidators registers the event struct level rules on validate.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(eventStructValidation, NewEvent{}, UpdateEvent{})
	core.RegisterCustomTranslation(validate, translator, endBeforeStartTag, endBeforeStartText)
	core.RegisterCustomTranslation(validate, translator, timeRequiredTag, timeRequiredText)
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string `json:"title" yaml:"title" validate:"required,notblank"`
	Description string `json:"description" yaml:"description"`
	StartDate   string `json:"start_date" yaml:"start_date" validate:"required,date"`
	EndDate     string `json:"end_date" yaml:"end_date" validate:"omitempty,date"`
	StartTime   string `json:"start_time" yaml:"start_time" validate:"omitempty,timeofday"`
	EndTime     string `json:"end_time" yaml:"end_time" validate:"omitempty,timeofday"`
	EventType   string `json:"event_type" yaml:"event_type"`
	Color       string `json:"color" yaml:"color" validate:"omitempty,hexcolor"`
	IsAllDay    bool   `json:"is_all_day" yaml:"is_all_day"`
	Location    string `json:"location" yaml:"location"`
}

func (ne *NewEvent) clean() {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = strings.TrimSpace(ne.Description)
	ne.StartDate = core.CleanString(ne.StartDate)
	ne.EndDate = core.CleanString(ne.EndDate)
	ne.StartTime = core.CleanString(ne.StartTime)
	ne.EndTime = core.CleanString(ne.EndTime)
	ne.EventType = core.CleanString(ne.EventType, true /* lower */)
	ne.Color = core.CleanString(ne.Color, true /* lower */)
	ne.Location = core.CleanString(ne.Location)
	if ne.EndDate == "" {
		ne.EndDate = ne.StartDate
	}
	if ne.EventType == "" {
		ne.EventType = DefaultEventType
	}
	if ne.IsAllDay {
		ne.StartTime, ne.EndTime = "", ""
	}
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.clean()
	return validate.Struct(ne)
}

// Event converts a validated NewEvent into an Event owned by ownerID.
func (ne NewEvent) Event(ownerID string) Event {
	ev := Event{
		OwnerID:     ownerID,
		Title:       ne.Title,
		Description: ne.Description,
		EventType:   ne.EventType,
		Color:       ne.Color,
		IsAllDay:    ne.IsAllDay,
		Location:    ne.Location,
	}
	ev.StartDate, _ = ParseDate(ne.StartDate)
	ev.EndDate, _ = ParseDate(ne.EndDate)
	ev.StartTime = parseOptionalTime(ne.StartTime)
	ev.EndTime = parseOptionalTime(ne.EndTime)
	return ev
}

// UpdateEvent defines what information may be provided to modify an existing Event.
// Empty fields keep their original value.
type UpdateEvent struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date" validate:"omitempty,date"`
	EndDate     string  `json:"end_date" validate:"omitempty,date"`
	StartTime   string  `json:"start_time" validate:"omitempty,timeofday"`
	EndTime     string  `json:"end_time" validate:"omitempty,timeofday"`
	EventType   string  `json:"event_type"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
	IsAllDay    *bool   `json:"is_all_day"`
	Location    *string `json:"location"`
}

func (ue *UpdateEvent) Validate(orig Event, validate *validator.Validate) error {
	ue.Title = core.CleanString(ue.Title)
	if ue.Title == "" {
		ue.Title = orig.Title
	}
	ue.StartDate = core.CleanString(ue.StartDate)
	if ue.StartDate == "" {
		ue.StartDate = orig.StartDate.Key()
	}
	ue.EndDate = core.CleanString(ue.EndDate)
	if ue.EndDate == "" {
		ue.EndDate = orig.EndDate.Key()
	}
	ue.StartTime = core.CleanString(ue.StartTime)
	if ue.StartTime == "" && orig.StartTime != nil {
		ue.StartTime = orig.StartTime.String()
	}
	ue.EndTime = core.CleanString(ue.EndTime)
	if ue.EndTime == "" && orig.EndTime != nil {
		ue.EndTime = orig.EndTime.String()
	}
	ue.EventType = core.CleanString(ue.EventType, true /* lower */)
	if ue.EventType == "" {
		ue.EventType = orig.EventType
	}
	ue.Color = core.CleanString(ue.Color, true /* lower */)
	if ue.Color == "" {
		ue.Color = orig.Color
	}
	if ue.Description == nil {
		ue.Description = &orig.Description
	}
	if ue.Location == nil {
		ue.Location = &orig.Location
	}
	if ue.IsAllDay == nil {
		ue.IsAllDay = &orig.IsAllDay
	}
	if *ue.IsAllDay {
		ue.StartTime, ue.EndTime = "", ""
	}
	return validate.Struct(ue)
}

// Apply returns orig modified by a validated UpdateEvent.
func (ue UpdateEvent) Apply(orig Event) Event {
	ev := orig
	ev.Title = ue.Title
	ev.StartDate, _ = ParseDate(ue.StartDate)
	ev.EndDate, _ = ParseDate(ue.EndDate)
	ev.StartTime = parseOptionalTime(ue.StartTime)
	ev.EndTime = parseOptionalTime(ue.EndTime)
	ev.EventType = ue.EventType
	ev.Color = ue.Color
	if ue.Description != nil {
		ev.Description = strings.TrimSpace(*ue.Description)
	}
	if ue.Location != nil {
		ev.Location = core.CleanString(*ue.Location)
	}
	if ue.IsAllDay != nil {
		ev.IsAllDay = *ue.IsAllDay
	}
	return ev
}

// QueryFilter narrows down event queries; zero fields are ignored.
type QueryFilter struct {
	OwnerID string
	From    Date   // inclusive
	To      Date   // inclusive
	Title   string // case-insensitive exact match
}

func parseOptionalTime(s string) *TimeOfDay {
	if s == "" {
		return nil
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return nil
	}
	return &t
}

// eventStructValidation enforces start <= end and times presence on NewEvent and UpdateEvent.
func eventStructValidation(sl validator.StructLevel) {
	var (
		startDate, endDate, startTime, endTime string
		allDay                                 bool
	)
	switch ev := sl.Current().Interface().(type) {
	case NewEvent:
		startDate, endDate, startTime, endTime, allDay = ev.StartDate, ev.EndDate, ev.StartTime, ev.EndTime, ev.IsAllDay
	case UpdateEvent:
		startDate, endDate, startTime, endTime = ev.StartDate, ev.EndDate, ev.StartTime, ev.EndTime
		allDay = ev.IsAllDay != nil && *ev.IsAllDay
	default:
		return
	}

	start, errStart := ParseDate(startDate)
	end, errEnd := ParseDate(endDate)
	if errStart == nil && errEnd == nil && end.Before(start) {
		sl.ReportError(endDate, "end_date", "EndDate", endBeforeStartTag, "")
	}
	if allDay {
		return
	}
	if startTime == "" {
		sl.ReportError(startTime, "start_time", "StartTime", timeRequiredTag, "")
	}
	if endTime == "" {
		sl.ReportError(endTime, "end_time", "EndTime", timeRequiredTag, "")
	}
	if errStart == nil && errEnd == nil && start == end && startTime != "" && endTime != "" {
		st, err1 := ParseTimeOfDay(startTime)
		et, err2 := ParseTimeOfDay(endTime)
		if err1 == nil && err2 == nil && et.Minutes() < st.Minutes() {
			sl.ReportError(endTime, "end_time", "EndTime", endBeforeStartTag, "")
		}
	}
}
