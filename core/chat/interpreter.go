// Package chat implements the rule-based schedule assistant served by the API.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
)

// Replies confirming a mutation; clients detect them to refresh their calendar.
const (
	AddedReply   = "✅ Event was successfully added!"
	DeletedReply = "event was successfully deleted."
)

const helpReply = `I can help with your schedule. Try:
- "today", "tomorrow" or "this week"
- "what's on 2024-03-14"
- "add Math exam on 2024-03-14 at 09:00"
- "delete Math exam on 2024-03-14"`

var (
	addRegex    = regexp.MustCompile(`(?i)^\s*(?:add|create)\s+(.+)$`)
	deleteRegex = regexp.MustCompile(`(?i)^\s*(?:delete|remove|cancel)\s+(.+)$`)
	onRegex     = regexp.MustCompile(`(?i)\s+(?:on|for)\s+(\S+)`)
	atRegex     = regexp.MustCompile(`(?i)\s+at\s+(\d{1,2})(?::(\d{2}))?`)
	isoRegex    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	slashRegex  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
	relDayRegex = regexp.MustCompile(`(?i)\s*\b(?:the\s+)?(?:day after tomorrow|tomorrow|today)\b|\s*(?:모레|내일|오늘)`)

	eventTypes = []struct {
		name     string
		color    string
		keywords []string
	}{
		{"class", "#3788d8", []string{"class", "lesson", "lecture", "수업", "강의"}},
		{"exam", "#dc3545", []string{"exam", "test", "quiz", "시험", "평가"}},
		{"meeting", "#6f42c1", []string{"meeting", "counsel", "interview", "상담", "면담"}},
		{"event", "#28a745", []string{"festival", "ceremony", "contest", "tournament", "행사", "대회"}},
	}
	personalType  = "personal"
	personalColor = "#ffc107"
)

// Interpreter answers schedule questions and applies add/delete commands.
type Interpreter struct {
	svc      *calendar.Service
	validate *validator.Validate
	log      core.Logger
}

func NewInterpreter(svc *calendar.Service, validate *validator.Validate, logger core.Logger) *Interpreter {
	return &Interpreter{svc: svc, validate: validate, log: logger}
}

// Respond answers message on behalf of ownerID.
func (in *Interpreter) Respond(ctx context.Context, ownerID, message string) (string, error) {
	message = core.CleanString(message)
	today := calendar.Today()
	lower := strings.ToLower(message)

	switch {
	case message == "":
		return helpReply, nil
	case addRegex.MatchString(message):
		return in.add(ctx, ownerID, addRegex.FindStringSubmatch(message)[1], today)
	case deleteRegex.MatchString(message):
		return in.delete(ctx, ownerID, deleteRegex.FindStringSubmatch(message)[1], today)
	case strings.Contains(lower, "week") || strings.Contains(lower, "이번 주"):
		start := today.AddDays(-((int(today.Weekday()) + 6) % 7)) // monday
		return in.schedule(ctx, ownerID, start, start.AddDays(6), "this week")
	case strings.Contains(lower, "tomorrow") || strings.Contains(lower, "내일"):
		d := today.AddDays(1)
		return in.schedule(ctx, ownerID, d, d, "tomorrow")
	case strings.Contains(lower, "today") || strings.Contains(lower, "오늘"):
		return in.schedule(ctx, ownerID, today, today, "today")
	}
	if d, ok := parseDay(message, today); ok {
		return in.schedule(ctx, ownerID, d, d, d.Key())
	}
	return helpReply, nil
}

func (in *Interpreter) schedule(ctx context.Context, ownerID string, from, to calendar.Date, label string) (string, error) {
	events, err := in.svc.Query(ctx, calendar.QueryFilter{OwnerID: ownerID, From: from, To: to})
	if err != nil {
		return "", errors.Wrap(err, "querying schedule")
	}
	if len(events) == 0 {
		return fmt.Sprintf("You have no events %s.", dayLabel(label)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d event(s) %s:", len(events), dayLabel(label))
	for _, ev := range events {
		start, end := ev.Span()
		span := start.Key()
		if end != start {
			span += " ~ " + end.Key()
		}
		fmt.Fprintf(&b, "\n- %s %s: %s", span, ev.TimeLabel(), ev.Title)
		if ev.Location != "" {
			fmt.Fprintf(&b, " (%s)", ev.Location)
		}
	}
	return b.String(), nil
}

func dayLabel(label string) string {
	if strings.HasPrefix(label, "this ") || label == "today" || label == "tomorrow" {
		return label
	}
	return "on " + label
}

// add handles "<title> [on <day>] [at HH[:MM]]".
func (in *Interpreter) add(ctx context.Context, ownerID, args string, today calendar.Date) (string, error) {
	title, day, startTime, ok := splitCommand(args, today)
	if !ok {
		return "I could not understand the date. Use YYYY-MM-DD, M/D, today or tomorrow.", nil
	}
	if title == "" {
		return "Please tell me the title of the event.", nil
	}

	evType, color := inferType(title)
	ne := calendar.NewEvent{
		Title:     title,
		StartDate: day.Key(),
		EventType: evType,
		Color:     color,
		IsAllDay:  startTime == nil,
	}
	if startTime != nil {
		end := calendar.TimeOfDay{Hour: (startTime.Hour + 1) % 24, Minute: startTime.Minute}
		if end.Minutes() < startTime.Minutes() {
			end = calendar.TimeOfDay{Hour: 23, Minute: 59}
		}
		ne.StartTime, ne.EndTime = startTime.String(), end.String()
	}
	if err := ne.Validate(in.validate); err != nil {
		return "The event is invalid: " + err.Error(), nil
	}
	ev, err := in.svc.Create(ctx, ownerID, ne)
	if err != nil {
		return "", errors.Wrap(err, "creating event")
	}

	when := ev.StartDate.Key()
	if !ev.IsAllDay {
		when += " " + ev.TimeLabel()
	}
	return fmt.Sprintf("%s\n\n📅 %s\n📝 %s\n🏷️ %s", AddedReply, when, ev.Title, ev.EventType), nil
}

// delete handles "<title> [on <day>]".
func (in *Interpreter) delete(ctx context.Context, ownerID, args string, today calendar.Date) (string, error) {
	title, day, _, ok := splitCommand(args, today)
	if !ok {
		return "I could not understand the date. Use YYYY-MM-DD, M/D, today or tomorrow.", nil
	}
	if title == "" {
		return "Please tell me the title of the event to delete.", nil
	}
	n, err := in.svc.DeleteByTitle(ctx, ownerID, title, day)
	if err != nil {
		return "", errors.Wrap(err, "deleting event")
	}
	if n == 0 {
		return fmt.Sprintf("I could not find '%s' on %s.", title, day.Key()), nil
	}
	return fmt.Sprintf("✅ '%s' %s", title, DeletedReply), nil
}

// splitCommand extracts the title, day (default today) and optional time of a command.
func splitCommand(args string, today calendar.Date) (string, calendar.Date, *calendar.TimeOfDay, bool) {
	day := today
	var startTime *calendar.TimeOfDay

	if m := atRegex.FindStringSubmatchIndex(args); m != nil {
		h, _ := strconv.Atoi(args[m[2]:m[3]])
		minute := 0
		if m[4] >= 0 {
			minute, _ = strconv.Atoi(args[m[4]:m[5]])
		}
		if h > 23 || minute > 59 {
			return "", day, nil, false
		}
		startTime = &calendar.TimeOfDay{Hour: h, Minute: minute}
		args = args[:m[0]] + args[m[1]:]
	}

	found := false
	matches := onRegex.FindAllStringSubmatchIndex(args, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if d, ok := parseDay(args[m[2]:m[3]], today); ok {
			day, found = d, true
			args = args[:m[0]] + args[m[1]:]
			break
		}
	}
	if !found {
		if d, ok := parseDay(args, today); ok {
			day = d
			args = isoRegex.ReplaceAllString(args, "")
			args = slashRegex.ReplaceAllString(args, "")
			args = relDayRegex.ReplaceAllString(args, "")
		} else if isoRegex.MatchString(args) || slashRegex.MatchString(args) {
			return "", day, nil, false
		}
	}
	return core.CleanString(strings.Trim(args, " .,!?\"'")), day, startTime, true
}

// parseDay finds a day in s: YYYY-MM-DD, M/D (current year), today, tomorrow or the day after.
func parseDay(s string, today calendar.Date) (calendar.Date, bool) {
	if m := isoRegex.FindStringSubmatch(s); m != nil {
		d, err := calendar.ParseDate(m[1])
		return d, err == nil
	}
	if m := slashRegex.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		d := calendar.NewDate(today.Year, time.Month(month), day)
		if month < 1 || month > 12 || d.Day != day {
			return calendar.Date{}, false
		}
		return d, true
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "day after tomorrow") || strings.Contains(lower, "모레"):
		return today.AddDays(2), true
	case strings.Contains(lower, "tomorrow") || strings.Contains(lower, "내일"):
		return today.AddDays(1), true
	case strings.Contains(lower, "today") || strings.Contains(lower, "오늘"):
		return today, true
	}
	return calendar.Date{}, false
}

func inferType(title string) (string, string) {
	lower := strings.ToLower(title)
	for _, et := range eventTypes {
		for _, kw := range et.keywords {
			if strings.Contains(lower, kw) {
				return et.name, et.color
			}
		}
	}
	return personalType, personalColor
}
