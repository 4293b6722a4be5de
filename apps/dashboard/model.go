package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/ratiba/core/assistant"
	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/core/schedule"
)

const (
	defaultCellWidth = 14
	chatHistory      = 6
)

type focus int

const (
	focusCalendar focus = iota
	focusChat
)

type (
	// changedMsg is sent when the controller changed on its own (eg. a bus refresh).
	changedMsg struct{}

	loadedMsg struct{ err error }

	replyMsg struct{ err error }
)

type styles struct {
	Header   lipgloss.Style
	Weekday  lipgloss.Style
	Cell     lipgloss.Style
	Outside  lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	More     lipgloss.Style
	Error    lipgloss.Style
	User     lipgloss.Style
	Bot      lipgloss.Style
	Help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Weekday:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		Cell:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Outside:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Today:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")).Background(lipgloss.Color("220")),
		More:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		User:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Bot:      lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// model renders the schedule month grid next to the assistant chat.
type model struct {
	ctx       context.Context
	ctrl      *schedule.Controller
	session   *assistant.Session
	maxEvents int

	input   textinput.Model
	focus   focus
	sending bool
	notice  string
	width   int
	styles  styles
}

func newModel(ctx context.Context, ctrl *schedule.Controller, session *assistant.Session, maxEvents int) *model {
	ti := textinput.New()
	ti.Placeholder = "Ask the assistant, eg. add Math exam on 2024-03-14 at 09:00"
	ti.CharLimit = 500
	ti.Prompt = "> "

	return &model{
		ctx:       ctx,
		ctrl:      ctrl,
		session:   session,
		maxEvents: maxEvents,
		input:     ti,
		styles:    defaultStyles(),
	}
}

func (m *model) Init() tea.Cmd {
	return m.run(m.ctrl.Mount)
}

// run executes a controller operation off the UI loop.
func (m *model) run(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: op(m.ctx)}
	}
}

func (m *model) send(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Send(m.ctx, text)
		return replyMsg{err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus == focusChat {
			return m.handleChatKeys(msg)
		}
		return m.handleCalendarKeys(msg)

	case loadedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
		}
		return m, nil

	case replyMsg:
		m.sending = false
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		return m, nil

	case changedMsg:
		return m, nil
	}

	if m.focus == focusChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "/":
		m.focus = focusChat
		return m, m.input.Focus()
	case "n", "]", "pgdown":
		return m, m.run(m.ctrl.GoToNextMonth)
	case "p", "[", "pgup":
		return m, m.run(m.ctrl.GoToPreviousMonth)
	case "t":
		return m, m.run(m.ctrl.GoToToday)
	case "r":
		return m, m.run(m.ctrl.Reload)
	case "left", "h":
		return m, m.moveSelection(-1)
	case "right", "l":
		return m, m.moveSelection(1)
	case "up", "k":
		return m, m.moveSelection(-7)
	case "down", "j":
		return m, m.moveSelection(7)
	}
	return m, nil
}

// moveSelection selects the day n days away, following it to its month if needed.
func (m *model) moveSelection(n int) tea.Cmd {
	sel := m.ctrl.Selected()
	if sel.IsZero() {
		sel = calendar.Today()
		if cursor := m.ctrl.Cursor(); !cursor.Contains(sel) {
			sel = cursor.FirstDay()
		}
		n = 0
	}
	sel = sel.AddDays(n)
	m.ctrl.Select(sel)

	if cursor := calendar.CursorOf(sel); cursor != m.ctrl.Cursor() {
		return m.run(func(ctx context.Context) error { return m.ctrl.Load(ctx, cursor) })
	}
	return nil
}

func (m *model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		m.focus = focusCalendar
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.sending {
			return m, nil
		}
		m.input.SetValue("")
		m.sending = true
		m.notice = ""
		return m, m.send(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.viewGrid(),
		"",
		m.viewChat(),
		m.viewFooter(),
	)
}

func (m *model) cellWidth() int {
	if m.width <= 0 {
		return defaultCellWidth
	}
	if w := m.width/7 - 1; w > 6 {
		return w
	}
	return 6
}

func (m *model) viewHeader() string {
	cursor := m.ctrl.Cursor()
	title := m.styles.Header.Render(fmt.Sprintf("%s %d", cursor.Month, cursor.Year))

	switch m.ctrl.State() {
	case schedule.Loading:
		title += "  loading..."
	case schedule.Failed:
		title += "  " + m.styles.Error.Render("could not refresh the schedule")
	}
	return title
}

func (m *model) viewGrid() string {
	width := m.cellWidth()
	grid := m.ctrl.Grid()

	header := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		day := time.Weekday(i).String()[:3]
		header = append(header, m.styles.Weekday.Width(width).Render(day))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, week := range grid.Weeks() {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, m.viewCell(calendar.RenderCell(cell, m.maxEvents), width))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *model) viewCell(rc calendar.RenderedCell, width int) string {
	dayStyle := m.styles.Cell
	switch {
	case rc.Cell.IsSelected:
		dayStyle = m.styles.Selected
	case rc.Cell.IsToday:
		dayStyle = m.styles.Today
	case !rc.Cell.IsCurrentMonth:
		dayStyle = m.styles.Outside
	}

	lines := []string{dayStyle.Render(fmt.Sprintf("%2d", rc.Cell.Date.Day))}
	for _, re := range rc.Visible {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(re.Color))
		lines = append(lines, style.Render(truncate(re.Event.Title, width-1)))
	}
	if label := rc.MoreLabel(); label != "" {
		lines = append(lines, m.styles.More.Render(label))
	}
	return lipgloss.NewStyle().Width(width).Height(m.maxEventsOrDefault() + 2).Render(strings.Join(lines, "\n"))
}

func (m *model) maxEventsOrDefault() int {
	if m.maxEvents <= 0 {
		return calendar.MaxEventsPerCell
	}
	return m.maxEvents
}

func (m *model) viewChat() string {
	msgs := m.session.Messages()
	if len(msgs) > chatHistory {
		msgs = msgs[len(msgs)-chatHistory:]
	}

	lines := make([]string, 0, len(msgs)+2)
	for _, msg := range msgs {
		if msg.FromUser {
			lines = append(lines, m.styles.User.Render("you: ")+msg.Text)
		} else {
			lines = append(lines, m.styles.Bot.Render("assistant: ")+msg.Text)
		}
	}
	if m.sending {
		lines = append(lines, m.styles.Help.Render("assistant is typing..."))
	}
	lines = append(lines, m.input.View())
	return strings.Join(lines, "\n")
}

func (m *model) viewFooter() string {
	var parts []string
	if m.notice != "" {
		parts = append(parts, m.styles.Error.Render(m.notice))
	}
	if m.focus == focusChat {
		parts = append(parts, m.styles.Help.Render("enter: send • esc/tab: calendar • ctrl+c: quit"))
	} else {
		parts = append(parts, m.styles.Help.Render("←↑↓→: select • n/p: next/prev month • t: today • r: refresh • tab: chat • q: quit"))
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
