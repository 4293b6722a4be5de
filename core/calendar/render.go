package calendar

import "strconv"

// MaxEventsPerCell is the number of events rendered in a day cell before the overflow label.
const MaxEventsPerCell = 3

// Palette colours events that don't carry their own colour, by position in the day.
var Palette = []string{
	"#4285f4", "#ea4335", "#fbbc04", "#34a853", "#ff6d01",
	"#46bdc6", "#7b1fa2", "#d81b60", "#5c6bc0", "#26a69a",
}

type RenderedEvent struct {
	Event Event
	Color string
}

// RenderedCell is what a day cell displays.
type RenderedCell struct {
	Cell    DayCell
	Visible []RenderedEvent
	More    int
}

// MoreLabel returns the overflow indicator, or "" when every event is visible.
func (rc RenderedCell) MoreLabel() string {
	if rc.More <= 0 {
		return ""
	}
	return "+" + strconv.Itoa(rc.More) + " more"
}

// EventColor returns ev's own colour, or the palette colour for its position in the day.
func EventColor(ev Event, pos int) string {
	if ev.Color != "" {
		return ev.Color
	}
	return Palette[pos%len(Palette)]
}

// RenderCell applies the cell display policy: at most max events (MaxEventsPerCell if
// max <= 0), then a "+N more" indicator for the rest.
func RenderCell(cell DayCell, max int) RenderedCell {
	if max <= 0 {
		max = MaxEventsPerCell
	}
	rc := RenderedCell{Cell: cell}
	for i, ev := range cell.Events {
		if i >= max {
			rc.More = len(cell.Events) - max
			break
		}
		rc.Visible = append(rc.Visible, RenderedEvent{Event: ev, Color: EventColor(ev, i)})
	}
	return rc
}
