package calendar

// Bins maps a YYYY-MM-DD date-key to the events occurring on that day, in source order.
type Bins map[string][]Event

// On returns the events binned on d.
func (b Bins) On(d Date) []Event {
	return b[d.Key()]
}

// Count returns the number of events binned on d.
func (b Bins) Count(d Date) int {
	return len(b[d.Key()])
}

// BinEvents groups events by every day they cover within [first, last].
// Events entirely outside the window are dropped; malformed spans (end < start)
// are binned on their start date only.
func BinEvents(events []Event, first, last Date) Bins {
	bins := make(Bins)
	if last.Before(first) {
		return bins
	}
	for _, ev := range events {
		start, end := ev.Span()
		if start.IsZero() || end.Before(first) || start.After(last) {
			continue
		}
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		for d := start; !d.After(end); d = d.AddDays(1) {
			key := d.Key()
			bins[key] = append(bins[key], ev)
		}
	}
	return bins
}
