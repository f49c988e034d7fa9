package schedule

import "time"

// WindowDays is the number of selectable calendar days offered to a client.
const WindowDays = 7

// Window returns WindowDays consecutive calendar days, the first being the
// anchor's own day. Each entry is midnight in the anchor's location; callers
// default the current selection to the first entry.
func Window(anchor time.Time) []time.Time {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	out := make([]time.Time, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		out = append(out, day.AddDate(0, 0, i))
	}
	return out
}

// SameDay reports whether a and b fall on the same calendar day. Dates in the
// window are identified by day/month/year only, never by instant equality.
func SameDay(a, b time.Time) bool {
	return a.Day() == b.Day() && a.Month() == b.Month() && a.Year() == b.Year()
}
