package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slot labels name a recurring daily start time in the fixed textual form
// "H:MM AM" / "H:MM PM" (no leading zero on the hour, two-digit minute).
// The directory service owns the labels; they arrive as opaque strings and
// anything that doesn't parse is treated as unavailable rather than an error.

// ParseSlotLabel converts a slot label into a 24-hour (hour, minute) pair.
// Conversion rules: PM with hour != 12 adds 12; AM with hour 12 gives 0;
// everything else is unchanged, so "12:00 PM" stays noon.
func ParseSlotLabel(label string) (hour, minute int, err error) {
	hourPart, rest, ok := strings.Cut(label, ":")
	if !ok {
		return 0, 0, fmt.Errorf("slot label %q: missing ':'", label)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, 0, fmt.Errorf("slot label %q: bad hour", label)
	}
	if len(rest) < 4 {
		return 0, 0, fmt.Errorf("slot label %q: truncated", label)
	}
	m, err := strconv.Atoi(rest[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("slot label %q: bad minute", label)
	}
	switch strings.ToUpper(rest[len(rest)-2:]) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	default:
		return 0, 0, fmt.Errorf("slot label %q: missing AM/PM suffix", label)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("slot label %q: out of range", label)
	}
	return h, m, nil
}

// FilterAvailable returns the labels whose start instant on selectedDate is
// strictly after now. The result is an order-preserving subsequence of labels.
// For a selected day in the future every well-formed label survives; labels
// that fail to parse are dropped so a malformed template from the directory
// service can never take the caller down. An empty result means the caller
// must show an explicit "no slots" state, not an empty widget.
func FilterAvailable(labels []string, selectedDate, now time.Time) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		h, m, err := ParseSlotLabel(label)
		if err != nil {
			continue
		}
		start := time.Date(selectedDate.Year(), selectedDate.Month(), selectedDate.Day(), h, m, 0, 0, selectedDate.Location())
		if start.After(now) {
			out = append(out, label)
		}
	}
	return out
}
