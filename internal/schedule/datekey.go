package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKey is the canonical encoding of a calendar day in booking requests:
// "<day>_<month>_<year>" with a 0-indexed month, so 5 March 2024 encodes as
// "5_2_2024". The directory service parses the key positionally; the encoding
// is a wire contract and must stay byte-stable.
type DateKey string

// EncodeDateKey derives the wire key for t's calendar day.
func EncodeDateKey(t time.Time) DateKey {
	return DateKey(fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month())-1, t.Year()))
}

// ParseDateKey is the documented inverse of EncodeDateKey. The returned time
// is midnight local on the encoded day.
func ParseDateKey(s string) (time.Time, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date key %q: want day_month_year", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date key %q: bad day", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 0 || month > 11 {
		return time.Time{}, fmt.Errorf("date key %q: bad month (0-indexed)", s)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 1 {
		return time.Time{}, fmt.Errorf("date key %q: bad year", s)
	}
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.Local), nil
}

func (k DateKey) String() string { return string(k) }
