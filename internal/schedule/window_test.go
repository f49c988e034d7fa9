package schedule

import (
	"testing"
	"time"
)

func TestWindowShape(t *testing.T) {
	anchors := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 27, 23, 59, 59, 0, time.UTC),  // leap february rollover
		time.Date(2024, 12, 29, 12, 30, 0, 0, time.UTC),  // year rollover
		time.Date(2025, 3, 8, 9, 0, 0, 0, time.Local),
	}
	for _, anchor := range anchors {
		days := Window(anchor)
		if len(days) != WindowDays {
			t.Fatalf("Window(%v): got %d days, want %d", anchor, len(days), WindowDays)
		}
		if !SameDay(days[0], anchor) {
			t.Errorf("Window(%v): first day %v is not the anchor's day", anchor, days[0])
		}
		for i := 1; i < len(days); i++ {
			if got := days[i].Sub(days[i-1]); got != 24*time.Hour {
				// DST shifts are fine as long as the calendar day advances by one
				if !SameDay(days[i], days[i-1].AddDate(0, 0, 1)) {
					t.Errorf("Window(%v): day %d (%v) does not follow day %d (%v)", anchor, i, days[i], i-1, days[i-1])
				}
			}
		}
	}
}

func TestWindowNormalizesToMidnight(t *testing.T) {
	anchor := time.Date(2024, 6, 15, 18, 45, 12, 999, time.UTC)
	for i, d := range Window(anchor) {
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
			t.Errorf("day %d not midnight: %v", i, d)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("same calendar day reported as different")
	}
	if SameDay(a, b.AddDate(0, 0, 1)) {
		t.Error("consecutive days reported as equal")
	}
}
