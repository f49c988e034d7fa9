package schedule

import (
	"testing"
	"time"
)

func TestParseSlotLabelConversion(t *testing.T) {
	cases := []struct {
		label        string
		hour, minute int
	}{
		{"12:00 AM", 0, 0},
		{"12:00 PM", 12, 0},
		{"11:59 PM", 23, 59},
		{"1:00 AM", 1, 0},
		{"2:30 PM", 14, 30},
		{"9:05 AM", 9, 5},
	}
	for _, c := range cases {
		h, m, err := ParseSlotLabel(c.label)
		if err != nil {
			t.Errorf("ParseSlotLabel(%q): unexpected error: %v", c.label, err)
			continue
		}
		if h != c.hour || m != c.minute {
			t.Errorf("ParseSlotLabel(%q) = (%d,%d), want (%d,%d)", c.label, h, m, c.hour, c.minute)
		}
	}
}

func TestParseSlotLabelMalformed(t *testing.T) {
	for _, label := range []string{
		"",
		"lunch",
		"2:30",      // no suffix
		"2:xx PM",   // junk minutes
		"13:00 PM",  // rolls past 23 after conversion
		"2:75 PM",   // minute out of range
		"half past", // no colon at all
	} {
		if _, _, err := ParseSlotLabel(label); err == nil {
			t.Errorf("ParseSlotLabel(%q): want error, got none", label)
		}
	}
}

func TestFilterAvailableTodayBoundary(t *testing.T) {
	now := time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)
	labels := []string{"2:00 PM", "2:29 PM", "2:30 PM", "2:31 PM"}

	got := FilterAvailable(labels, now, now)
	if len(got) != 1 || got[0] != "2:31 PM" {
		t.Fatalf("FilterAvailable at 14:30 = %v, want [2:31 PM]", got)
	}
}

func TestFilterAvailableFutureDatePassesAll(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	labels := []string{"9:00 AM", "1:30 PM", "11:45 PM"}

	got := FilterAvailable(labels, tomorrow, now)
	if len(got) != len(labels) {
		t.Fatalf("future date: got %v, want all of %v", got, labels)
	}
	for i := range labels {
		if got[i] != labels[i] {
			t.Errorf("order not preserved at %d: got %q want %q", i, got[i], labels[i])
		}
	}
}

func TestFilterAvailableDropsMalformed(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)
	labels := []string{"9:00 AM", "whenever", "10:00 AM - 11:00 AM", "10:30 AM"}

	got := FilterAvailable(labels, tomorrow, now)
	// "10:00 AM - 11:00 AM" still parses positionally (minute "00", suffix "AM"),
	// which matches how the directory service treats range-style labels.
	want := []string{"9:00 AM", "10:00 AM - 11:00 AM", "10:30 AM"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestFilterAvailableEmptyInput(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if got := FilterAvailable(nil, now, now); len(got) != 0 {
		t.Fatalf("empty labels: got %v", got)
	}
}
