package schedule

import (
	"testing"
	"time"
)

func TestEncodeDateKey(t *testing.T) {
	cases := []struct {
		date time.Time
		want DateKey
	}{
		{time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "5_2_2024"},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "1_0_2024"},
		{time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC), "31_11_2025"},
	}
	for _, c := range cases {
		if got := EncodeDateKey(c.date); got != c.want {
			t.Errorf("EncodeDateKey(%v) = %q, want %q", c.date, got, c.want)
		}
	}
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	parsed, err := ParseDateKey(string(EncodeDateKey(day)))
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if !SameDay(parsed, day) {
		t.Fatalf("round trip lost the day: got %v want %v", parsed, day)
	}
}

func TestParseDateKeyRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "5_2", "5_12_2024", "0_2_2024", "32_2_2024", "5_two_2024", "2024-03-05"} {
		if _, err := ParseDateKey(s); err == nil {
			t.Errorf("ParseDateKey(%q): want error, got none", s)
		}
	}
}
