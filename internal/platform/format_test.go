package platform

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int64
		expected string
	}{
		{name: "zero", seconds: 0, expected: "0:00:00"},
		{name: "seconds only", seconds: 59, expected: "0:00:59"},
		{name: "minutes", seconds: 212, expected: "0:03:32"},
		{name: "hours", seconds: 3661, expected: "1:01:01"},
		{name: "more than a day", seconds: 90000, expected: "25:00:00"},
		{name: "negative clamps", seconds: -5, expected: "0:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.expected {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestFormatViews(t *testing.T) {
	tests := []struct {
		views    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatViews(tt.views); got != tt.expected {
			t.Errorf("FormatViews(%d) = %q, want %q", tt.views, got, tt.expected)
		}
	}
}

func TestParseUploadDate(t *testing.T) {
	got, err := ParseUploadDate("20240131")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseUploadDate = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2024-01-31", "2024013"} {
		if _, err := ParseUploadDate(bad); err == nil {
			t.Errorf("ParseUploadDate(%q) expected error", bad)
		}
	}
}

func TestRelativeDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		published time.Time
		now       time.Time
		expected  string
	}{
		{name: "today", published: day(2024, 3, 10), now: day(2024, 3, 10).Add(15 * time.Hour), expected: "0 days ago."},
		{name: "future date", published: day(2024, 3, 11), now: day(2024, 3, 10), expected: "0 days ago."},
		{name: "one day", published: day(2024, 3, 9), now: day(2024, 3, 10), expected: "1 day ago."},
		{name: "days across month boundary", published: day(2024, 1, 15), now: day(2024, 2, 10), expected: "26 days ago."},
		{name: "one month", published: day(2024, 1, 15), now: day(2024, 2, 15), expected: "1 month ago."},
		{name: "eleven months", published: day(2023, 1, 15), now: day(2024, 1, 14), expected: "11 months ago."},
		{name: "one year", published: day(2023, 1, 15), now: day(2024, 1, 15), expected: "1 year ago."},
		{name: "year boundary is not a year", published: day(2023, 12, 31), now: day(2024, 1, 1), expected: "1 day ago."},
		{name: "several years", published: day(2015, 6, 1), now: day(2024, 5, 31), expected: "8 years ago."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeDate(tt.published, tt.now); got != tt.expected {
				t.Errorf("RelativeDate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseDurationRoundTrip(t *testing.T) {
	for _, d := range []int64{0, 1, 59, 60, 61, 3599, 3600, 3661, 86399, 90000, 1234567} {
		got, err := ParseDuration(FormatDuration(d))
		if err != nil {
			t.Fatalf("ParseDuration(FormatDuration(%d)) error = %v", d, err)
		}
		if got != d {
			t.Errorf("round trip of %d gave %d", d, got)
		}
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, s := range []string{"", "12", "1:2:3:4", "a:00:00", "0:60:00", "0:00:-1"} {
		if _, err := ParseDuration(s); err == nil {
			t.Errorf("ParseDuration(%q) expected error", s)
		}
	}
}
