package cli

import (
	"testing"
	"time"
)

func TestParseTimes(t *testing.T) {
	times, err := ParseTimes("07:00, 18:30")
	if err != nil {
		t.Fatalf("Failed to parse times: %v", err)
	}
	if len(times) != 2 || times[0] != "07:00" || times[1] != "18:30" {
		t.Errorf("Got %v, want [07:00 18:30]", times)
	}

	times, err = ParseTimes("")
	if err != nil || times != nil {
		t.Errorf("Empty input should parse to nil, got %v / %v", times, err)
	}

	if _, err := ParseTimes("7am"); err == nil {
		t.Error("Expected error for non-HH:MM time")
	}
	if _, err := ParseTimes("07:00,25:00"); err == nil {
		t.Error("Expected error for out-of-range time")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "-"},
		{-5, "-"},
		{45, "45s"},
		{90, "1m"},
		{1800, "30m"},
		{3660, "1h01m"},
		{7200, "2h00m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(nil); got != "never" {
		t.Errorf("FormatTimestamp(nil) = %q, want never", got)
	}

	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(&ts); got != "2025-06-01 09:30" {
		t.Errorf("FormatTimestamp = %q, want 2025-06-01 09:30", got)
	}
}
