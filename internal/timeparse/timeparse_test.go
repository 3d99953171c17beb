package timeparse

import (
	"errors"
	"testing"
	"time"
)

func TestParseRelative(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"2h30m", 2*time.Hour + 30*time.Minute},
		{"2 hours, 30 minutes", 2*time.Hour + 30*time.Minute},
		{"1d", 24 * time.Hour},
		{"1 day 6 hours", 30 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
		{"1y 2w 3d 4h 5m 6s", 365*24*time.Hour + 14*24*time.Hour +
			3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second},
	}

	for _, tt := range tests {
		got, err := ParseRelative(tt.input)
		if err != nil {
			t.Errorf("ParseRelative(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRelative(%q) = %v, expected %v", tt.input, got, tt.want)
		}
	}
}

func TestParseRelative_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "soon", "h", "abc 5m"} {
		if _, err := ParseRelative(input); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("ParseRelative(%q): expected ErrInvalidDuration, got %v", input, err)
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{90 * time.Second, "1 minutes, 30 seconds"},
		{26 * time.Hour, "1 days, 2 hours"},
		{367*24*time.Hour + 65*time.Minute + 2*time.Second,
			"1 years, 2 days, 1 hours, 5 minutes, 2 seconds"},
		{0, "0 seconds"},
	}

	for _, tt := range tests {
		if got := Humanize(tt.d); got != tt.want {
			t.Errorf("Humanize(%v) = %q, expected %q", tt.d, got, tt.want)
		}
	}
}
