// Package timeparse parses human-written relative durations like
// "1d 2h 30m" and renders durations back in readable form.
package timeparse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned when no duration could be parsed.
var ErrInvalidDuration = errors.New("could not parse a duration from input")

var relativeFormat = regexp.MustCompile(
	`(?i)^\s*` +
		`(?:(?P<years>\d{1,2})\s?y(?:ears?)?,?\s?)?` +
		`(?:(?P<weeks>\d{1,2})\s?w(?:eeks?)?,?\s?)?` +
		`(?:(?P<days>\d{1,4})\s?d(?:ays?)?,?\s?)?` +
		`(?:(?P<hours>\d{1,4})\s?h(?:ours?)?,?\s?)?` +
		`(?:(?P<minutes>\d{1,4})\s?m(?:in(?:ute)?s?)?,?\s?)?` +
		`(?:(?P<seconds>\d{1,4})\s?s(?:ec(?:ond)?s?)?)?` +
		`\s*$`,
)

var unitDurations = map[string]time.Duration{
	"years":   365 * 24 * time.Hour,
	"weeks":   7 * 24 * time.Hour,
	"days":    24 * time.Hour,
	"hours":   time.Hour,
	"minutes": time.Minute,
	"seconds": time.Second,
}

// ParseRelative parses a relative duration expression. Units may be
// abbreviated ("2h30m") or written out ("2 hours, 30 minutes"), but must
// appear in descending order of magnitude.
func ParseRelative(input string) (time.Duration, error) {
	if strings.TrimSpace(input) == "" {
		return 0, ErrInvalidDuration
	}

	m := relativeFormat.FindStringSubmatch(input)
	if m == nil {
		return 0, ErrInvalidDuration
	}

	var total time.Duration
	matched := false
	for i, name := range relativeFormat.SubexpNames() {
		if name == "" || m[i] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i])
		if err != nil {
			return 0, ErrInvalidDuration
		}
		total += time.Duration(n) * unitDurations[name]
		matched = true
	}
	if !matched {
		return 0, ErrInvalidDuration
	}
	return total, nil
}

// Humanize expands a duration into readable components, e.g.
// "1 years, 2 days, 5 minutes". Zero components are omitted.
func Humanize(d time.Duration) string {
	if d < time.Second {
		return "0 seconds"
	}

	days := int(d.Hours()) / 24
	pairs := []struct {
		n    int
		unit string
	}{
		{days / 365, "years"},
		{days % 365, "days"},
		{int(d.Hours()) % 24, "hours"},
		{int(d.Minutes()) % 60, "minutes"},
		{int(d.Seconds()) % 60, "seconds"},
	}

	var parts []string
	for _, p := range pairs {
		if p.n != 0 {
			parts = append(parts, strconv.Itoa(p.n)+" "+p.unit)
		}
	}
	return strings.Join(parts, ", ")
}
