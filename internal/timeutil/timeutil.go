// Package timeutil converts the human-friendly time and duration strings
// accepted by rash's filter flags ("7 days", "1 hour ago", "2d") into
// absolute timestamps and durations in seconds.
//
// Per spec.md §7, an unparseable time or duration is a query-parse error:
// the caller decides whether to surface it or fall back to leaving the
// filter unset (the CLI layer chooses to surface it; the store package
// never panics on one).
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Now is overridable in tests; production code always uses time.Now.
var Now = time.Now

var units = map[string]time.Duration{
	"second":  time.Second,
	"seconds": time.Second,
	"sec":     time.Second,
	"secs":    time.Second,
	"s":       time.Second,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"min":     time.Minute,
	"mins":    time.Minute,
	"m":       time.Minute,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"hr":      time.Hour,
	"hrs":     time.Hour,
	"h":       time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
	"d":       24 * time.Hour,
	"week":    7 * 24 * time.Hour,
	"weeks":   7 * 24 * time.Hour,
	"w":       7 * 24 * time.Hour,
	"year":    365 * 24 * time.Hour,
	"years":   365 * 24 * time.Hour,
}

// ParseDuration parses a bare duration string such as "7 days", "1h",
// "90 minutes" into a time.Duration. It is more permissive than
// time.ParseDuration: it accepts a space between the number and unit and
// plural/abbreviated unit spellings.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("timeutil: empty duration")
	}

	if d, err := time.ParseDuration(strings.ReplaceAll(s, " ", "")); err == nil {
		return d, nil
	}

	numStr, unitStr, ok := splitNumberUnit(s)
	if !ok {
		return 0, fmt.Errorf("timeutil: cannot parse duration %q", s)
	}

	n, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("timeutil: invalid number in duration %q: %w", s, err)
	}

	unit, ok := units[strings.ToLower(unitStr)]
	if !ok {
		return 0, fmt.Errorf("timeutil: unknown duration unit %q", unitStr)
	}

	return time.Duration(n * float64(unit)), nil
}

func splitNumberUnit(s string) (number, unit string, ok bool) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		f := fields[0]
		i := 0
		for i < len(f) && (f[i] == '.' || f[i] == '-' || (f[i] >= '0' && f[i] <= '9')) {
			i++
		}
		if i == 0 || i == len(f) {
			return "", "", false
		}
		return f[:i], f[i:], true
	case 2:
		return fields[0], fields[1], true
	default:
		return "", "", false
	}
}

// ParseTime parses an absolute or relative point in time.
//
// Supported forms:
//   - RFC3339 and a handful of common date/time layouts
//   - "now"
//   - "<duration> ago", e.g. "1 hour ago", "7 days ago"
//   - a bare duration, treated the same as "<duration> ago"
//   - POSIX seconds, e.g. "1700000000"
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("timeutil: empty time")
	}

	if strings.EqualFold(s, "now") {
		return Now(), nil
	}

	if strings.HasSuffix(strings.ToLower(s), " ago") {
		rest := s[:len(s)-len(" ago")]
		d, err := ParseDuration(rest)
		if err != nil {
			return time.Time{}, err
		}
		return Now().Add(-d), nil
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) >= 9 {
		return time.Unix(secs, 0).UTC(), nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if d, err := ParseDuration(s); err == nil {
		return Now().Add(-d), nil
	}

	return time.Time{}, fmt.Errorf("timeutil: cannot parse time %q", s)
}

// DurationSeconds converts a duration string to a float number of seconds,
// as used by duration_longer_than / duration_less_than filters which
// compare against `(julianday(stop) - julianday(start)) * 86400`.
func DurationSeconds(s string) (float64, error) {
	d, err := ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}
