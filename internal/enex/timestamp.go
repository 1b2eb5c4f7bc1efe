package enex

import (
	"regexp"
	"strings"
	"time"
)

// fractionalTail strips a fractional-seconds suffix like ".123Z" or ".123".
var fractionalTail = regexp.MustCompile(`\.\d+Z?$`)

// parseTimestamp accepts the compact export forms: YYYYMMDDTHHMMSSZ, the same
// with fractional seconds, and a bare YYYYMMDD date. Any other shape yields a
// zero time; timestamp absence never aborts parsing of the note.
func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	switch {
	case strings.Contains(value, "T") && strings.HasSuffix(value, "Z"):
		if ts, err := time.Parse("20060102T150405Z", value); err == nil {
			return ts
		}
		// Fractional seconds keep the trailing Z; strip the tail and retry.
		trimmed := fractionalTail.ReplaceAllString(value, "")
		if ts, err := time.Parse("20060102T150405", trimmed); err == nil {
			return ts
		}
	case strings.Contains(value, "T"):
		trimmed := fractionalTail.ReplaceAllString(value, "")
		if ts, err := time.Parse("20060102T150405", trimmed); err == nil {
			return ts
		}
	default:
		if ts, err := time.Parse("20060102", value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
