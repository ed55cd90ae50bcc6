// Package duration parses the short lookback windows used by CLI filters
// such as "votes --since 7d": Nd (days), Nw (weeks) or Nm (months).
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var pattern = regexp.MustCompile(`^(\d+)([dwm])$`)

const day = 24 * time.Hour

// Parse parses "7d", "4w" or "3m". A month is 30 days.
func Parse(s string) (time.Duration, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration format: %s (use 7d, 4w, or 3m)", s)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}

	switch m[2] {
	case "w":
		return time.Duration(n) * 7 * day, nil
	case "m":
		return time.Duration(n) * 30 * day, nil
	default:
		return time.Duration(n) * day, nil
	}
}

// Since returns the instant s before now.
func Since(now time.Time, s string) (time.Time, error) {
	d, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}
