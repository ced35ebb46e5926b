package config

import (
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var expiryPattern = regexp.MustCompile(`^(\d+)([smhdwy])$`)

// ParseExpiry parses a suffix-coded duration string into a time.Duration.
// Supported suffixes: s (seconds), m (minutes), h (hours), d (days),
// w (weeks), y (years, 365 days).
func ParseExpiry(s string) (time.Duration, error) {
	match := expiryPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, errors.Errorf("invalid expiry %q: want <number><s|m|h|d|w|y>", s)
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid expiry %q", s)
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	case "y":
		unit = 365 * 24 * time.Hour
	}

	return time.Duration(n) * unit, nil
}
