package merra2

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// unitsRe splits a CF time unit string, e.g. "minutes since 2014-01-01 00:30:00".
var unitsRe = regexp.MustCompile(`(?i)^\s*([a-z]+)\s+since\s+(.+?)\s*$`)

// baseLayouts are the base-date spellings seen in archive unit strings.
var baseLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseUnits decodes a CF time unit string into the per-count step and the
// base instant (UTC).
func parseUnits(units string) (time.Duration, time.Time, error) {
	m := unitsRe.FindStringSubmatch(units)
	if m == nil {
		return 0, time.Time{}, fmt.Errorf("unparseable time units %q", units)
	}

	var step time.Duration
	switch strings.ToLower(m[1]) {
	case "seconds", "second", "secs", "sec", "s":
		step = time.Second
	case "minutes", "minute", "mins", "min":
		step = time.Minute
	case "hours", "hour", "hrs", "hr", "h":
		step = time.Hour
	case "days", "day", "d":
		step = 24 * time.Hour
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q in %q", m[1], units)
	}

	for _, layout := range baseLayouts {
		if base, err := time.ParseInLocation(layout, m[2], time.UTC); err == nil {
			return step, base, nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("unparseable base date %q in %q", m[2], units)
}

// decodeTimes converts numeric axis offsets into calendar timestamps.
// Fractional offsets are honored to sub-second precision.
func decodeTimes(offsets []float64, units string) ([]time.Time, error) {
	step, base, err := parseUnits(units)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(offsets))
	for i, v := range offsets {
		times[i] = base.Add(time.Duration(v * float64(step)))
	}
	return times, nil
}
