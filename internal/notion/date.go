package notion

import (
	"strings"
	"time"

	"github.com/buzz39/expense-tracker/internal/core"
)

// DefaultTimezone is the target zone expense dates are reported in.
const DefaultTimezone = "Asia/Kolkata"

// istOffset is the fixed UTC+5:30 fallback when tzdata is unavailable.
const istOffset = 5*3600 + 30*60

// Layouts that carry an explicit zone or offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// Layouts without zone information; these are parsed as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LocalZone resolves the target timezone by name, falling back to a fixed
// UTC+5:30 zone when the name is empty or tzdata cannot supply it.
func LocalZone(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("IST", istOffset)
}

// ParseDate resolves a raw date string to a calendar date in loc.
//
// Parsing tries zone-carrying layouts first, then naive layouts assumed to
// be UTC. When every layout fails, the string is truncated at the first
// time separator and the date-only prefix is retried; fallback reports
// whether that path was taken so callers can log it. ok is false when
// nothing parses.
func ParseDate(raw string, loc *time.Location) (d core.Date, fallback bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.Date{}, false, false
	}
	if t, ok := parseAny(raw); ok {
		return NormalizeTime(t, loc), false, true
	}
	if i := strings.IndexAny(raw, "T "); i > 0 {
		if t, err := time.ParseInLocation("2006-01-02", raw[:i], time.UTC); err == nil {
			return NormalizeTime(t, loc), true, true
		}
	}
	return core.Date{}, false, false
}

// NormalizeTime converts an instant to the target zone and keeps only the
// local calendar date. The conversion happens before truncation so dates
// near midnight land on the correct day.
func NormalizeTime(t time.Time, loc *time.Location) core.Date {
	return core.DateOf(t.In(loc))
}

func parseAny(raw string) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
