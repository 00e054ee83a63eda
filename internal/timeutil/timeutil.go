// Package timeutil converts between the board's zoned-time text profile and
// epoch milliseconds. The profile is ISO-8601 with mandatory millisecond
// precision and an explicit zone designator, e.g. "2024-01-15T10:30:00.000Z".
package timeutil

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// ZonedLayout is the only accepted textual form. ".000" makes the three
// fractional digits mandatory on parse and fixed-width on format.
const ZonedLayout = "2006-01-02T15:04:05.000Z07:00"

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// ParseZonedTime parses text in ZonedLayout and returns epoch milliseconds.
func ParseZonedTime(text string) (int64, error) {
	t, err := time.Parse(ZonedLayout, text)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// FormatEpoch renders epoch milliseconds in ZonedLayout, normalized to UTC.
func FormatEpoch(epochMillis int64) string {
	return time.UnixMilli(epochMillis).UTC().Format(ZonedLayout)
}

// IsValid reports whether text parses under ZonedLayout.
func IsValid(text string) bool {
	_, err := ParseZonedTime(text)
	return err == nil
}

// NowEpoch returns the current time in epoch milliseconds.
func NowEpoch() int64 {
	return clock.Now().UnixMilli()
}
