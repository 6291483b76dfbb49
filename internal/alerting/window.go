package alerting

import (
	"fmt"
	"time"
)

// Symbolic period tokens accepted in Alert.PeriodOfTime.
const (
	PeriodHour  = "1h"
	PeriodWeek  = "1w"
	PeriodMonth = "1m"
)

var periodDurations = map[string]time.Duration{
	PeriodHour:  time.Hour,
	PeriodWeek:  7 * 24 * time.Hour,
	PeriodMonth: 30 * 24 * time.Hour,
}

var periodLabels = map[string]string{
	PeriodHour:  "hour",
	PeriodWeek:  "week",
	PeriodMonth: "month",
}

// ResolveWindow turns a period selector into a concrete [start, end) pair.
//
// A symbolic token (1h, 1w, 1m) always yields a trailing window ending at
// ref: [ref - duration, ref). Anything else is parsed as an RFC 3339
// timestamp and used as an explicit start with end = ref; unparseable input
// fails with ErrInvalidTimestamp.
func ResolveWindow(period string, ref time.Time) (start, end time.Time, err error) {
	if d, ok := periodDurations[period]; ok {
		return ref.Add(-d), ref, nil
	}
	start, err = time.Parse(time.RFC3339, period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, period)
	}
	return start, ref, nil
}

// ValidPeriod reports whether p is one of the symbolic period tokens.
func ValidPeriod(p string) bool {
	_, ok := periodDurations[p]
	return ok
}

// PeriodLabel maps a symbolic token to its human label (hour/week/month)
// for notification text. Unknown input is returned as-is.
func PeriodLabel(period string) string {
	if l, ok := periodLabels[period]; ok {
		return l
	}
	return period
}
