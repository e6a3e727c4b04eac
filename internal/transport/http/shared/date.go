package shared

import (
	"fmt"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParsePeriod parses an inclusive date range. A date-only end value is pushed
// to the last instant of that day so entries from the final day are caught.
func ParsePeriod(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := ParseDate(startValue)
	if err != nil || start.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", startValue)
	}
	end, err := ParseDate(endValue)
	if err != nil || end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", endValue)
	}
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date precedes start date")
	}
	return start, end, nil
}
