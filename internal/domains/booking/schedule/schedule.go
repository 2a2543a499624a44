package schedule

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"terras/shared/failure"
)

// Operating hours, in minutes since midnight. Bookings may start at opening
// and end at closing, both inclusive.
const (
	OpeningMinute = 5 * 60  // 05:00
	ClosingMinute = 22 * 60 // 22:00
)

const minutesPerHour = 60

// ClockMinutes parses a "HH:MM" clock value into minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, failure.WithKind(http.StatusBadRequest, failure.KindInvalidTimeRange, fmt.Sprintf("invalid time %q, expected HH:MM", clock)) // nolint:wrapcheck
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, failure.WithKind(http.StatusBadRequest, failure.KindInvalidTimeRange, fmt.Sprintf("invalid time %q, expected HH:MM", clock)) // nolint:wrapcheck
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, failure.WithKind(http.StatusBadRequest, failure.KindInvalidTimeRange, fmt.Sprintf("invalid time %q, expected HH:MM", clock)) // nolint:wrapcheck
	}

	return hours*minutesPerHour + minutes, nil
}

// FormatClock renders minutes since midnight back into "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)
}

// ValidateTimeRange enforces the operating hours and window ordering rules.
// Each violated bound yields its own message so clients can tell them apart.
func ValidateTimeRange(startMinute, endMinute int) error {
	if startMinute < OpeningMinute {
		return failure.WithKind(http.StatusBadRequest, failure.KindInvalidTimeRange, fmt.Sprintf("booking cannot start before %s", FormatClock(OpeningMinute))) // nolint:wrapcheck
	}

	if endMinute > ClosingMinute {
		return failure.WithKind(http.StatusBadRequest, failure.KindInvalidTimeRange, fmt.Sprintf("booking cannot end after %s", FormatClock(ClosingMinute))) // nolint:wrapcheck
	}

	if startMinute >= endMinute {
		return failure.WithKind(http.StatusBadRequest, failure.KindInvalidTimeRange, "start time must be before end time") // nolint:wrapcheck
	}

	return nil
}

// DateOnly strips the clock and location from a timestamp, leaving the
// calendar day. All schedule comparisons operate on these values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DatesBetween expands an inclusive date range into each calendar day it
// covers. A range whose end precedes its start expands to nothing.
func DatesBetween(start, end time.Time) []time.Time {
	first := DateOnly(start)
	last := DateOnly(end)

	if last.Before(first) {
		return nil
	}

	days := []time.Time{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	return days
}
