package schedule

import (
	"fmt"
	"time"
)

// ParseClock parses a "HH:MM" time-of-day string.
func ParseClock(clock string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time format %q, expected HH:MM: %w", clock, err)
	}
	return t.Hour(), t.Minute(), nil
}

// CanonicalClock normalizes a time-of-day string to zero-padded "HH:MM".
// time.Parse accepts a single-digit hour like "9:30", but stored values sort
// lexicographically, so only the canonical form may be persisted.
func CanonicalClock(clock string) (string, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// MinutesOfDay converts a "HH:MM" string to minutes since midnight.
// Malformed input reads as midnight, matching the lenient parsing used for
// stored values that were validated on write.
func MinutesOfDay(clock string) int {
	t, _ := time.Parse("15:04", clock)
	return t.Hour()*60 + t.Minute()
}

// instantOn anchors a time-of-day to the date of ref in ref's location.
func instantOn(clock string, ref time.Time) time.Time {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		hour, minute = 0, 0
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
}

// IsLate reports whether a reminder scheduled at clock is overdue at now.
// A reminder already marked done for the day is never late.
func IsLate(clock string, done bool, now time.Time) bool {
	if done {
		return false
	}
	return now.After(instantOn(clock, now))
}

// TimeRemaining renders the time until (or since) today's occurrence at clock.
// The value is recomputed from now on every call and must not be cached.
func TimeRemaining(clock string, done bool, now time.Time) string {
	if done {
		return "Completed"
	}

	scheduled := instantOn(clock, now)
	diff := scheduled.Sub(now).Round(time.Minute)
	late := diff < 0
	if late {
		diff = -diff
	}

	hours := int(diff / time.Hour)
	minutes := int(diff % time.Hour / time.Minute)

	var span string
	if hours > 0 {
		span = fmt.Sprintf("%dh %dm", hours, minutes)
	} else {
		span = fmt.Sprintf("%dm", minutes)
	}

	if late {
		return span + " late"
	}
	return "in " + span
}

// NextOccurrence returns the first instant strictly after now at which a
// reminder with the given clock and recurrence fires. It scans at most a week
// ahead plus today.
func NextOccurrence(clock string, r Recurrence, now time.Time) time.Time {
	for offset := 0; offset <= 7; offset++ {
		day := now.AddDate(0, 0, offset)
		if !r.OccursOn(day.Weekday()) {
			continue
		}
		instant := instantOn(clock, day)
		if instant.After(now) {
			return instant
		}
	}
	// Unreachable for any valid recurrence: a weekday set always matches
	// within the scanned window.
	return time.Time{}
}

// DayStamp formats a time as the "YYYY-MM-DD" key used to scope reminder
// statuses to a single day.
func DayStamp(t time.Time) string {
	return t.Format("2006-01-02")
}
