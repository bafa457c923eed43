package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DailyPattern is the canonical string for a reminder that occurs every day.
const DailyPattern = "daily"

// Recurrence describes on which days of the week a reminder occurs.
// Weekdays use ISO numbering: 1 is Monday, 7 is Sunday.
type Recurrence struct {
	daily bool
	days  [8]bool
}

// Daily returns a recurrence matching every day of the week.
func Daily() Recurrence {
	return Recurrence{daily: true}
}

// OnDays returns a recurrence matching only the listed ISO weekdays.
func OnDays(days ...int) (Recurrence, error) {
	if len(days) == 0 {
		return Recurrence{}, fmt.Errorf("recurrence needs at least one weekday")
	}
	var r Recurrence
	for _, d := range days {
		if d < 1 || d > 7 {
			return Recurrence{}, fmt.Errorf("weekday %d out of range 1-7", d)
		}
		r.days[d] = true
	}
	return r, nil
}

// ParseRecurrence parses the canonical pattern string: either "daily" or a
// comma-separated list of ISO weekday numbers, e.g. "2,4".
func ParseRecurrence(pattern string) (Recurrence, error) {
	pattern = strings.TrimSpace(strings.ToLower(pattern))
	if pattern == DailyPattern {
		return Daily(), nil
	}
	if pattern == "" {
		return Recurrence{}, fmt.Errorf("empty recurrence pattern")
	}

	var days []int
	for _, part := range strings.Split(pattern, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Recurrence{}, fmt.Errorf("invalid weekday %q in recurrence", part)
		}
		days = append(days, d)
	}
	return OnDays(days...)
}

// String returns the canonical pattern string.
func (r Recurrence) String() string {
	if r.daily {
		return DailyPattern
	}
	var days []string
	for d := 1; d <= 7; d++ {
		if r.days[d] {
			days = append(days, strconv.Itoa(d))
		}
	}
	sort.Strings(days)
	return strings.Join(days, ",")
}

// IsDaily reports whether the recurrence matches every day.
func (r Recurrence) IsDaily() bool {
	return r.daily
}

// OccursOn reports whether the recurrence matches the given weekday.
func (r Recurrence) OccursOn(day time.Weekday) bool {
	if r.daily {
		return true
	}
	return r.days[isoWeekday(day)]
}

// isoWeekday converts Go's Sunday-based weekday to ISO numbering (Mon=1..Sun=7).
func isoWeekday(day time.Weekday) int {
	if day == time.Sunday {
		return 7
	}
	return int(day)
}
