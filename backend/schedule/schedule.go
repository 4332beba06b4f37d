// Package schedule holds the datastore-independent scheduling rules: day
// truncation, weekday indexing and the "possible habit" predicate. The
// controllers and the summary aggregation share these so that the weekday
// arithmetic is never re-derived inside a query string.
package schedule

import "time"

// Clock provides the current time. Injected into the controllers so that
// "today" is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the server clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// StartOfDay truncates t to midnight in the reference location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekDay returns the weekday index of t in the reference location,
// Sunday=0 through Saturday=6.
func WeekDay(t time.Time, loc *time.Location) int {
	return int(t.In(loc).Weekday())
}

// IsPossible reports whether a habit created at createdAt and scheduled on
// weekDays is eligible for completion on date: the habit must exist on or
// before that day and the day's weekday must be scheduled.
func IsPossible(createdAt, date time.Time, weekDays []int, loc *time.Location) bool {
	day := StartOfDay(date, loc)
	if StartOfDay(createdAt, loc).After(day) {
		return false
	}
	wd := WeekDay(day, loc)
	for _, d := range weekDays {
		if d == wd {
			return true
		}
	}
	return false
}

// ValidWeekDays reports whether days is a set of unique integers in [0,6].
// Out-of-range or duplicate values are rejected, never clamped.
func ValidWeekDays(days []int) bool {
	var seen [7]bool
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}
