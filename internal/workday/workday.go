// Package workday holds the calendar arithmetic shared by leave scheduling.
// Weekends are Saturday and Sunday; holidays are out of scope here.
package workday

import "time"

// IsWeekend reports whether d falls on Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextWorkingDay returns the first day strictly after d that is not a weekend.
func NextWorkingDay(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// CountWorkingDays counts the weekdays in [start, end] inclusive.
// Returns 0 when end is before start. This is the authoritative duration
// computation: callers that persist a duration must persist this value.
func CountWorkingDays(start, end time.Time) int {
	start = truncateToDate(start)
	end = truncateToDate(end)

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			days++
		}
	}
	return days
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
