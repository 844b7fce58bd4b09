// Package calendar provides weekday arithmetic for cycle-time reporting.
package calendar

import "time"

// IsBusinessDay reports whether t falls Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDaysBetween counts weekdays from start to end, both inclusive,
// comparing calendar dates in start's location. Holidays are not considered.
//
// When end is before start the result is negative; it is never zero in that
// case so callers can discard it with a simple sign check.
func BusinessDaysBetween(start, end time.Time) int {
	from := dateOf(start, start.Location())
	to := dateOf(end, start.Location())

	if to.Before(from) {
		n := countInclusive(to, from)
		if n == 0 {
			return -1
		}
		return -n
	}
	return countInclusive(from, to)
}

func countInclusive(from, to time.Time) int {
	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if IsBusinessDay(day) {
			count++
		}
	}
	return count
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
