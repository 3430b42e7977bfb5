package repository

import "time"

// dayStart truncates t to midnight of its UTC calendar date.
func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayWindow returns the half-open range [from, to) covering the UTC calendar
// date of t.
func dayWindow(t time.Time) (time.Time, time.Time) {
	from := dayStart(t)
	return from, from.AddDate(0, 0, 1)
}

// weekWindow returns the half-open range covering the calendar dates from
// now shifted by offsetSeconds through seven days later, both inclusive.
func weekWindow(now time.Time, offsetSeconds int) (time.Time, time.Time) {
	local := now.UTC().Add(time.Duration(offsetSeconds) * time.Second)
	from := dayStart(local)
	to := dayStart(local.AddDate(0, 0, 7)).AddDate(0, 0, 1)
	return from, to
}
