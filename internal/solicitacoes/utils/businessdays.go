package utils

import "time"

const secondsPerDay = 24 * 60 * 60

// BusinessDays counts Monday to Friday dates in [start, end). When end is
// before start the count covers [end, start) and is negative. Times of day
// are ignored and there is no holiday calendar.
func BusinessDays(start, end time.Time) int {
	s := dateOnly(start)
	e := dateOnly(end)
	if e.Before(s) {
		return -BusinessDays(e, s)
	}

	days := int((e.Unix() - s.Unix()) / secondsPerDay)
	weeks := days / 7
	count := weeks * 5

	d := s.AddDate(0, 0, weeks*7)
	for d.Before(e) {
		if isWeekday(d) {
			count++
		}
		d = d.AddDate(0, 0, 1)
	}
	return count
}

// CalendarDays is the whole number of days from start to end, rounded down.
func CalendarDays(start, end time.Time) int {
	secs := end.Unix() - start.Unix()
	days := secs / secondsPerDay
	if secs < 0 && secs%secondsPerDay != 0 {
		days--
	}
	return int(days)
}

func isWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
