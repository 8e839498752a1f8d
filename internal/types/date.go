package types

import "time"

// TruncateToDay returns midnight UTC of the calendar day t falls on in UTC
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole UTC calendar days from start to end
func DaysBetween(start, end time.Time) int {
	return int(TruncateToDay(end).Sub(TruncateToDay(start)).Hours() / 24)
}

// MonthBounds returns the first instant of t's UTC month and the first instant of the next one
func MonthBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
