// Package calendar computes the week keys that partition all weekly data.
// A week starts on Monday at 00:00:00 in the server's local time zone.
package calendar

import "time"

// KeyLayout is the storage format of a week key.
const KeyLayout = "2006-01-02"

// WeekStart returns Monday 00:00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}

// WeekKey returns the week key for t.
func WeekKey(t time.Time) string {
	return WeekStart(t).Format(KeyLayout)
}

// ParseKey parses a week key in the server's local time zone.
func ParseKey(key string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, key, time.Local)
}

// WeeksBack returns the key of the week n weeks before the week of t.
func WeeksBack(t time.Time, n int) string {
	return WeekStart(t).AddDate(0, 0, -7*n).Format(KeyLayout)
}
