package schedule

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// WeekNumber returns the ISO-8601 week number (1-53) of the wall-clock date of t.
// The date is shifted to the Thursday of its Monday-Sunday week and counted
// from the start of that Thursday's year.
func WeekNumber(t time.Time) int {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	// Sunday counts as weekday 7
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	date = date.AddDate(0, 0, 4-weekday)

	yearStart := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := float64(date.Sub(yearStart)/day) + 1
	return int(math.Ceil(days / 7))
}

// IsEvenWeek reports whether t falls into an even ISO week.
func IsEvenWeek(t time.Time) bool {
	return WeekNumber(t)%2 == 0
}

// midnight returns local midnight of the wall-clock date of t.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf returns the Monday starting the week of t.
func mondayOf(t time.Time) time.Time {
	t = midnight(t)
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	return t.AddDate(0, 0, -offset)
}
