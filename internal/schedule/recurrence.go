package schedule

import (
	"time"
)

// MaxWeeks bounds how far ahead NextDates searches (about two years).
const MaxWeeks = 100

// Czech weekday display names, Monday first.
const (
	Pondeli = "Pondělí"
	Utery   = "Úterý"
	Streda  = "Středa"
	Ctvrtek = "Čtvrtek"
	Patek   = "Pátek"
	Sobota  = "Sobota"
	Nedele  = "Neděle"
)

// Weekdays lists the recognised weekday names from Monday to Sunday.
var Weekdays = []string{Pondeli, Utery, Streda, Ctvrtek, Patek, Sobota, Nedele}

// weekdayKeys maps the ASCII-folded keys used in the dataset to display names.
var weekdayKeys = map[string]string{
	"Pondeli": Pondeli,
	"Utery":   Utery,
	"Streda":  Streda,
	"Ctvrtek": Ctvrtek,
	"Patek":   Patek,
	"Sobota":  Sobota,
	"Nedele":  Nedele,
}

// NormalizeWeekday turns a dataset weekday key into its display name.
// Unknown keys are returned unchanged.
func NormalizeWeekday(key string) string {
	if name, ok := weekdayKeys[key]; ok {
		return name
	}
	return key
}

// WeekdayOffset returns the offset of the named weekday from Monday (0-6).
func WeekdayOffset(name string) (int, bool) {
	for i, w := range Weekdays {
		if w == name {
			return i, true
		}
	}
	return 0, false
}

// NextDates returns up to count dates, on or after today, that fall on the
// named weekday in a week accepted by the cadence. Dates are local midnights
// in ascending order. An unknown weekday yields no dates.
func NextDates(c Cadence, weekday string, count int, today time.Time) []time.Time {
	offset, ok := WeekdayOffset(weekday)
	if !ok || count <= 0 {
		return []time.Time{}
	}

	today = midnight(today)
	monday := mondayOf(today)

	dates := make([]time.Time, 0, count)
	for i := 0; i < MaxWeeks && len(dates) < count; i++ {
		target := monday.AddDate(0, 0, 7*i+offset)
		if !c.Matches(WeekNumber(target)) {
			continue
		}
		if target.Before(today) {
			continue
		}
		dates = append(dates, target)
	}
	return dates
}
