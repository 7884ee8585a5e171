package app

import (
	"time"
)

// GetCZHolidays returns all public holidays in Czechia for the given year
func GetCZHolidays(year int) map[string]string {
	holidays := make(map[string]string)

	// Fixed holidays
	holidays[formatDate(year, 1, 1)] = "Den obnovy samostatného českého státu"
	holidays[formatDate(year, 5, 1)] = "Svátek práce"
	holidays[formatDate(year, 5, 8)] = "Den vítězství"
	holidays[formatDate(year, 7, 5)] = "Den slovanských věrozvěstů Cyrila a Metoděje"
	holidays[formatDate(year, 7, 6)] = "Den upálení mistra Jana Husa"
	holidays[formatDate(year, 9, 28)] = "Den české státnosti"
	holidays[formatDate(year, 10, 28)] = "Den vzniku samostatného československého státu"
	holidays[formatDate(year, 11, 17)] = "Den boje za svobodu a demokracii"
	holidays[formatDate(year, 12, 24)] = "Štědrý den"
	holidays[formatDate(year, 12, 25)] = "1. svátek vánoční"
	holidays[formatDate(year, 12, 26)] = "2. svátek vánoční"

	// Easter-based holidays (movable)
	easter := calculateEaster(year)

	// Velký pátek (Good Friday): Easter - 2 days
	holidays[formatDateFromTime(easter.AddDate(0, 0, -2))] = "Velký pátek"

	// Velikonoční pondělí (Easter Monday): Easter + 1 day
	holidays[formatDateFromTime(easter.AddDate(0, 0, 1))] = "Velikonoční pondělí"

	return holidays
}

// calculateEaster calculates Easter Sunday using the Meeus/Jones/Butcher algorithm
func calculateEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	// Use noon to avoid timezone issues when formatting to YYYY-MM-DD
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

// formatDate formats a date as YYYY-MM-DD
func formatDate(year, month, day int) string {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// formatDateFromTime formats a time.Time as YYYY-MM-DD
func formatDateFromTime(t time.Time) string {
	return t.Format("2006-01-02")
}
