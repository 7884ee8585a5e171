package schedule

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate renders t the way Czech calendars print it, e.g. "úterý 20. 10. 2026".
func FormatDate(t time.Time) string {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	return fmt.Sprintf("%s %d. %d. %d", strings.ToLower(Weekdays[offset]), t.Day(), int(t.Month()), t.Year())
}
