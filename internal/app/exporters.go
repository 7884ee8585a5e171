package app

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// writeString writes to w and logs any error (helper for ICS generation)
func writeString(w io.Writer, s string) {
	if _, err := fmt.Fprint(w, s); err != nil {
		log.Printf("Error writing to response: %v", err)
	}
}

// eventUIDs returns one UID per event, stable across requests so calendar
// apps update instead of duplicating. Events that would still collide (same
// date, stream, area and key) get a running suffix.
func eventUIDs(events []Event, key string) []string {
	uids := make([]string, len(events))
	seen := make(map[string]int, len(events))
	for i, event := range events {
		parts := []string{event.Date, event.Type}
		if event.Area != "" {
			parts = append(parts, eventType(event.Area))
		}
		parts = append(parts, eventType(key))
		base := strings.Join(parts, "-")

		seen[base]++
		if n := seen[base]; n > 1 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		uids[i] = base + "@" + ICSUIDDomain
	}
	return uids
}

// writeEvent writes one all-day VEVENT without closing it
func writeEvent(w io.Writer, key, uid string, event Event, eventDate time.Time) {
	writeString(w, "BEGIN:VEVENT\n")
	writeString(w, fmt.Sprintf("UID:%s\n", uid))
	writeString(w, fmt.Sprintf("DTSTAMP:%s\n", Now().UTC().Format("20060102T150405Z")))
	writeString(w, fmt.Sprintf("DTSTART;VALUE=DATE:%s\n", eventDate.Format("20060102")))
	writeString(w, fmt.Sprintf("DTEND;VALUE=DATE:%s\n", eventDate.AddDate(0, 0, 1).Format("20060102")))
	writeString(w, fmt.Sprintf("SUMMARY:%s\n", event.Description))
	writeString(w, fmt.Sprintf("DESCRIPTION:Svoz %s - %s\n", event.Description, key))
	writeString(w, fmt.Sprintf("LOCATION:%s\n", key))
}

// GenerateICS generates an iCalendar (ICS) file with optional reminders
func GenerateICS(w http.ResponseWriter, r *http.Request, key string, events []Event) {
	// Parse reminder settings
	reminder2Days := r.URL.Query().Get("reminder2Days") == "true"
	reminder1Day := r.URL.Query().Get("reminder1Day") == "true"
	reminderSameDay := r.URL.Query().Get("reminderSameDay") == "true"
	time2Days := r.URL.Query().Get("time2Days")
	time1Day := r.URL.Query().Get("time1Day")
	timeSameDay := r.URL.Query().Get("timeSameDay")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=svoz_%s.ics", eventType(key)))

	// ICS header
	writeString(w, "BEGIN:VCALENDAR\n")
	writeString(w, "VERSION:2.0\n")
	writeString(w, fmt.Sprintf("PRODID:%s\n", ICSProductID))
	writeString(w, fmt.Sprintf("X-WR-CALNAME:Svoz odpadu %s\n", key))
	writeString(w, fmt.Sprintf("X-WR-TIMEZONE:%s\n", ICSTimezone))
	writeString(w, "CALSCALE:GREGORIAN\n")

	uids := eventUIDs(events, key)
	for i, event := range events {
		eventDate, err := time.Parse("2006-01-02", event.Date)
		if err != nil {
			continue
		}

		writeEvent(w, key, uids[i], event, eventDate)

		// Add reminders
		if reminder2Days && time2Days != "" {
			AddAlarm(w, eventDate, 2, time2Days, event.Description)
		}
		if reminder1Day && time1Day != "" {
			AddAlarm(w, eventDate, 1, time1Day, event.Description)
		}
		if reminderSameDay && timeSameDay != "" {
			AddAlarm(w, eventDate, 0, timeSameDay, event.Description)
		}

		writeString(w, "END:VEVENT\n")
	}

	writeString(w, "END:VCALENDAR\n")
}

// AddAlarm adds an alarm/reminder to an ICS event
func AddAlarm(w io.Writer, eventDate time.Time, daysBefore int, alarmTime string, description string) {
	// Parse alarm time (HH:MM format)
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}

	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}

	// Event starts at 00:00 on eventDate, alarm fires at alarmTime on (eventDate - daysBefore)
	alarmDate := eventDate.AddDate(0, 0, -daysBefore)
	alarmDateTime := time.Date(alarmDate.Year(), alarmDate.Month(), alarmDate.Day(), hour, minute, 0, 0, time.UTC)
	eventStart := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)
	duration := alarmDateTime.Sub(eventStart)

	// Format as ISO 8601 duration
	totalMinutes := int(duration.Minutes())
	isNegative := totalMinutes < 0
	if isNegative {
		totalMinutes = -totalMinutes
	}

	days := totalMinutes / (24 * 60)
	remainingMinutes := totalMinutes % (24 * 60)
	hours := remainingMinutes / 60
	minutes := remainingMinutes % 60

	trigger := fmt.Sprintf("P%dDT%dH%dM", days, hours, minutes)
	if isNegative {
		trigger = "-" + trigger
	}

	writeString(w, "BEGIN:VALARM\n")
	writeString(w, "ACTION:DISPLAY\n")
	writeString(w, fmt.Sprintf("DESCRIPTION:Připomínka: %s\n", description))
	writeString(w, fmt.Sprintf("TRIGGER:%s\n", trigger))
	writeString(w, "END:VALARM\n")
}

// GenerateCSV generates a CSV file with waste collection events
func GenerateCSV(w http.ResponseWriter, key string, events []Event) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=svoz_%s.csv", eventType(key)))

	cw := csv.NewWriter(w)
	rows := [][]string{{"Datum", "Druh odpadu", "Popis"}}
	for _, event := range events {
		rows = append(rows, []string{event.Date, event.Type, event.Description})
	}
	if err := cw.WriteAll(rows); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

// GenerateJSON generates a JSON file with waste collection events
func GenerateJSON(w http.ResponseWriter, key string, events []Event) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=svoz_%s.json", eventType(key)))

	if events == nil {
		events = []Event{}
	}
	data := map[string]interface{}{
		"street": key,
		"events": events,
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON export: %v", err)
		http.Error(w, ErrFailedToGenerateJSON, http.StatusInternalServerError)
	}
}

// GenerateSubscriptionICS generates an iCalendar (ICS) subscription feed.
// Unlike GenerateICS it is served inline, carries no VALARM blocks and
// asks clients to refresh daily since upcoming dates roll forward.
func GenerateSubscriptionICS(w http.ResponseWriter, r *http.Request, key string, events []Event) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")

	writeString(w, "BEGIN:VCALENDAR\n")
	writeString(w, "VERSION:2.0\n")
	writeString(w, fmt.Sprintf("PRODID:%s\n", ICSProductID))
	writeString(w, "METHOD:PUBLISH\n")
	writeString(w, fmt.Sprintf("X-WR-CALNAME:Svoz odpadu %s\n", key))
	writeString(w, fmt.Sprintf("X-WR-TIMEZONE:%s\n", ICSTimezone))
	writeString(w, "CALSCALE:GREGORIAN\n")
	writeString(w, "X-PUBLISHED-TTL:P1D\n")

	uids := eventUIDs(events, key)
	for i, event := range events {
		eventDate, err := time.Parse("2006-01-02", event.Date)
		if err != nil {
			continue
		}
		writeEvent(w, key, uids[i], event, eventDate)
		writeString(w, "END:VEVENT\n")
	}

	writeString(w, "END:VCALENDAR\n")
}
