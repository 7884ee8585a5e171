package app

import (
	"github.com/klabast/wb-services/svoz-odpadu/internal/schedule"
)

// Event represents a single waste collection event
type Event struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Area        string `json:"-"`
}

// PickupDate is one resolved collection date
type PickupDate struct {
	Date    string `json:"date"`
	Label   string `json:"label"`
	Holiday string `json:"holiday,omitempty"`
}

// Pickup represents one waste stream collected at an address
type Pickup struct {
	WasteType   string       `json:"wasteType"`
	DayName     string       `json:"dayName"`
	Dates       []PickupDate `json:"dates"`
	Description string       `json:"description,omitempty"`
	AreaName    string       `json:"areaName"`
}

// StreetResult represents all pickups for one street or house number
type StreetResult struct {
	StreetName string   `json:"streetName"`
	Schedules  []Pickup `json:"schedules"`
}

// LookupResponse is the body of /api/lookup
type LookupResponse struct {
	Query   string         `json:"query"`
	Date    string         `json:"date"`
	Results []StreetResult `json:"results"`
}

// NewStreetResults converts resolver output into the API representation.
func NewStreetResults(results []schedule.StreetResult) []StreetResult {
	out := make([]StreetResult, 0, len(results))
	holidays := map[int]map[string]string{}

	for _, r := range results {
		sr := StreetResult{StreetName: r.Key, Schedules: make([]Pickup, 0, len(r.Pickups))}
		for _, p := range r.Pickups {
			pickup := Pickup{
				WasteType:   p.Stream,
				DayName:     p.Weekday,
				Dates:       make([]PickupDate, 0, len(p.Dates)),
				Description: p.Description,
				AreaName:    p.Area,
			}
			for _, d := range p.Dates {
				if holidays[d.Year()] == nil {
					holidays[d.Year()] = GetCZHolidays(d.Year())
				}
				pickup.Dates = append(pickup.Dates, PickupDate{
					Date:    formatDateFromTime(d),
					Label:   schedule.FormatDate(d),
					Holiday: holidays[d.Year()][formatDateFromTime(d)],
				})
			}
			sr.Schedules = append(sr.Schedules, pickup)
		}
		out = append(out, sr)
	}
	return out
}

// EventsFor flattens the pickups of one result into events sorted by date.
func EventsFor(r schedule.StreetResult) []Event {
	var events []Event
	for _, p := range r.Pickups {
		for _, d := range p.Dates {
			events = append(events, Event{
				Date:        formatDateFromTime(d),
				Type:        eventType(p.Stream),
				Description: p.Stream,
				Area:        p.Area,
			})
		}
	}
	SortEventsByDate(events)
	return events
}
