package app

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/klabast/wb-services/svoz-odpadu/internal/schedule"
)

// ServeIndex serves the lookup page HTML
func ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(IndexHTML); err != nil {
		log.Printf("Error writing index HTML: %v", err)
	}
}

// GetConfig returns the ruleset metadata and the current week
func GetConfig(w http.ResponseWriter, r *http.Request) {
	res := CurrentResolver()
	if res == nil {
		http.Error(w, ErrInternalServer, http.StatusServiceUnavailable)
		return
	}
	store := res.Store()
	now := Now()

	config := map[string]interface{}{
		"validity":    store.Validity,
		"areas":       lo.Map(store.Areas, func(a schedule.Area, _ int) string { return a.Name }),
		"weekdays":    schedule.Weekdays,
		"currentWeek": schedule.WeekNumber(now),
		"evenWeek":    schedule.IsEvenWeek(now),
		"today":       formatDateFromTime(now),
		"holidays":    GetCZHolidays(now.Year()),
		"minQuery":    schedule.MinQueryLength,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(config); err != nil {
		log.Printf("Error encoding config: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}

// HandleLookup resolves a street name or house number
// Query param: q
func HandleLookup(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	res := CurrentResolver()
	if res == nil {
		http.Error(w, ErrInternalServer, http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query().Get("q")
	now := Now()
	date := formatDateFromTime(now)
	key := LookupKey(res.Store().Fingerprint(), date, query)

	if Cache != nil {
		data, ok, err := Cache.Get(r.Context(), key)
		if err != nil {
			log.Printf("Error reading lookup cache: %v", err)
		}
		if ok {
			writeJSON(w, data)
			return
		}
	}

	resp := LookupResponse{
		Query:   query,
		Date:    date,
		Results: NewStreetResults(res.Resolve(query, now)),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		log.Printf("Error encoding lookup: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}

	if Cache != nil {
		if err := Cache.Set(r.Context(), key, buf.Bytes()); err != nil {
			log.Printf("Error writing lookup cache: %v", err)
		}
	}

	writeJSON(w, buf.Bytes())
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// findResult resolves query with the given number of dates per stream and
// returns the result stored under key
func findResult(query, key string, count int) (schedule.StreetResult, bool) {
	res := CurrentResolver()
	if res == nil {
		return schedule.StreetResult{}, false
	}
	policy := Settings.Policy().WithDatesPerStream(count)
	results := schedule.NewResolver(res.Store(), policy).Resolve(query, Now())
	return lo.Find(results, func(r schedule.StreetResult) bool { return r.Key == key })
}

// HandleDownload handles export downloads in ICS, CSV or JSON format
// Query params: key (street name or "č.p. N"), q (defaults to key), format,
// wasteTypes (comma separated slugs)
func HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	query := r.URL.Query().Get("q")
	format := r.URL.Query().Get("format")
	wasteTypesFilter := r.URL.Query().Get("wasteTypes")

	if query == "" {
		query = queryForKey(key)
	}

	result, ok := findResult(query, key, Settings.DatesPerStream)
	if !ok {
		http.Error(w, ErrKeyNotFound, http.StatusNotFound)
		return
	}

	events := filterEvents(EventsFor(result), wasteTypesFilter)

	switch format {
	case "ics":
		GenerateICS(w, r, key, events)
	case "csv":
		GenerateCSV(w, key, events)
	case "json":
		GenerateJSON(w, key, events)
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

// HandleSubscribe handles calendar subscription requests
// URL: /api/subscribe/{key}
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/subscribe/")
	wasteTypesFilter := r.URL.Query().Get("wasteTypes")

	result, ok := findResult(queryForKey(key), key, Settings.SubscribeDates)
	if !ok {
		http.Error(w, ErrKeyNotFound, http.StatusNotFound)
		return
	}

	GenerateSubscriptionICS(w, r, key, filterEvents(EventsFor(result), wasteTypesFilter))
}

// HandleReload re-reads the dataset file (admin only)
func HandleReload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	store, err := ReloadRuleset()
	if err != nil {
		log.Printf("Error reloading ruleset: %v", err)
		http.Error(w, ErrReloadFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]interface{}{
		"status":      "ok",
		"areas":       len(store.Areas),
		"fingerprint": store.Fingerprint(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// queryForKey turns a result key back into a query that finds it
func queryForKey(key string) string {
	if n, ok := strings.CutPrefix(key, "č.p. "); ok {
		return n
	}
	return key
}

func filterEvents(events []Event, wasteTypesFilter string) []Event {
	if wasteTypesFilter == "" {
		return events
	}
	types := strings.Split(wasteTypesFilter, ",")
	return lo.Filter(events, func(e Event, _ int) bool {
		return lo.Contains(types, e.Type)
	})
}
