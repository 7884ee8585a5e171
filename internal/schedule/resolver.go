package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MinQueryLength is the shortest query that is resolved at all.
const MinQueryLength = 2

// PickupMatch is one waste stream collected at a matched address.
type PickupMatch struct {
	Stream      string
	Weekday     string
	Dates       []time.Time
	Description string
	Area        string
	Kind        RuleKind
}

// StreetResult groups every match for one street or house number.
type StreetResult struct {
	Key     string
	Pickups []PickupMatch
}

// HouseNumberKey is the result key used for house-number matches.
func HouseNumberKey(n int) string {
	return fmt.Sprintf("č.p. %d", n)
}

// Resolver answers address queries against a RuleStore.
type Resolver struct {
	store  *RuleStore
	policy Policy
}

// NewResolver returns a resolver over store. A nil policy means DefaultPolicy.
func NewResolver(store *RuleStore, policy Policy) *Resolver {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Resolver{store: store, policy: policy}
}

// Store returns the rule store the resolver reads from.
func (r *Resolver) Store() *RuleStore {
	return r.store
}

var numericQueryRe = regexp.MustCompile(`^\d+$`)

// Resolve matches query against every area and returns the merged results in
// first-discovered order. Queries shorter than MinQueryLength yield nothing.
func (r *Resolver) Resolve(query string, today time.Time) []StreetResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []StreetResult{}
	}

	res := &resolution{
		query:   q,
		today:   midnight(today),
		policy:  r.policy,
		results: newOrderedResults(),
	}
	if numericQueryRe.MatchString(q) {
		if n, err := strconv.Atoi(q); err == nil {
			res.houseNumber = n
			res.numeric = true
		}
	}

	for _, area := range r.store.Areas {
		switch rules := area.Rules.(type) {
		case *DirectAreaRules:
			res.direct(area.Name, rules)
			res.referencing(area.Name, rules)
			res.glass(area.Name, rules)
		case *FlatEstateArea:
			res.estate(area.Name, rules)
		case *ExceptionArea:
			res.exception(area.Name, rules)
		}
	}

	return res.results.list()
}

// resolution is the state of a single Resolve call.
type resolution struct {
	query       string
	today       time.Time
	policy      Policy
	numeric     bool
	houseNumber int
	results     *orderedResults
}

func (res *resolution) matches(street string) bool {
	return strings.Contains(strings.ToLower(street), res.query)
}

func (res *resolution) pickup(kind RuleKind, area, label, weekday string, c Cadence, description string) PickupMatch {
	weekday = res.policy.weekday(kind, weekday)
	return PickupMatch{
		Stream:      res.policy.label(kind, label),
		Weekday:     weekday,
		Dates:       NextDates(c, weekday, res.policy[kind].Count, res.today),
		Description: description,
		Area:        area,
		Kind:        kind,
	}
}

func (res *resolution) direct(area string, rules *DirectAreaRules) {
	for _, stream := range rules.Streams {
		mapping, ok := stream.Schedule.(DirectMapping)
		if !ok {
			continue
		}
		for _, day := range mapping {
			for _, street := range day.Streets {
				if !res.matches(street) {
					continue
				}
				res.results.add(street, res.pickup(KindDirect, area, stream.Label, NormalizeWeekday(day.DayKey), stream.Cadence, ""))
			}
		}
	}
}

func (res *resolution) referencing(area string, rules *DirectAreaRules) {
	var lookup *streetLookup

	for _, stream := range rules.Streams {
		marker, ok := stream.Schedule.(ReferenceMarker)
		if !ok || !marker.Resolvable() {
			continue
		}
		if lookup == nil {
			base, found := rules.mixedWaste()
			if !found {
				return
			}
			lookup = newStreetLookup(base)
		}
		for _, street := range lookup.streets {
			if !res.matches(street) {
				continue
			}
			weekday := NormalizeWeekday(lookup.dayKey[street])
			res.results.add(street, res.pickup(KindReferencing, area, stream.Label, weekday, stream.Cadence, stream.Frequency))
		}
	}
}

// streetLookup maps each street of a direct mapping to its weekday key.
// A street listed under several days keeps its first position and the
// last day it was listed under.
type streetLookup struct {
	streets []string
	dayKey  map[string]string
}

func newStreetLookup(m DirectMapping) *streetLookup {
	l := &streetLookup{dayKey: make(map[string]string)}
	for _, day := range m {
		for _, street := range day.Streets {
			if _, seen := l.dayKey[street]; !seen {
				l.streets = append(l.streets, street)
			}
			l.dayKey[street] = day.DayKey
		}
	}
	return l
}

func (res *resolution) glass(area string, rules *DirectAreaRules) {
	for _, group := range rules.Glass {
		for _, street := range group.Streets {
			if !res.matches(street) {
				continue
			}
			res.results.add(street, res.pickup(KindGlass, area, group.Label, group.Weekday, group.Cadence, group.Note))
		}
	}
}

func (res *resolution) estate(area string, rules *FlatEstateArea) {
	for _, street := range rules.Streets {
		if !res.matches(street) {
			continue
		}
		res.results.add(street, res.pickup(KindEstate, area, "", rules.Weekday, res.policy[KindEstate].Cadence, rules.Rule))
	}
}

func (res *resolution) exception(area string, rules *ExceptionArea) {
	if !res.numeric {
		return
	}
	for _, n := range rules.HouseNumbers {
		if n != res.houseNumber {
			continue
		}
		res.results.add(HouseNumberKey(n), res.pickup(KindException, area, "", rules.Weekday, res.policy[KindException].Cadence, rules.Description))
		return
	}
}
