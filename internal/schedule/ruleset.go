// Package schedule turns the municipal collection ruleset into concrete pickup
// dates for street and house-number queries.
package schedule

import (
	"strings"
)

// ReferenceMarkerPhrase marks a stream that reuses the mixed-waste day plan.
const ReferenceMarkerPhrase = "Stejný rozpis"

// RuleStore is the parsed, immutable ruleset of one municipality.
// It is safe to share between concurrent resolutions.
type RuleStore struct {
	Validity string
	Areas    []Area

	fingerprint string
}

// Fingerprint identifies the dataset the store was built from.
func (s *RuleStore) Fingerprint() string {
	return s.fingerprint
}

// Area is a named part of the municipality with exactly one ruleset variant.
type Area struct {
	Name  string
	Rules AreaRules
}

// AreaRules is implemented by *DirectAreaRules, *FlatEstateArea and *ExceptionArea.
type AreaRules interface {
	areaRules()
}

// DirectAreaRules holds per-stream schedules and glass groups.
type DirectAreaRules struct {
	Streams []WasteStreamRule
	Glass   []GlassGroup
}

// FlatEstateArea collects every listed street on one weekday, every week.
type FlatEstateArea struct {
	Weekday string // empty means the estate policy default
	Streets []string
	Rule    string
}

// ExceptionArea lists individual house numbers with their own pickup.
type ExceptionArea struct {
	Weekday      string // empty means the exception policy default
	HouseNumbers []int
	Description  string
}

func (*DirectAreaRules) areaRules() {}
func (*FlatEstateArea) areaRules()  {}
func (*ExceptionArea) areaRules()   {}

// WasteStreamRule is one waste stream of a direct area.
type WasteStreamRule struct {
	Label     string
	Frequency string
	Cadence   Cadence
	Schedule  StreamSchedule
}

// StreamSchedule is implemented by DirectMapping and ReferenceMarker.
type StreamSchedule interface {
	streamSchedule()
}

// DayStreets lists the streets collected on one weekday key.
type DayStreets struct {
	DayKey  string
	Streets []string
}

// DirectMapping assigns streets to weekdays, Monday first.
type DirectMapping []DayStreets

// ReferenceMarker is the raw marker text of a stream without its own day plan.
// Only markers containing ReferenceMarkerPhrase resolve against the area's
// mixed-waste stream.
type ReferenceMarker string

func (DirectMapping) streamSchedule()   {}
func (ReferenceMarker) streamSchedule() {}

// Resolvable reports whether the marker refers to the mixed-waste stream.
func (m ReferenceMarker) Resolvable() bool {
	return strings.Contains(string(m), ReferenceMarkerPhrase)
}

// IsMixedWaste reports whether a stream label denotes mixed municipal waste.
func IsMixedWaste(label string) bool {
	return strings.Contains(label, "Směsný") || strings.Contains(label, "SKO")
}

// GlassGroup is a self-contained schedule for a set of streets.
type GlassGroup struct {
	Label   string
	Weekday string
	Cadence Cadence
	Streets []string
	Note    string
}

// mixedWaste returns the direct mixed-waste stream of the area, if any.
func (r *DirectAreaRules) mixedWaste() (DirectMapping, bool) {
	for _, s := range r.Streams {
		if !IsMixedWaste(s.Label) {
			continue
		}
		if m, ok := s.Schedule.(DirectMapping); ok {
			return m, true
		}
	}
	return nil, false
}
