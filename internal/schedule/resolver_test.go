package schedule

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday of ISO week 41 (odd)
var monday = date(2026, 10, 5)

func loadFixture(t *testing.T) *RuleStore {
	t.Helper()
	store, err := LoadRuleStore("testdata/waste.json")
	require.NoError(t, err)
	return store
}

func streams(r StreetResult) []string {
	return lo.Map(r.Pickups, func(p PickupMatch, _ int) string { return p.Stream })
}

func TestResolve_ReferencingStreamUsesOwnCadence(t *testing.T) {
	store := &RuleStore{Areas: []Area{{
		Name: "Mimo sídliště",
		Rules: &DirectAreaRules{Streams: []WasteStreamRule{
			{Label: "Směsný odpad", Cadence: Even, Schedule: DirectMapping{{DayKey: "Utery", Streets: []string{"Hlavní"}}}},
			{Label: "Plast", Frequency: "Liché týdny", Cadence: Odd, Schedule: ReferenceMarker("Stejný rozpis jako SKO")},
		}},
	}}}

	got := NewResolver(store, nil).Resolve("hlavní", monday)

	require.Len(t, got, 1)
	assert.Equal(t, "Hlavní", got[0].Key)
	require.Len(t, got[0].Pickups, 2)

	sko, plast := got[0].Pickups[0], got[0].Pickups[1]
	assert.Equal(t, "Směsný odpad", sko.Stream)
	assert.Equal(t, Utery, sko.Weekday)
	assert.Equal(t, KindDirect, sko.Kind)
	assert.Equal(t, []time.Time{date(2026, 10, 13), date(2026, 10, 27), date(2026, 11, 10)}, sko.Dates)

	assert.Equal(t, "Plast", plast.Stream)
	assert.Equal(t, Utery, plast.Weekday)
	assert.Equal(t, KindReferencing, plast.Kind)
	assert.Equal(t, "Liché týdny", plast.Description)
	assert.Equal(t, []time.Time{date(2026, 10, 6), date(2026, 10, 20), date(2026, 11, 3)}, plast.Dates)
	for _, d := range plast.Dates {
		assert.Equal(t, 1, WeekNumber(d)%2)
	}
}

func TestResolve_ReferenceWithoutBaseYieldsNothing(t *testing.T) {
	store := &RuleStore{Areas: []Area{
		{
			Name: "A",
			Rules: &DirectAreaRules{Streams: []WasteStreamRule{
				{Label: "Směsný odpad", Cadence: Even, Schedule: DirectMapping{{DayKey: "Utery", Streets: []string{"Hlavní"}}}},
			}},
		},
		{
			// the reference must not reach across areas
			Name: "B",
			Rules: &DirectAreaRules{Streams: []WasteStreamRule{
				{Label: "Plast", Cadence: Odd, Schedule: ReferenceMarker("Stejný rozpis")},
				{Label: "Papír", Cadence: Odd, Schedule: ReferenceMarker("viz leták")},
			}},
		},
	}}

	got := NewResolver(store, nil).Resolve("hlav", monday)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Směsný odpad"}, streams(got[0]))
}

func TestResolve_FixtureMergesAllPasses(t *testing.T) {
	got := NewResolver(loadFixture(t), nil).Resolve("Hlavní", monday)

	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, "Hlavní", r.Key)
	assert.Equal(t, []string{
		"Směsný komunální odpad (SKO)",
		"Plast",
		"Papír",
		"Sklo",
		"Sídliště - Kompletní svoz",
	}, streams(r))

	papir := r.Pickups[2]
	assert.Equal(t, []time.Time{date(2026, 10, 20), date(2026, 11, 17), date(2026, 12, 15)}, papir.Dates)

	sklo := r.Pickups[3]
	assert.Equal(t, Patek, sklo.Weekday)
	assert.Equal(t, "Zvony u obchodního domu", sklo.Description)
	assert.Equal(t, []time.Time{date(2026, 10, 16), date(2026, 11, 13), date(2026, 12, 11)}, sklo.Dates)

	estate := r.Pickups[4]
	assert.Equal(t, "Sídliště", estate.Area)
	assert.Equal(t, Pondeli, estate.Weekday)
	assert.Equal(t, "Svoz všech složek každé pondělí", estate.Description)
	assert.Equal(t, []time.Time{date(2026, 10, 5), date(2026, 10, 12), date(2026, 10, 19), date(2026, 10, 26)}, estate.Dates)
}

func TestResolve_StreetListedOnTwoDays(t *testing.T) {
	got := NewResolver(loadFixture(t), nil).Resolve("vyhl", monday)

	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, "Na Vyhlídce", r.Key)
	require.Len(t, r.Pickups, 4)
	assert.Equal(t, Utery, r.Pickups[0].Weekday)
	assert.Equal(t, Streda, r.Pickups[1].Weekday)
	// referencing streams see the last day the street is listed under
	assert.Equal(t, Streda, r.Pickups[2].Weekday)
	assert.Equal(t, Streda, r.Pickups[3].Weekday)
}

func TestResolve_InsertionOrder(t *testing.T) {
	got := NewResolver(loadFixture(t), nil).Resolve("í", monday)
	assert.Empty(t, got)

	got = NewResolver(loadFixture(t), nil).Resolve("ní", monday)
	keys := lo.Map(got, func(r StreetResult, _ int) string { return r.Key })
	assert.Equal(t, []string{"Hlavní", "Polní"}, keys)
}

func TestResolve_GlassGroupNoteOverride(t *testing.T) {
	got := NewResolver(loadFixture(t), nil).Resolve("myslivecká", monday)

	require.Len(t, got, 1)
	sklo, ok := lo.Find(got[0].Pickups, func(p PickupMatch) bool { return p.Kind == KindGlass })
	require.True(t, ok)
	assert.Equal(t, "Jen horní část", sklo.Description)
	assert.Equal(t, []time.Time{date(2026, 10, 30), date(2026, 11, 27)}, sklo.Dates[:2])
}

func TestResolve_HouseNumber(t *testing.T) {
	got := NewResolver(loadFixture(t), nil).Resolve("1710", monday)

	require.Len(t, got, 1)
	assert.Equal(t, "č.p. 1710", got[0].Key)
	require.Len(t, got[0].Pickups, 1)

	p := got[0].Pickups[0]
	assert.Equal(t, "Individuální svoz", p.Stream)
	assert.Equal(t, Ctvrtek, p.Weekday)
	assert.Equal(t, "Výjimky", p.Area)
	assert.Equal(t, "Individuální svoz po dohodě", p.Description)
	assert.Equal(t, []time.Time{date(2026, 10, 8), date(2026, 10, 15), date(2026, 10, 22), date(2026, 10, 29)}, p.Dates)
}

func TestResolve_HouseNumberWeekdayFallback(t *testing.T) {
	store := loadFixture(t)

	got := NewResolver(store, nil).Resolve("99", monday)
	require.Len(t, got, 1)
	assert.Equal(t, Ctvrtek, got[0].Pickups[0].Weekday)

	got = NewResolver(store, DefaultPolicy().WithExceptionWeekday(Streda)).Resolve("99", monday)
	require.Len(t, got, 1)
	assert.Equal(t, Streda, got[0].Pickups[0].Weekday)
	assert.Equal(t, date(2026, 10, 7), got[0].Pickups[0].Dates[0])
}

func TestResolve_NonNumericQuerySkipsHouseNumbers(t *testing.T) {
	assert.Empty(t, NewResolver(loadFixture(t), nil).Resolve("17x", monday))
	assert.Empty(t, NewResolver(loadFixture(t), nil).Resolve("171", monday))
}

func TestResolve_ShortQuery(t *testing.T) {
	r := NewResolver(loadFixture(t), nil)

	for _, q := range []string{"", "H", "h", "  a  ", "1"} {
		got := r.Resolve(q, monday)
		assert.NotNil(t, got)
		assert.Empty(t, got, "query %q", q)
	}
}

func TestResolve_CaseInsensitiveSubstring(t *testing.T) {
	r := NewResolver(loadFixture(t), nil)

	for _, q := range []string{"mysl", "MYSL", "ivec", "  Mysl "} {
		got := r.Resolve(q, monday)
		require.Len(t, got, 1, "query %q", q)
		assert.Equal(t, "Myslivecká", got[0].Key)
	}
}

func TestResolve_DatesPerStream(t *testing.T) {
	r := NewResolver(loadFixture(t), DefaultPolicy().WithDatesPerStream(5))

	got := r.Resolve("polní", monday)

	require.Len(t, got, 1)
	for _, p := range got[0].Pickups {
		assert.Len(t, p.Dates, 5, p.Stream)
	}
}

func TestResolve_UnknownWeekdayKeyYieldsNoDates(t *testing.T) {
	store := &RuleStore{Areas: []Area{{
		Name: "A",
		Rules: &DirectAreaRules{Streams: []WasteStreamRule{
			{Label: "SKO", Cadence: Even, Schedule: DirectMapping{{DayKey: "Weekend", Streets: []string{"Hlavní"}}}},
		}},
	}}}

	got := NewResolver(store, nil).Resolve("hlavní", monday)

	require.Len(t, got, 1)
	assert.Equal(t, "Weekend", got[0].Pickups[0].Weekday)
	assert.Empty(t, got[0].Pickups[0].Dates)
}

func TestResolve_EmptyStore(t *testing.T) {
	assert.Empty(t, NewResolver(&RuleStore{}, nil).Resolve("hlavní", monday))
}
