package schedule

import "maps"

// RuleKind identifies the kind of rule a match was produced by.
type RuleKind int

const (
	KindDirect RuleKind = iota
	KindReferencing
	KindGlass
	KindEstate
	KindException
)

func (k RuleKind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindReferencing:
		return "referencing"
	case KindGlass:
		return "glass"
	case KindEstate:
		return "estate"
	case KindException:
		return "exception"
	}
	return "unknown"
}

// Fallback is the set of defaults applied to one rule kind when the dataset
// leaves a value out.
type Fallback struct {
	Label   string  // fixed stream label; empty means the rule's own label
	Weekday string  // used when the rule names no weekday
	Cadence Cadence // used when the frequency text cannot be parsed
	Count   int     // number of dates to resolve
}

// Policy holds one Fallback per rule kind.
type Policy map[RuleKind]Fallback

// DefaultPolicy returns the fallbacks used by the municipality's published
// schedule. The exception weekday is configurable, see WithExceptionWeekday.
func DefaultPolicy() Policy {
	return Policy{
		KindDirect:      {Cadence: Even, Count: 3},
		KindReferencing: {Cadence: Even, Count: 3},
		KindGlass:       {Count: 3},
		KindEstate:      {Label: "Sídliště - Kompletní svoz", Weekday: Pondeli, Cadence: EveryWeek, Count: 4},
		KindException:   {Label: "Individuální svoz", Weekday: Ctvrtek, Cadence: EveryWeek, Count: 4},
	}
}

// WithDatesPerStream returns a copy of p resolving n dates for street streams.
func (p Policy) WithDatesPerStream(n int) Policy {
	out := p.clone()
	for _, k := range []RuleKind{KindDirect, KindReferencing, KindGlass} {
		f := out[k]
		f.Count = n
		out[k] = f
	}
	return out
}

// WithExceptionWeekday returns a copy of p using weekday for exception areas
// that do not name one.
func (p Policy) WithExceptionWeekday(weekday string) Policy {
	out := p.clone()
	f := out[KindException]
	f.Weekday = weekday
	out[KindException] = f
	return out
}

func (p Policy) clone() Policy {
	return maps.Clone(p)
}

func (p Policy) label(kind RuleKind, own string) string {
	if l := p[kind].Label; l != "" {
		return l
	}
	return own
}

func (p Policy) weekday(kind RuleKind, own string) string {
	if own != "" {
		return own
	}
	return p[kind].Weekday
}
