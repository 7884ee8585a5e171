package schedule

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// CadenceKind tells which ISO weeks a collection takes place in.
type CadenceKind int

const (
	CadenceEven CadenceKind = iota
	CadenceOdd
	CadenceWeeks
	CadenceEveryWeek
)

// Cadence is a recurrence predicate over ISO week numbers.
type Cadence struct {
	Kind  CadenceKind
	Weeks []int // only for CadenceWeeks
}

var (
	Even = Cadence{Kind: CadenceEven}
	Odd  = Cadence{Kind: CadenceOdd}
	// EveryWeek matches every ISO week of the year (1-53).
	EveryWeek = Cadence{Kind: CadenceEveryWeek}
)

// Weeks returns a cadence matching exactly the given week numbers.
// Values outside 1-53 are kept and simply never match.
func Weeks(weeks ...int) Cadence {
	return Cadence{Kind: CadenceWeeks, Weeks: slices.Clone(weeks)}
}

// Matches reports whether the ISO week number satisfies the cadence.
func (c Cadence) Matches(week int) bool {
	switch c.Kind {
	case CadenceEven:
		return week%2 == 0
	case CadenceOdd:
		return week%2 != 0
	case CadenceWeeks:
		return slices.Contains(c.Weeks, week)
	case CadenceEveryWeek:
		return week >= 1 && week <= 53
	}
	return false
}

func (c Cadence) String() string {
	switch c.Kind {
	case CadenceEven:
		return "sudé týdny"
	case CadenceOdd:
		return "liché týdny"
	case CadenceEveryWeek:
		return "každý týden"
	case CadenceWeeks:
		return "týdny " + strings.Join(lo.Map(c.Weeks, func(w int, _ int) string { return strconv.Itoa(w) }), ", ")
	}
	return fmt.Sprintf("Cadence(%d)", int(c.Kind))
}

var explicitWeeksRe = regexp.MustCompile(`\(([\d, ]+)\)`)

// ParseCadence reads a frequency text such as "Liché týdny" or
// "1x za 4 týdny (3, 7, 11)". An explicit parenthesised list wins over an
// odd/even keyword; text with neither yields fallback.
func ParseCadence(text string, fallback Cadence) Cadence {
	if text == "" {
		return fallback
	}

	if m := explicitWeeksRe.FindStringSubmatch(text); m != nil {
		weeks := lo.FilterMap(strings.Split(m[1], ","), func(s string, _ int) (int, bool) {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			return n, err == nil
		})
		return Weeks(weeks...)
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "sudé"):
		return Even
	case strings.Contains(lower, "liché"):
		return Odd
	}
	return fallback
}
