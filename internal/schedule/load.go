package schedule

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// wrapperKey is the optional top-level key the published dataset is nested under.
const wrapperKey = "rozpis_svozu_odpadu"

type rawRoot struct {
	Platnost string `mapstructure:"platnost"`
	Oblasti  []any  `mapstructure:"oblasti"`
}

type rawArea struct {
	Nazev        string      `mapstructure:"nazev"`
	TypyOdpadu   []rawStream `mapstructure:"typy_odpadu"`
	Ulice        []string    `mapstructure:"ulice"`
	Pravidlo     string      `mapstructure:"pravidlo"`
	SvozovyDen   string      `mapstructure:"svozovy_den"`
	CislaPopisna []int       `mapstructure:"cisla_popisna"`
	Popis        string      `mapstructure:"popis"`
}

type rawStream struct {
	Typ       string     `mapstructure:"typ"`
	Frekvence string     `mapstructure:"frekvence"`
	Rozpis    any        `mapstructure:"rozpis_dle_dnu"`
	Skupiny   []rawGroup `mapstructure:"skupiny"`
	Poznamka  string     `mapstructure:"poznamka"`
}

type rawGroup struct {
	SvozovyDen string   `mapstructure:"svozovy_den"`
	Tydny      []int    `mapstructure:"tydny"`
	Ulice      []string `mapstructure:"ulice"`
	Poznamka   string   `mapstructure:"poznamka"`
}

// LoadRuleStore reads and decodes the dataset file at path.
func LoadRuleStore(path string) (*RuleStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	store, err := DecodeRuleStore(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return store, nil
}

// DecodeRuleStore builds a RuleStore from the JSON dataset in r. The document
// may be wrapped in a "rozpis_svozu_odpadu" object.
func DecodeRuleStore(r io.Reader) (*RuleStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if inner, ok := doc[wrapperKey].(map[string]any); ok {
		doc = inner
	}

	var root rawRoot
	if err := mapstructure.Decode(doc, &root); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	sum := sha256.Sum256(bytes.TrimSpace(data))
	store := &RuleStore{
		Validity:    root.Platnost,
		Areas:       make([]Area, 0, len(root.Oblasti)),
		fingerprint: hex.EncodeToString(sum[:])[:16],
	}

	for i, item := range root.Oblasti {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("area %d: expected object, got %T", i, item)
		}
		area, err := decodeArea(fields)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i, err)
		}
		store.Areas = append(store.Areas, area)
	}

	return store, nil
}

func decodeArea(fields map[string]any) (Area, error) {
	var raw rawArea
	if err := mapstructure.Decode(fields, &raw); err != nil {
		return Area{}, err
	}

	area := Area{Name: raw.Nazev}

	switch {
	case present(fields, "typy_odpadu"):
		rules, err := decodeDirectRules(raw.TypyOdpadu)
		if err != nil {
			return Area{}, fmt.Errorf("%s: %w", raw.Nazev, err)
		}
		area.Rules = rules
	case present(fields, "cisla_popisna"):
		area.Rules = &ExceptionArea{
			Weekday:      NormalizeWeekday(raw.SvozovyDen),
			HouseNumbers: raw.CislaPopisna,
			Description:  raw.Popis,
		}
	case present(fields, "ulice"):
		area.Rules = &FlatEstateArea{
			Weekday: NormalizeWeekday(raw.SvozovyDen),
			Streets: raw.Ulice,
			Rule:    raw.Pravidlo,
		}
	default:
		area.Rules = &DirectAreaRules{}
	}

	return area, nil
}

func decodeDirectRules(streams []rawStream) (*DirectAreaRules, error) {
	rules := &DirectAreaRules{}
	policy := DefaultPolicy()

	for _, s := range streams {
		if len(s.Skupiny) > 0 {
			for _, g := range s.Skupiny {
				note := g.Poznamka
				if note == "" {
					note = s.Poznamka
				}
				rules.Glass = append(rules.Glass, GlassGroup{
					Label:   s.Typ,
					Weekday: NormalizeWeekday(g.SvozovyDen),
					Cadence: Weeks(g.Tydny...),
					Streets: g.Ulice,
					Note:    note,
				})
			}
		}

		if s.Rozpis == nil {
			continue
		}

		rule := WasteStreamRule{
			Label:     s.Typ,
			Frequency: s.Frekvence,
		}

		switch v := s.Rozpis.(type) {
		case string:
			rule.Schedule = ReferenceMarker(v)
			rule.Cadence = ParseCadence(s.Frekvence, policy[KindReferencing].Cadence)
		case map[string]any:
			mapping, err := decodeMapping(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Typ, err)
			}
			rule.Schedule = mapping
			rule.Cadence = ParseCadence(s.Frekvence, policy[KindDirect].Cadence)
		default:
			return nil, fmt.Errorf("%s: rozpis_dle_dnu must be an object or a string, got %T", s.Typ, v)
		}

		rules.Streams = append(rules.Streams, rule)
	}

	return rules, nil
}

// decodeMapping orders weekday entries Monday first; unknown keys go last
// in lexical order.
func decodeMapping(v map[string]any) (DirectMapping, error) {
	var days map[string][]string
	if err := mapstructure.Decode(v, &days); err != nil {
		return nil, err
	}

	mapping := make(DirectMapping, 0, len(days))
	for key, streets := range days {
		mapping = append(mapping, DayStreets{DayKey: key, Streets: streets})
	}
	slices.SortFunc(mapping, func(a, b DayStreets) int {
		ai, aok := WeekdayOffset(NormalizeWeekday(a.DayKey))
		bi, bok := WeekdayOffset(NormalizeWeekday(b.DayKey))
		switch {
		case aok && bok:
			return ai - bi
		case aok:
			return -1
		case bok:
			return 1
		}
		return strings.Compare(a.DayKey, b.DayKey)
	})
	return mapping, nil
}

// present reports whether key is set to a non-null value.
func present(m map[string]any, key string) bool {
	return m[key] != nil
}
