package taxdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Tables is a versioned, read-only dataset of federal year tables and state schedules.
// Nothing in the engine mutates it; Merge returns a new dataset.
type Tables struct {
	Version string
	years   map[int]YearTable
	states  map[string]StateSchedule
}

// Default returns a freshly built copy of the built-in dataset
func Default() *Tables {
	t := &Tables{
		Version: "builtin-2026.1",
		years:   map[int]YearTable{},
		states:  builtInStates(),
	}
	for _, yt := range []YearTable{year2024(), year2025(), year2026()} {
		t.years[yt.Year] = yt
	}
	return t
}

// New builds a dataset from explicit year tables and states
func New(version string, years []YearTable, states []StateSchedule) *Tables {
	t := &Tables{Version: version, years: map[int]YearTable{}, states: map[string]StateSchedule{}}
	for _, yt := range years {
		t.years[yt.Year] = yt
	}
	for _, s := range states {
		t.states[strings.ToUpper(s.Code)] = s
	}
	return t
}

// Years returns the known tax years in ascending order
func (t *Tables) Years() []int {
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// StateCodes returns the known state codes in ascending order
func (t *Tables) StateCodes() []string {
	codes := make([]string, 0, len(t.states))
	for c := range t.states {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// ForYear returns the table for a year. When the year is missing the nearest
// known year is used (ties go to the earlier year) and a tax_data_warning note
// is returned; a provisional table also produces a note.
func (t *Tables) ForYear(year int) (YearTable, string, error) {
	if len(t.years) == 0 {
		return YearTable{}, "", ErrNoTables
	}
	if yt, ok := t.years[year]; ok {
		if yt.Provisional {
			return yt, fmt.Sprintf("tax_data_warning: %d tables are provisional and may change", year), nil
		}
		return yt, "", nil
	}

	best := 0
	bestDist := -1
	for _, y := range t.Years() {
		dist := y - year
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = y, dist
		}
	}
	return t.years[best], fmt.Sprintf("tax_data_warning: no tax tables for %d, using %d tables", year, best), nil
}

// State looks up a state schedule by code (case-insensitive)
func (t *Tables) State(code string) (StateSchedule, error) {
	s, ok := t.states[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return StateSchedule{}, fmt.Errorf("%w: %q", ErrUnknownState, code)
	}
	return s, nil
}

// Merge overlays other onto a copy of t. Years and states in other replace
// those in t wholesale.
func (t *Tables) Merge(other *Tables) *Tables {
	out := &Tables{Version: t.Version, years: map[int]YearTable{}, states: map[string]StateSchedule{}}
	for y, yt := range t.years {
		out.years[y] = yt
	}
	for c, s := range t.states {
		out.states[c] = s
	}
	if other == nil {
		return out
	}
	if other.Version != "" {
		out.Version = t.Version + "+" + other.Version
	}
	for y, yt := range other.years {
		out.years[y] = yt
	}
	for c, s := range other.states {
		out.states[c] = s
	}
	return out
}

// OrdinaryBrackets returns the ordinary schedule for a filing status
func (yt YearTable) OrdinaryBrackets(status domain.FilingStatus) []Bracket {
	return yt.Ordinary[status]
}

// CapitalGainsBrackets returns the long-term capital gains schedule for a filing status
func (yt YearTable) CapitalGainsBrackets(status domain.FilingStatus) []Bracket {
	return yt.CapitalGains[status]
}

// Standard returns the basic standard deduction for a filing status
func (yt YearTable) Standard(status domain.FilingStatus) decimal.Decimal {
	return yt.StandardDeduction[status]
}

// AdditionalSenior returns the per-person 65+ addition for a filing status
func (yt YearTable) AdditionalSenior(status domain.FilingStatus) decimal.Decimal {
	if status.IsMarried() {
		return yt.AdditionalMarried
	}
	return yt.AdditionalUnmarried
}

// IRMAATiers returns the surcharge tiers for a filing status; head of household uses single
func (yt YearTable) IRMAATiers(status domain.FilingStatus) []IRMAATier {
	if tiers, ok := yt.IRMAA[status]; ok {
		return tiers
	}
	return yt.IRMAA[domain.FilingSingle]
}

// SSThresholdsFor returns the Social Security provisional income bases
func (yt YearTable) SSThresholdsFor(status domain.FilingStatus) SSThresholds {
	if th, ok := yt.SocialSecurity[status]; ok {
		return th
	}
	return yt.SocialSecurity[domain.FilingSingle]
}

// BracketCeiling returns the upper edge of the ordinary bracket taxed at rate
func (yt YearTable) BracketCeiling(status domain.FilingStatus, rate decimal.Decimal) (decimal.Decimal, bool) {
	for _, b := range yt.Ordinary[status] {
		if b.Rate.Equal(rate) {
			return b.Max, true
		}
	}
	return decimal.Zero, false
}

// BracketRates lists the ordinary rates of a filing status in ascending order
func (yt YearTable) BracketRates(status domain.FilingStatus) []decimal.Decimal {
	brackets := yt.Ordinary[status]
	out := make([]decimal.Decimal, len(brackets))
	for i, b := range brackets {
		out[i] = b.Rate
	}
	return out
}

// BracketFor returns the bracket holding the top dollar of amount.
// Zero falls in the first bracket.
func BracketFor(brackets []Bracket, amount decimal.Decimal) Bracket {
	if len(brackets) == 0 {
		return Bracket{}
	}
	for _, b := range brackets {
		if amount.LessThanOrEqual(b.Max) {
			return b
		}
	}
	return brackets[len(brackets)-1]
}
