package taxdata

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the YAML shape of a table overlay
type File struct {
	Version string      `yaml:"version"`
	Years   []FileYear  `yaml:"years"`
	States  []FileState `yaml:"states"`
}

// FileBracket is one bracket row; a missing up_to marks the top bracket
type FileBracket struct {
	UpTo *decimal.Decimal `yaml:"up_to"`
	Rate decimal.Decimal  `yaml:"rate"`
}

// FileTier is one IRMAA tier row
type FileTier struct {
	Threshold decimal.Decimal `yaml:"threshold"`
	PartB     decimal.Decimal `yaml:"part_b"`
	PartD     decimal.Decimal `yaml:"part_d"`
}

// FileYear describes one tax year. Base copies an existing year first and
// IndexRate inflates every dollar figure of that copy before overrides apply.
type FileYear struct {
	Year                int                        `yaml:"year"`
	Base                int                        `yaml:"base"`
	IndexRate           decimal.Decimal            `yaml:"index_rate"`
	Provisional         bool                       `yaml:"provisional"`
	Ordinary            map[string][]FileBracket   `yaml:"ordinary"`
	CapitalGains        map[string][]FileBracket   `yaml:"capital_gains"`
	StandardDeduction   map[string]decimal.Decimal `yaml:"standard_deduction"`
	AdditionalUnmarried *decimal.Decimal           `yaml:"additional_unmarried"`
	AdditionalMarried   *decimal.Decimal           `yaml:"additional_married"`
	IRMAA               map[string][]FileTier      `yaml:"irmaa"`
	QCDLimit            *decimal.Decimal           `yaml:"qcd_limit"`
}

// FileState describes one state schedule
type FileState struct {
	Code                    string                   `yaml:"code"`
	Name                    string                   `yaml:"name"`
	Kind                    StateKind                `yaml:"kind"`
	Rate                    decimal.Decimal          `yaml:"rate"`
	ExemptsRetirementIncome bool                     `yaml:"exempts_retirement_income"`
	Brackets                map[string][]FileBracket `yaml:"brackets"`
}

// LoadFile reads a YAML overlay and merges it onto base
func LoadFile(path string, base *Tables) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax tables %s: %w", path, err)
	}
	return Parse(data, base)
}

// Parse decodes overlay YAML and merges it onto base
func Parse(data []byte, base *Tables) (*Tables, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tax tables: %w", err)
	}
	if base == nil {
		base = Default()
	}
	overlay, err := f.build(base)
	if err != nil {
		return nil, err
	}
	return base.Merge(overlay), nil
}

func (f File) build(base *Tables) (*Tables, error) {
	years := make([]YearTable, 0, len(f.Years))
	for i, fy := range f.Years {
		yt, err := fy.build(base)
		if err != nil {
			return nil, fmt.Errorf("years[%d] (%d): %w", i, fy.Year, err)
		}
		years = append(years, yt)
	}
	states := make([]StateSchedule, 0, len(f.States))
	for i, fs := range f.States {
		s, err := fs.build()
		if err != nil {
			return nil, fmt.Errorf("states[%d] (%s): %w", i, fs.Code, err)
		}
		states = append(states, s)
	}
	return New(f.Version, years, states), nil
}

func (fy FileYear) build(base *Tables) (YearTable, error) {
	if fy.Year == 0 {
		return YearTable{}, fmt.Errorf("year is required")
	}
	yt := YearTable{
		Year:              fy.Year,
		Ordinary:          map[domain.FilingStatus][]Bracket{},
		CapitalGains:      map[domain.FilingStatus][]Bracket{},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{},
		IRMAA:             map[domain.FilingStatus][]IRMAATier{},
		SocialSecurity:    socialSecurityThresholds(),
	}
	if fy.Base != 0 {
		src, ok := base.years[fy.Base]
		if !ok {
			return YearTable{}, fmt.Errorf("base year %d not found", fy.Base)
		}
		yt = src.copyAs(fy.Year)
		if !fy.IndexRate.IsZero() {
			yt = yt.indexed(decimal.NewFromInt(1).Add(fy.IndexRate))
		}
	}
	yt.Provisional = fy.Provisional

	for status, rows := range fy.Ordinary {
		fs, err := parseStatus(status)
		if err != nil {
			return YearTable{}, err
		}
		if yt.Ordinary[fs], err = buildBrackets(rows); err != nil {
			return YearTable{}, fmt.Errorf("ordinary %s: %w", status, err)
		}
	}
	for status, rows := range fy.CapitalGains {
		fs, err := parseStatus(status)
		if err != nil {
			return YearTable{}, err
		}
		if yt.CapitalGains[fs], err = buildBrackets(rows); err != nil {
			return YearTable{}, fmt.Errorf("capital gains %s: %w", status, err)
		}
	}
	for status, amount := range fy.StandardDeduction {
		fs, err := parseStatus(status)
		if err != nil {
			return YearTable{}, err
		}
		yt.StandardDeduction[fs] = amount
	}
	for status, rows := range fy.IRMAA {
		fs, err := parseStatus(status)
		if err != nil {
			return YearTable{}, err
		}
		tiers := make([]IRMAATier, len(rows))
		for i, r := range rows {
			tiers[i] = IRMAATier{Threshold: r.Threshold, PartB: r.PartB, PartD: r.PartD}
		}
		yt.IRMAA[fs] = tiers
	}
	if fy.AdditionalUnmarried != nil {
		yt.AdditionalUnmarried = *fy.AdditionalUnmarried
	}
	if fy.AdditionalMarried != nil {
		yt.AdditionalMarried = *fy.AdditionalMarried
	}
	if fy.QCDLimit != nil {
		yt.QCDLimit = *fy.QCDLimit
	}

	for _, status := range domain.FilingStatuses {
		if len(yt.Ordinary[status]) == 0 {
			return YearTable{}, fmt.Errorf("missing ordinary brackets for %s", status)
		}
		if len(yt.CapitalGains[status]) == 0 {
			return YearTable{}, fmt.Errorf("missing capital gains brackets for %s", status)
		}
	}
	return yt, nil
}

func (fs FileState) build() (StateSchedule, error) {
	code := strings.ToUpper(strings.TrimSpace(fs.Code))
	if code == "" {
		return StateSchedule{}, fmt.Errorf("state code is required")
	}
	s := StateSchedule{Code: code, Name: fs.Name, Kind: fs.Kind, Rate: fs.Rate, ExemptsRetirementIncome: fs.ExemptsRetirementIncome}
	switch fs.Kind {
	case StateNone:
	case StateFlat:
		if fs.Rate.IsNegative() || fs.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return StateSchedule{}, fmt.Errorf("flat rate %s out of range", fs.Rate)
		}
	case StateGraduated:
		s.Brackets = map[domain.FilingStatus][]Bracket{}
		for status, rows := range fs.Brackets {
			st, err := parseStatus(status)
			if err != nil {
				return StateSchedule{}, err
			}
			if s.Brackets[st], err = buildBrackets(rows); err != nil {
				return StateSchedule{}, fmt.Errorf("brackets %s: %w", status, err)
			}
		}
		if _, ok := s.Brackets[domain.FilingSingle]; !ok {
			return StateSchedule{}, fmt.Errorf("graduated state needs a single schedule")
		}
	default:
		return StateSchedule{}, fmt.Errorf("unknown state kind %q", fs.Kind)
	}
	return s, nil
}

func buildBrackets(rows []FileBracket) ([]Bracket, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no brackets")
	}
	out := make([]Bracket, len(rows))
	lower := decimal.Zero
	for i, r := range rows {
		upper := Unbounded
		if r.UpTo != nil {
			upper = *r.UpTo
		} else if i != len(rows)-1 {
			return nil, fmt.Errorf("only the last bracket may omit up_to")
		}
		if upper.LessThanOrEqual(lower) {
			return nil, fmt.Errorf("bracket %d upper edge %s is not above %s", i, upper, lower)
		}
		out[i] = Bracket{Min: lower, Max: upper, Rate: r.Rate}
		lower = upper
	}
	if !out[len(out)-1].IsTop() {
		return nil, fmt.Errorf("last bracket must be open-ended")
	}
	return out, nil
}

func parseStatus(s string) (domain.FilingStatus, error) {
	fs := domain.FilingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !fs.IsValid() {
		return "", fmt.Errorf("unknown filing status %q", s)
	}
	return fs, nil
}

// copyAs duplicates a table under a new year so overrides never touch the source maps
func (yt YearTable) copyAs(year int) YearTable {
	out := yt
	out.Year = year
	out.Ordinary = map[domain.FilingStatus][]Bracket{}
	for k, v := range yt.Ordinary {
		out.Ordinary[k] = append([]Bracket(nil), v...)
	}
	out.CapitalGains = map[domain.FilingStatus][]Bracket{}
	for k, v := range yt.CapitalGains {
		out.CapitalGains[k] = append([]Bracket(nil), v...)
	}
	out.StandardDeduction = map[domain.FilingStatus]decimal.Decimal{}
	for k, v := range yt.StandardDeduction {
		out.StandardDeduction[k] = v
	}
	out.IRMAA = map[domain.FilingStatus][]IRMAATier{}
	for k, v := range yt.IRMAA {
		out.IRMAA[k] = append([]IRMAATier(nil), v...)
	}
	out.SocialSecurity = map[domain.FilingStatus]SSThresholds{}
	for k, v := range yt.SocialSecurity {
		out.SocialSecurity[k] = v
	}
	return out
}

// indexed inflates dollar thresholds by factor, rounding edges to the nearest $50.
// Social Security bases are statutory and never indexed.
func (yt YearTable) indexed(factor decimal.Decimal) YearTable {
	step := decimal.NewFromInt(50)
	round := func(v decimal.Decimal) decimal.Decimal {
		return v.Mul(factor).Div(step).Round(0).Mul(step)
	}
	scale := func(brackets []Bracket) []Bracket {
		out := make([]Bracket, len(brackets))
		for i, b := range brackets {
			out[i] = b
			out[i].Min = round(b.Min)
			if !b.IsTop() {
				out[i].Max = round(b.Max)
			}
		}
		return out
	}
	for k, v := range yt.Ordinary {
		yt.Ordinary[k] = scale(v)
	}
	for k, v := range yt.CapitalGains {
		yt.CapitalGains[k] = scale(v)
	}
	for k, v := range yt.StandardDeduction {
		yt.StandardDeduction[k] = round(v)
	}
	for k, tiers := range yt.IRMAA {
		for i := range tiers {
			tiers[i].Threshold = round(tiers[i].Threshold)
		}
		yt.IRMAA[k] = tiers
	}
	yt.AdditionalUnmarried = round(yt.AdditionalUnmarried)
	yt.AdditionalMarried = round(yt.AdditionalMarried)
	yt.QCDLimit = round(yt.QCDLimit)
	if yt.ACA != nil {
		aca := *yt.ACA
		aca.PovertyBase = round(aca.PovertyBase)
		aca.PovertyPerPerson = round(aca.PovertyPerPerson)
		yt.ACA = &aca
	}
	return yt
}
