package taxdata

import (
	"errors"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoTables is returned when a dataset holds no tax years at all
	ErrNoTables = errors.New("no tax tables loaded")
	// ErrUnknownState is returned for a state code missing from the dataset
	ErrUnknownState = errors.New("unknown state code")
)

// Unbounded is the upper edge of every top bracket
var Unbounded = decimal.NewFromInt(1_000_000_000_000)

// Bracket is a half-open income range [Min, Max) taxed at Rate
type Bracket struct {
	Min  decimal.Decimal `json:"min"`
	Max  decimal.Decimal `json:"max"`
	Rate decimal.Decimal `json:"rate"`
}

// IsTop reports whether the bracket has no upper edge
func (b Bracket) IsTop() bool {
	return b.Max.GreaterThanOrEqual(Unbounded)
}

// IRMAATier is one Medicare surcharge tier. It applies when MAGI exceeds Threshold.
type IRMAATier struct {
	Threshold decimal.Decimal `json:"threshold"`
	PartB     decimal.Decimal `json:"partB"`
	PartD     decimal.Decimal `json:"partD"`
}

// MonthlySurcharge is the combined Part B and Part D surcharge per enrollee
func (t IRMAATier) MonthlySurcharge() decimal.Decimal {
	return t.PartB.Add(t.PartD)
}

// ACABand maps a federal-poverty-line range to an applicable percentage that
// rises linearly from StartRate to EndRate across the band.
type ACABand struct {
	FromPct   decimal.Decimal `json:"fromPct"`
	ToPct     decimal.Decimal `json:"toPct"`
	StartRate decimal.Decimal `json:"startRate"`
	EndRate   decimal.Decimal `json:"endRate"`
}

// ACAParams are the premium tax credit parameters for a coverage year
type ACAParams struct {
	PovertyBase      decimal.Decimal `json:"povertyBase"`
	PovertyPerPerson decimal.Decimal `json:"povertyPerPerson"`
	Bands            []ACABand       `json:"bands"`
	// Cliff ends all assistance above CliffPct of the poverty line
	Cliff    bool            `json:"cliff"`
	CliffPct decimal.Decimal `json:"cliffPct"`
	// AboveCliffRate caps the contribution when there is no cliff
	AboveCliffRate decimal.Decimal `json:"aboveCliffRate"`
}

// PovertyLine returns the poverty guideline for a household size
func (p ACAParams) PovertyLine(householdSize int) decimal.Decimal {
	if householdSize < 1 {
		householdSize = 1
	}
	return p.PovertyBase.Add(p.PovertyPerPerson.Mul(decimal.NewFromInt(int64(householdSize - 1))))
}

// SSThresholds are the provisional-income bases for benefit taxation
type SSThresholds struct {
	Base1 decimal.Decimal `json:"base1"`
	Base2 decimal.Decimal `json:"base2"`
}

// YearTable holds every federal figure the engine needs for one tax year
type YearTable struct {
	Year        int  `json:"year"`
	Provisional bool `json:"provisional"`

	Ordinary            map[domain.FilingStatus][]Bracket       `json:"ordinary"`
	CapitalGains        map[domain.FilingStatus][]Bracket       `json:"capitalGains"`
	StandardDeduction   map[domain.FilingStatus]decimal.Decimal `json:"standardDeduction"`
	// AdditionalUnmarried and AdditionalMarried are the per-person 65+ amounts
	AdditionalUnmarried decimal.Decimal                         `json:"additionalUnmarried"`
	AdditionalMarried   decimal.Decimal                         `json:"additionalMarried"`
	IRMAA               map[domain.FilingStatus][]IRMAATier     `json:"irmaa"`
	IRMAABasePartB      decimal.Decimal                         `json:"irmaaBasePartB"`
	ACA                 *ACAParams                              `json:"aca,omitempty"`
	SocialSecurity      map[domain.FilingStatus]SSThresholds    `json:"socialSecurity"`
	QCDLimit            decimal.Decimal                         `json:"qcdLimit"`
}

// StateKind is the shape of a state income tax
type StateKind string

const (
	StateNone      StateKind = "none"
	StateFlat      StateKind = "flat"
	StateGraduated StateKind = "graduated"
)

// StateSchedule describes one state's income tax
type StateSchedule struct {
	Code     string                            `json:"code"`
	Name     string                            `json:"name"`
	Kind     StateKind                         `json:"kind"`
	Rate     decimal.Decimal                   `json:"rate"`
	Brackets map[domain.FilingStatus][]Bracket `json:"brackets,omitempty"`
	// ExemptsRetirementIncome removes IRA distributions, conversions and Social Security from the base
	ExemptsRetirementIncome bool `json:"exemptsRetirementIncome"`
}

// FederalOnly is the pseudo-state code for "no state tax modelled"
const FederalOnly = "FED"
