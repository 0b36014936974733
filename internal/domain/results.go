package domain

import (
	"github.com/shopspring/decimal"
)

// IncomeKind tags a bracket breakdown line
type IncomeKind string

const (
	IncomeOrdinary     IncomeKind = "ordinary"
	IncomeCapitalGains IncomeKind = "capital_gains"
)

// BracketLine is the income and tax attributed to one bracket
type BracketLine struct {
	Kind   IncomeKind      `json:"kind"`
	Rate   decimal.Decimal `json:"rate"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Income decimal.Decimal `json:"income"`
	Tax    decimal.Decimal `json:"tax"`
}

// TaxLiabilityResult is the output of one federal liability computation
type TaxLiabilityResult struct {
	TaxYear                 int             `json:"taxYear"`
	TableYear               int             `json:"tableYear"`
	Deduction               decimal.Decimal `json:"deduction"`
	Itemized                bool            `json:"itemized"`
	TaxableIncome           decimal.Decimal `json:"taxableIncome"`
	OrdinaryTaxableIncome   decimal.Decimal `json:"ordinaryTaxableIncome"`
	CapitalGainsTaxable     decimal.Decimal `json:"capitalGainsTaxable"`
	TotalTax                decimal.Decimal `json:"totalTax"`
	OrdinaryTax             decimal.Decimal `json:"ordinaryTax"`
	CapitalGainsTax         decimal.Decimal `json:"capitalGainsTax"`
	MarginalOrdinaryRate    decimal.Decimal `json:"marginalOrdinaryRate"`
	MarginalCapitalGainRate decimal.Decimal `json:"marginalCapitalGainRate"`
	EffectiveRate           decimal.Decimal `json:"effectiveRate"`
	Breakdown               []BracketLine   `json:"breakdown"`
	DataNotes               []string        `json:"dataNotes,omitempty"`
}

// DeductionElection tells the liability calculator which deduction to use
type DeductionElection struct {
	Itemize        bool            `json:"itemize"`
	ItemizedAmount decimal.Decimal `json:"itemizedAmount"`
	// SeniorCount is the number of filers aged 65+ for the additional standard deduction
	SeniorCount int `json:"seniorCount"`
}

// TrapType identifies a tax cliff
type TrapType string

const (
	TrapIRMAA                 TrapType = "irmaa"
	TrapACA                   TrapType = "aca"
	TrapSocialSecurity        TrapType = "social_security"
	TrapCapitalGains          TrapType = "capital_gains"
	TrapCharitableOpportunity TrapType = "charitable_opportunity"
)

// TrapTypes lists detected trap types in evaluation order
var TrapTypes = []TrapType{TrapIRMAA, TrapACA, TrapSocialSecurity, TrapCapitalGains}

// Severity grades a warning
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// TrapWarning is one advisory raised for a year.
// FinancialImpact is an annualized cost, or a savings for charitable opportunities.
type TrapWarning struct {
	Type            TrapType        `json:"type"`
	Severity        Severity        `json:"severity"`
	Description     string          `json:"description"`
	FinancialImpact decimal.Decimal `json:"financialImpact"`
	// RequiredContribution is set on charitable opportunities
	RequiredContribution decimal.Decimal `json:"requiredContribution,omitempty"`
}

// AvoidedTrap is a cost removed by a charitable action
type AvoidedTrap struct {
	Type    TrapType        `json:"type"`
	Savings decimal.Decimal `json:"savings"`
}

// CharitableOutcome values the year's charitable contribution
type CharitableOutcome struct {
	Amount               decimal.Decimal `json:"amount"`
	UsedQCD              bool            `json:"usedQcd"`
	QCDAmount            decimal.Decimal `json:"qcdAmount"`
	RMDOffset            decimal.Decimal `json:"rmdOffset"`
	Bunched              bool            `json:"bunched"`
	ItemizedBeatStandard bool            `json:"itemizedBeatStandard"`
	DeductibleAmount     decimal.Decimal `json:"deductibleAmount"`
	TaxSavings           decimal.Decimal `json:"taxSavings"`
	AvoidedTraps         []AvoidedTrap   `json:"avoidedTraps,omitempty"`
}

// StateTaxResult is the state component of a year
type StateTaxResult struct {
	StateCode         string          `json:"stateCode"`
	Relocated         bool            `json:"relocated"`
	WithConversion    decimal.Decimal `json:"withConversion"`
	WithoutConversion decimal.Decimal `json:"withoutConversion"`
}

// MFSComparison contrasts joint filing with two separate returns
type MFSComparison struct {
	JointTax            decimal.Decimal `json:"jointTax"`
	PrimarySeparateTax  decimal.Decimal `json:"primarySeparateTax"`
	SpouseSeparateTax   decimal.Decimal `json:"spouseSeparateTax"`
	CombinedSeparateTax decimal.Decimal `json:"combinedSeparateTax"`
	// Difference is combined separate tax minus joint tax
	Difference decimal.Decimal `json:"difference"`
}

// IncomeBreakdown records the income components used for the year's returns
type IncomeBreakdown struct {
	Wages                  decimal.Decimal `json:"wages"`
	SpouseWages            decimal.Decimal `json:"spouseWages"`
	SocialSecurity         decimal.Decimal `json:"socialSecurity"`
	TaxableSocialSecurity  decimal.Decimal `json:"taxableSocialSecurity"`
	CapitalGains           decimal.Decimal `json:"capitalGains"`
	TaxableRMD             decimal.Decimal `json:"taxableRmd"`
	OrdinaryIncome         decimal.Decimal `json:"ordinaryIncome"`
	PreConversionTaxable   decimal.Decimal `json:"preConversionTaxable"`
	AGI                    decimal.Decimal `json:"agi"`
	MAGI                   decimal.Decimal `json:"magi"`
	BaselineMAGI           decimal.Decimal `json:"baselineMagi"`
	CharitableContribution decimal.Decimal `json:"charitableContribution"`
}

// YearlyResult is one row of the simulation ledger
type YearlyResult struct {
	Year      int `json:"year"`
	Age       int `json:"age"`
	SpouseAge int `json:"spouseAge,omitempty"`

	Income           IncomeBreakdown `json:"income"`
	Balances         AccountBalances `json:"balances"`
	BaselineBalances AccountBalances `json:"baselineBalances"`

	Conversion       decimal.Decimal `json:"conversion"`
	SpouseConversion decimal.Decimal `json:"spouseConversion"`
	RMD              decimal.Decimal `json:"rmd"`
	SpouseRMD        decimal.Decimal `json:"spouseRmd"`

	TaxWithConversion    TaxLiabilityResult `json:"taxWithConversion"`
	TaxWithoutConversion TaxLiabilityResult `json:"taxWithoutConversion"`
	StateTax             *StateTaxResult    `json:"stateTax,omitempty"`
	ConversionTaxCost    decimal.Decimal    `json:"conversionTaxCost"`

	CumulativeTaxPaid decimal.Decimal `json:"cumulativeTaxPaid"`
	// CumulativeTaxSaved is the net advantage over the no-conversion baseline
	CumulativeTaxSaved decimal.Decimal `json:"cumulativeTaxSaved"`
	NetWorth           decimal.Decimal `json:"netWorth"`
	BaselineNetWorth   decimal.Decimal `json:"baselineNetWorth"`
	BreakEvenYear      bool            `json:"breakEvenYear"`

	Charitable    *CharitableOutcome `json:"charitable,omitempty"`
	Warnings      []TrapWarning      `json:"warnings"`
	MFSComparison *MFSComparison     `json:"mfsComparison,omitempty"`
	DataWarnings  []string           `json:"dataWarnings,omitempty"`
}

// TotalConversion returns the household conversion for the year
func (yr YearlyResult) TotalConversion() decimal.Decimal {
	return yr.Conversion.Add(yr.SpouseConversion)
}

// TotalTax returns federal plus state tax with the conversion applied
func (yr YearlyResult) TotalTax() decimal.Decimal {
	total := yr.TaxWithConversion.TotalTax
	if yr.StateTax != nil {
		total = total.Add(yr.StateTax.WithConversion)
	}
	return total
}

// TrapCost sums the annualized cost of the year's warnings, excluding opportunities
func (yr YearlyResult) TrapCost() decimal.Decimal {
	total := decimal.Zero
	for _, w := range yr.Warnings {
		if w.Type == TrapCharitableOpportunity {
			continue
		}
		total = total.Add(w.FinancialImpact)
	}
	return total
}
