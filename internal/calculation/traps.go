package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// DefaultOpportunityWindow is how far above a threshold MAGI may sit before a
// charitable opportunity is no longer suggested
var DefaultOpportunityWindow = decimal.NewFromInt(10000)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// TrapProfile is the income picture the detector inspects for one year.
// The Comparison fields describe the same year without the conversion; when nil,
// crossing-based traps are judged on absolute position only.
type TrapProfile struct {
	Year                   int
	FilingStatus           domain.FilingStatus
	AGI                    decimal.Decimal
	MAGI                   decimal.Decimal
	TaxableIncome          decimal.Decimal
	OrdinaryTaxableIncome  decimal.Decimal
	CapitalGains           decimal.Decimal
	SocialSecurityBenefits decimal.Decimal
	// ProvisionalBase is income other than benefits that counts toward provisional income
	ProvisionalBase     decimal.Decimal
	MarginalRate        decimal.Decimal
	MedicareEnrollees   int
	ACAEnrolled         bool
	HouseholdSize       int
	ACABenchmarkPremium decimal.Decimal
	QCDEligible         bool
	OpportunityWindow   decimal.Decimal

	ComparisonMAGI            *decimal.Decimal
	ComparisonOrdinaryTaxable *decimal.Decimal
	ComparisonProvisionalBase *decimal.Decimal
}

// TrapResult holds the year's warnings and the per-type annualized cost
type TrapResult struct {
	Warnings []domain.TrapWarning
	Impacts  map[domain.TrapType]decimal.Decimal
}

// Impact returns the cost recorded for a trap type, zero when absent
func (r TrapResult) Impact(t domain.TrapType) decimal.Decimal {
	if v, ok := r.Impacts[t]; ok {
		return v
	}
	return decimal.Zero
}

// Has reports whether a warning of the given type was raised
func (r TrapResult) Has(t domain.TrapType) bool {
	for _, w := range r.Warnings {
		if w.Type == t {
			return true
		}
	}
	return false
}

// TrapDetector evaluates the tax cliffs for a year. Evaluator failures are
// logged and skipped so one missing table never aborts a simulation.
type TrapDetector struct {
	Tables *taxdata.Tables
	Logger Logger
}

func NewTrapDetector(tables *taxdata.Tables, logger Logger) *TrapDetector {
	if tables == nil {
		tables = taxdata.Default()
	}
	return &TrapDetector{Tables: tables, Logger: loggerOrNop(logger)}
}

// finding is an evaluator's output. gap and savings feed charitable opportunities.
type finding struct {
	warning *domain.TrapWarning
	gap     decimal.Decimal
	savings decimal.Decimal
	label   string
}

type evaluator struct {
	trap domain.TrapType
	fn   func(taxdata.YearTable, TrapProfile) (finding, error)
}

// DetectTraps runs every evaluator and derives charitable opportunities
func (d *TrapDetector) DetectTraps(p TrapProfile) TrapResult {
	log := loggerOrNop(d.Logger)
	result := TrapResult{Impacts: map[domain.TrapType]decimal.Decimal{}}

	yt, _, err := d.Tables.ForYear(p.Year)
	if err != nil {
		log.Warnf("trap detection skipped for %d: %v", p.Year, err)
		return result
	}

	evaluators := []evaluator{
		{domain.TrapIRMAA, d.evaluateIRMAA},
		{domain.TrapACA, d.evaluateACA},
		{domain.TrapSocialSecurity, d.evaluateSocialSecurity},
		{domain.TrapCapitalGains, d.evaluateCapitalGains},
	}

	var opportunities []domain.TrapWarning
	window := p.OpportunityWindow
	if !window.IsPositive() {
		window = DefaultOpportunityWindow
	}

	for _, ev := range evaluators {
		f, err := ev.fn(yt, p)
		if err != nil {
			log.Warnf("%s check failed for %d: %v", ev.trap, p.Year, err)
			continue
		}
		if f.warning == nil {
			continue
		}
		result.Warnings = append(result.Warnings, *f.warning)
		result.Impacts[ev.trap] = result.Impact(ev.trap).Add(f.warning.FinancialImpact)

		if p.QCDEligible && f.gap.IsPositive() && f.gap.LessThanOrEqual(window) && f.savings.IsPositive() {
			opportunities = append(opportunities, domain.TrapWarning{
				Type:     domain.TrapCharitableOpportunity,
				Severity: domain.SeverityLow,
				Description: fmt.Sprintf("a $%s qualified charitable distribution would bring MAGI back under the %s and save about $%s",
					f.gap.StringFixed(0), f.label, f.savings.StringFixed(0)),
				FinancialImpact:      f.savings,
				RequiredContribution: f.gap,
			})
		}
	}

	result.Warnings = append(result.Warnings, opportunities...)
	return result
}

func (d *TrapDetector) evaluateIRMAA(yt taxdata.YearTable, p TrapProfile) (finding, error) {
	if p.MedicareEnrollees <= 0 {
		return finding{}, nil
	}
	tiers := yt.IRMAATiers(p.FilingStatus)
	if len(tiers) == 0 {
		return finding{}, fmt.Errorf("no IRMAA tiers for %s in %d", p.FilingStatus, yt.Year)
	}

	tier := -1
	for i, t := range tiers {
		if p.MAGI.GreaterThan(t.Threshold) {
			tier = i
		}
	}
	if tier < 0 {
		return finding{}, nil
	}

	enrollees := decimal.NewFromInt(int64(p.MedicareEnrollees))
	annual := func(i int) decimal.Decimal {
		if i < 0 {
			return decimal.Zero
		}
		return tiers[i].MonthlySurcharge().Mul(twelve).Mul(enrollees)
	}
	cost := annual(tier)

	severity := domain.SeverityLow
	switch {
	case tier >= 3:
		severity = domain.SeverityHigh
	case tier >= 1:
		severity = domain.SeverityMedium
	}

	threshold := tiers[tier].Threshold
	return finding{
		warning: &domain.TrapWarning{
			Type:     domain.TrapIRMAA,
			Severity: severity,
			Description: fmt.Sprintf("MAGI $%s exceeds IRMAA tier %d threshold $%s; Medicare premiums rise $%s a year (billed two years later)",
				p.MAGI.StringFixed(0), tier+1, threshold.StringFixed(0), cost.StringFixed(0)),
			FinancialImpact: cost,
		},
		gap:     p.MAGI.Sub(threshold),
		savings: cost.Sub(annual(tier - 1)),
		label:   fmt.Sprintf("IRMAA tier %d threshold of $%s", tier+1, threshold.StringFixed(0)),
	}, nil
}

func (d *TrapDetector) evaluateACA(yt taxdata.YearTable, p TrapProfile) (finding, error) {
	if !p.ACAEnrolled {
		return finding{}, nil
	}
	if yt.ACA == nil {
		return finding{}, fmt.Errorf("no ACA parameters for %d", yt.Year)
	}
	if !p.ACABenchmarkPremium.IsPositive() {
		return finding{}, fmt.Errorf("ACA enrollment requires a benchmark premium")
	}
	params := *yt.ACA
	poverty := params.PovertyLine(p.HouseholdSize)

	current := acaPosition(params, poverty, p.MAGI)
	subsidy := acaSubsidy(params, p.ACABenchmarkPremium, current, p.MAGI)

	if p.ComparisonMAGI == nil {
		if !params.Cliff || current.band != bandOverCliff {
			return finding{}, nil
		}
		cliffMAGI := poverty.Mul(params.CliffPct).Div(hundred)
		lost := acaSubsidy(params, p.ACABenchmarkPremium, acaPosition(params, poverty, cliffMAGI), cliffMAGI)
		if !lost.IsPositive() {
			return finding{}, nil
		}
		return finding{
			warning: &domain.TrapWarning{
				Type:     domain.TrapACA,
				Severity: domain.SeverityHigh,
				Description: fmt.Sprintf("MAGI $%s is above the ACA subsidy cliff at %s%% of poverty ($%s); premium tax credit of about $%s is lost",
					p.MAGI.StringFixed(0), params.CliffPct.String(), cliffMAGI.StringFixed(0), lost.StringFixed(0)),
				FinancialImpact: lost,
			},
			gap:     p.MAGI.Sub(cliffMAGI),
			savings: lost,
			label:   "ACA subsidy cliff",
		}, nil
	}

	before := acaPosition(params, poverty, *p.ComparisonMAGI)
	loss := acaSubsidy(params, p.ACABenchmarkPremium, before, *p.ComparisonMAGI).Sub(subsidy)
	if !loss.IsPositive() || before.band == current.band {
		return finding{}, nil
	}

	severity := domain.SeverityMedium
	desc := fmt.Sprintf("MAGI moves from %s%% to %s%% of poverty; ACA premium tax credit falls by $%s",
		before.pct.StringFixed(0), current.pct.StringFixed(0), loss.StringFixed(0))
	f := finding{}
	if current.band == bandOverCliff {
		severity = domain.SeverityHigh
		cliffMAGI := poverty.Mul(params.CliffPct).Div(hundred)
		desc = fmt.Sprintf("MAGI $%s crosses the ACA subsidy cliff ($%s); premium tax credit falls by $%s",
			p.MAGI.StringFixed(0), cliffMAGI.StringFixed(0), loss.StringFixed(0))
		f.gap = p.MAGI.Sub(cliffMAGI)
		f.savings = loss
		f.label = "ACA subsidy cliff"
	}
	f.warning = &domain.TrapWarning{
		Type:            domain.TrapACA,
		Severity:        severity,
		Description:     desc,
		FinancialImpact: loss,
	}
	return f, nil
}

const bandOverCliff = -1

type acaPoint struct {
	pct  decimal.Decimal
	band int
	rate decimal.Decimal
}

// acaPosition locates MAGI on the applicable-percentage schedule
func acaPosition(params taxdata.ACAParams, poverty, magi decimal.Decimal) acaPoint {
	pct := decimal.Zero
	if poverty.IsPositive() {
		pct = magi.Div(poverty).Mul(hundred)
	}
	if params.Cliff && pct.GreaterThan(params.CliffPct) {
		return acaPoint{pct: pct, band: bandOverCliff}
	}
	for i, b := range params.Bands {
		if pct.GreaterThan(b.ToPct) {
			continue
		}
		rate := b.StartRate
		if width := b.ToPct.Sub(b.FromPct); pct.GreaterThan(b.FromPct) && width.IsPositive() {
			frac := pct.Sub(b.FromPct).Div(width)
			rate = b.StartRate.Add(b.EndRate.Sub(b.StartRate).Mul(frac))
		}
		return acaPoint{pct: pct, band: i, rate: rate}
	}
	return acaPoint{pct: pct, band: len(params.Bands), rate: params.AboveCliffRate}
}

func acaSubsidy(params taxdata.ACAParams, benchmark decimal.Decimal, pt acaPoint, magi decimal.Decimal) decimal.Decimal {
	if pt.band == bandOverCliff {
		return decimal.Zero
	}
	return nonNegative(benchmark.Sub(pt.rate.Mul(magi))).Round(2)
}

func (d *TrapDetector) evaluateSocialSecurity(yt taxdata.YearTable, p TrapProfile) (finding, error) {
	if !p.SocialSecurityBenefits.IsPositive() {
		return finding{}, nil
	}
	th := yt.SSThresholdsFor(p.FilingStatus)
	taxable := TaxableSocialSecurity(p.SocialSecurityBenefits, p.ProvisionalBase, decimal.Zero, th)
	if !taxable.IsPositive() {
		return finding{}, nil
	}

	exposed := taxable
	if p.ComparisonProvisionalBase != nil {
		exposed = taxable.Sub(TaxableSocialSecurity(p.SocialSecurityBenefits, *p.ComparisonProvisionalBase, decimal.Zero, th))
		if !exposed.IsPositive() {
			return finding{}, nil
		}
	}

	pi := ProvisionalIncome(p.SocialSecurityBenefits, p.ProvisionalBase, decimal.Zero)
	severity := domain.SeverityLow
	tierPct := "50"
	base := th.Base1
	if pi.GreaterThan(th.Base2) {
		severity = domain.SeverityMedium
		tierPct = "85"
		base = th.Base2
	}
	cost := exposed.Mul(p.MarginalRate).Round(2)
	return finding{
		warning: &domain.TrapWarning{
			Type:     domain.TrapSocialSecurity,
			Severity: severity,
			Description: fmt.Sprintf("provisional income $%s is above the $%s base; up to %s%% of benefits taxable ($%s of $%s)",
				pi.StringFixed(0), base.StringFixed(0), tierPct, taxable.StringFixed(0), p.SocialSecurityBenefits.StringFixed(0)),
			FinancialImpact: cost,
		},
	}, nil
}

func (d *TrapDetector) evaluateCapitalGains(yt taxdata.YearTable, p TrapProfile) (finding, error) {
	if !p.CapitalGains.IsPositive() || p.ComparisonOrdinaryTaxable == nil {
		return finding{}, nil
	}
	brackets := yt.CapitalGainsBrackets(p.FilingStatus)
	if len(brackets) == 0 {
		return finding{}, fmt.Errorf("no capital gains brackets for %s in %d", p.FilingStatus, yt.Year)
	}

	before, beforeLines := walkBrackets(brackets, *p.ComparisonOrdinaryTaxable, p.CapitalGains, domain.IncomeCapitalGains)
	after, afterLines := walkBrackets(brackets, p.OrdinaryTaxableIncome, p.CapitalGains, domain.IncomeCapitalGains)
	cost := after.Sub(before)
	if !cost.IsPositive() {
		return finding{}, nil
	}

	severity := domain.SeverityLow
	zeroBefore, zeroAfter := zeroRateIncome(beforeLines), zeroRateIncome(afterLines)
	if zeroAfter.LessThan(zeroBefore) {
		severity = domain.SeverityMedium
	}
	return finding{
		warning: &domain.TrapWarning{
			Type:     domain.TrapCapitalGains,
			Severity: severity,
			Description: fmt.Sprintf("added ordinary income pushes capital gains into higher brackets; $%s of gains left the 0%% bracket, adding $%s of tax",
				zeroBefore.Sub(zeroAfter).StringFixed(0), cost.StringFixed(0)),
			FinancialImpact: cost,
		},
	}, nil
}

func zeroRateIncome(lines []domain.BracketLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Rate.IsZero() {
			total = total.Add(l.Income)
		}
	}
	return total
}
