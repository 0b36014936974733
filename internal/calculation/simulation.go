package calculation

import (
	"github.com/rgehrsitz/rothplan/internal/conversion"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

const medicareAge = 65

var one = decimal.NewFromInt(1)

// track is one balance projection: the conversion plan or the no-conversion baseline.
// reinvested holds after-tax RMD proceeds.
type track struct {
	balances   domain.AccountBalances
	reinvested decimal.Decimal
}

func (t track) netWorth(keep decimal.Decimal) decimal.Decimal {
	return t.balances.TotalTraditional().Mul(keep).
		Add(t.balances.TotalRoth()).
		Add(t.reinvested).
		Round(2)
}

// simulation carries the state threaded from one year to the next
type simulation struct {
	e   *Engine
	cfg domain.ScenarioConfig
	log Logger

	growth decimal.Decimal
	keep   decimal.Decimal

	rmdPrimary *RMDCalculator
	rmdSpouse  *RMDCalculator

	conv track
	base track

	cumulativePaid decimal.Decimal
	converted      decimal.Decimal
	breakEvenSeen  bool
}

func newSimulation(e *Engine, cfg domain.ScenarioConfig, log Logger) *simulation {
	return &simulation{
		e:              e,
		cfg:            cfg,
		log:            log,
		growth:         one.Add(cfg.ExpectedReturn),
		keep:           one.Sub(cfg.FutureTaxRate),
		rmdPrimary:     NewRMDCalculator(cfg.RMDStartAge),
		rmdSpouse:      NewRMDCalculator(cfg.SpouseRMDStartAge),
		conv:           track{balances: cfg.Balances, reinvested: decimal.Zero},
		base:           track{balances: cfg.Balances, reinvested: decimal.Zero},
		cumulativePaid: decimal.Zero,
		converted:      decimal.Zero,
	}
}

func (s *simulation) grow(v decimal.Decimal) decimal.Decimal {
	return nonNegative(v).Mul(s.growth).Round(2)
}

func (s *simulation) step(i int) (domain.YearlyResult, error) {
	cfg := s.cfg
	year := cfg.StartYear + i
	age := cfg.StartAge + i
	spouseAge := 0
	if cfg.HasSpouse() {
		spouseAge = cfg.SpouseStartAge + i
	}
	status := cfg.FilingStatus

	yt, note, err := s.e.Tables.ForYear(year)
	if err != nil {
		return domain.YearlyResult{}, err
	}
	var dataNotes []string
	if note != "" {
		s.log.Warnf("year %d: %s", year, note)
		dataNotes = append(dataNotes, note)
	}

	// income
	incomeGrowth := one.Add(cfg.IncomeGrowthRate).Pow(decimal.NewFromInt(int64(i)))
	wages := nonNegative(cfg.BaseIncome.Mul(incomeGrowth).Round(2))
	spouseWages := nonNegative(cfg.SpouseBaseIncome.Mul(incomeGrowth).Round(2))
	ssPrimary := benefitFor(cfg.SocialSecurity.AnnualBenefit, cfg.SocialSecurity.ClaimAge, age, i, cfg.SocialSecurity.COLA)
	ssSpouse := decimal.Zero
	if cfg.HasSpouse() {
		ssSpouse = benefitFor(cfg.SocialSecurity.SpouseAnnualBenefit, cfg.SocialSecurity.SpouseClaimAge, spouseAge, i, cfg.SocialSecurity.COLA)
	}
	ss := ssPrimary.Add(ssSpouse)
	gains := cfg.CapitalGains
	exempt := cfg.TaxExemptInterest

	// RMDs on start-of-year balances
	rmd := s.rmdPrimary.ComputeRMD(s.conv.balances.Traditional, age)
	spouseRMD := decimal.Zero
	baseSpouseRMD := decimal.Zero
	if cfg.HasSpouse() {
		spouseRMD = s.rmdSpouse.ComputeRMD(s.conv.balances.SpouseTraditional, spouseAge)
		baseSpouseRMD = s.rmdSpouse.ComputeRMD(s.base.balances.SpouseTraditional, spouseAge)
	}
	baseRMD := s.rmdPrimary.ComputeRMD(s.base.balances.Traditional, age)

	// charitable gift, QCD first
	gift, bunched := GiftForYear(cfg.Charitable, year, i)
	qcdAllowed := cfg.Charitable.UseQCD && age >= QCDMinAge
	seniors := seniorCount(age, spouseAge)
	standard, _ := Deduction(yt, status, domain.DeductionElection{SeniorCount: seniors})
	agiBeforeGift := wages.Add(spouseWages).Add(rmd).Add(spouseRMD).Add(gains)
	split := SplitContribution(gift, qcdAllowed, yt.QCDLimit, s.conv.balances.Traditional, rmd,
		agiBeforeGift, cfg.ItemizedDeductions, standard)

	primaryTaxableRMD := nonNegative(rmd.Sub(split.QCD))
	taxableRMD := primaryTaxableRMD.Add(spouseRMD)
	election := domain.DeductionElection{
		Itemize:        split.ItemizedTotal.GreaterThan(standard),
		ItemizedAmount: split.ItemizedTotal,
		SeniorCount:    seniors,
	}
	deduction, _ := Deduction(yt, status, election)

	// pre-conversion ordinary income
	th := yt.SSThresholdsFor(status)
	otherOrdinary := wages.Add(spouseWages).Add(taxableRMD)
	provisionalPre := otherOrdinary.Add(gains)
	taxableSSPre := TaxableSocialSecurity(ss, provisionalPre, exempt, th)
	ordinaryPre := otherOrdinary.Add(taxableSSPre)
	// below zero when the deduction spills onto gains; a conversion absorbs that first
	preOrdinary := ordinaryPre.Sub(deduction)
	preTaxable := nonNegative(preOrdinary)

	// conversion
	primaryOut := decimal.Max(rmd, split.QCD)
	household := conversion.HouseholdInput{
		Year:         year,
		FilingStatus: status,
		Primary: conversion.PersonInput{
			Available: nonNegative(s.conv.balances.Traditional.Sub(primaryOut)),
			Income:    preOrdinary,
		},
		CombinedIncome: preOrdinary,
	}
	if cfg.HasSpouse() {
		halfDeduction := deduction.Div(decimal.NewFromInt(2))
		ssShare := func(own decimal.Decimal) decimal.Decimal {
			if !ss.IsPositive() {
				return decimal.Zero
			}
			return taxableSSPre.Mul(own).Div(ss)
		}
		household.Primary.Income = wages.Add(primaryTaxableRMD).Add(ssShare(ssPrimary)).Sub(halfDeduction)
		household.Spouse = &conversion.PersonInput{
			Available: nonNegative(s.conv.balances.SpouseTraditional.Sub(spouseRMD)),
			Income:    spouseWages.Add(spouseRMD).Add(ssShare(ssSpouse)).Sub(halfDeduction),
		}
	}
	resolved, err := s.e.Resolver.ResolveHousehold(cfg.Strategy, household)
	if err != nil {
		return domain.YearlyResult{}, err
	}
	for _, n := range resolved.Notes {
		s.log.Debugf("year %d: %s", year, n)
	}
	converted := resolved.Total()

	// taxes with and without the conversion
	provisionalPost := provisionalPre.Add(converted)
	taxableSSPost := TaxableSocialSecurity(ss, provisionalPost, exempt, th)
	ordinaryPost := otherOrdinary.Add(converted).Add(taxableSSPost)

	withConv, err := LiabilityFromTable(yt, note, year, ordinaryPost, gains, status, election)
	if err != nil {
		return domain.YearlyResult{}, err
	}
	withoutConv, err := LiabilityFromTable(yt, note, year, ordinaryPre, gains, status, election)
	if err != nil {
		return domain.YearlyResult{}, err
	}
	stateTax, err := s.stateTax(year, withConv, withoutConv, wages.Add(spouseWages).Add(gains), deduction)
	if err != nil {
		return domain.YearlyResult{}, err
	}

	cost := withConv.TotalTax.Sub(withoutConv.TotalTax)
	if stateTax != nil {
		cost = cost.Add(stateTax.WithConversion.Sub(stateTax.WithoutConversion))
	}
	s.cumulativePaid = s.cumulativePaid.Add(cost)

	agi := ordinaryPost.Add(gains)
	magi := agi.Add(exempt)
	baselineMAGI := ordinaryPre.Add(gains).Add(exempt)

	// traps, before and after the gift
	compProvisional := provisionalPre.Add(exempt)
	compOrdinary := withoutConv.OrdinaryTaxableIncome
	profile := TrapProfile{
		Year:                      year,
		FilingStatus:              status,
		AGI:                       agi,
		MAGI:                      magi,
		TaxableIncome:             withConv.TaxableIncome,
		OrdinaryTaxableIncome:     withConv.OrdinaryTaxableIncome,
		CapitalGains:              withConv.CapitalGainsTaxable,
		SocialSecurityBenefits:    ss,
		ProvisionalBase:           provisionalPost.Add(exempt),
		MarginalRate:              withConv.MarginalOrdinaryRate,
		MedicareEnrollees:         medicareEnrollees(age, spouseAge),
		ACAEnrolled:               cfg.ACA.Enrolled && age < medicareAge,
		HouseholdSize:             cfg.ACA.HouseholdSize,
		ACABenchmarkPremium:       cfg.ACA.BenchmarkPremium,
		QCDEligible:               age >= QCDMinAge && s.conv.balances.Traditional.IsPositive(),
		OpportunityWindow:         cfg.Charitable.OpportunityWindow,
		ComparisonMAGI:            &baselineMAGI,
		ComparisonOrdinaryTaxable: &compOrdinary,
		ComparisonProvisionalBase: &compProvisional,
	}

	var charitable *domain.CharitableOutcome
	if gift.IsPositive() {
		prior := profile
		prior.AGI = prior.AGI.Add(split.QCD)
		prior.MAGI = prior.MAGI.Add(split.QCD)
		prior.ProvisionalBase = prior.ProvisionalBase.Add(split.QCD)
		prior.TaxableIncome = prior.TaxableIncome.Add(split.QCD).Add(split.AboveStandard)
		prior.OrdinaryTaxableIncome = prior.OrdinaryTaxableIncome.Add(split.QCD).Add(split.AboveStandard)

		outcome, err := s.e.Charity.AnalyzeCharitable(CharitableInput{
			Year:                 year,
			FilingStatus:         status,
			Amount:               gift,
			UseQCD:               qcdAllowed,
			Bunched:              bunched,
			RMDAmount:            rmd,
			TraditionalAvailable: s.conv.balances.Traditional,
			AGI:                  agiBeforeGift,
			OtherItemized:        cfg.ItemizedDeductions,
			StandardDeduction:    standard,
			MarginalRate:         withConv.MarginalOrdinaryRate,
			Prior:                prior,
		})
		if err != nil {
			s.log.Warnf("charitable analysis skipped for %d: %v", year, err)
		} else {
			charitable = &outcome
		}
	}
	traps := s.e.Traps.DetectTraps(profile)

	yr := domain.YearlyResult{
		Year:      year,
		Age:       age,
		SpouseAge: spouseAge,
		Income: domain.IncomeBreakdown{
			Wages:                  wages,
			SpouseWages:            spouseWages,
			SocialSecurity:         ss,
			TaxableSocialSecurity:  taxableSSPost,
			CapitalGains:           gains,
			TaxableRMD:             taxableRMD,
			OrdinaryIncome:         ordinaryPost,
			PreConversionTaxable:   preTaxable,
			AGI:                    agi,
			MAGI:                   magi,
			BaselineMAGI:           baselineMAGI,
			CharitableContribution: gift,
		},
		Conversion:           resolved.Primary,
		SpouseConversion:     resolved.Spouse,
		RMD:                  rmd,
		SpouseRMD:            spouseRMD,
		TaxWithConversion:    withConv,
		TaxWithoutConversion: withoutConv,
		StateTax:             stateTax,
		ConversionTaxCost:    cost,
		Charitable:           charitable,
		Warnings:             traps.Warnings,
		DataWarnings:         dataNotes,
	}
	if yr.Warnings == nil {
		yr.Warnings = []domain.TrapWarning{}
	}

	if cfg.CompareMFJvsMFS {
		if cfg.HasSpouse() {
			cmp, err := CompareFilingSeparately(yt, year,
				SeparateReturn{Ordinary: wages.Add(primaryTaxableRMD).Add(resolved.Primary), SocialSecurity: ssPrimary, Senior: age >= medicareAge},
				SeparateReturn{Ordinary: spouseWages.Add(spouseRMD).Add(resolved.Spouse), SocialSecurity: ssSpouse, Senior: spouseAge >= medicareAge},
				JointItems{CapitalGains: gains, TaxExemptInterest: exempt, Itemized: split.ItemizedTotal, Itemize: election.Itemize},
				withConv.TotalTax)
			if err != nil {
				s.log.Warnf("filing status comparison skipped for %d: %v", year, err)
			} else {
				yr.MFSComparison = &cmp
			}
		} else {
			s.log.Debugf("year %d: filing status comparison needs a spouse", year)
		}
	}

	// balances: conversion track
	next := s.conv.balances
	next.Traditional = s.grow(next.Traditional.Sub(primaryOut).Sub(resolved.Primary))
	next.SpouseTraditional = s.grow(next.SpouseTraditional.Sub(spouseRMD).Sub(resolved.Spouse))
	next.Roth = s.grow(next.Roth.Add(resolved.Primary))
	next.SpouseRoth = s.grow(next.SpouseRoth.Add(resolved.Spouse))
	s.conv.balances = next
	s.conv.reinvested = s.grow(s.conv.reinvested.Add(taxableRMD.Mul(s.keep)))

	// balances: baseline track with its own RMDs and QCDs
	baseQCD := decimal.Zero
	if qcdAllowed {
		baseQCD = decimal.Min(gift, decimal.Min(yt.QCDLimit, nonNegative(s.base.balances.Traditional)))
	}
	baseTaxableRMD := nonNegative(baseRMD.Sub(baseQCD)).Add(baseSpouseRMD)
	b := s.base.balances
	b.Traditional = s.grow(b.Traditional.Sub(decimal.Max(baseRMD, baseQCD)))
	b.SpouseTraditional = s.grow(b.SpouseTraditional.Sub(baseSpouseRMD))
	b.Roth = s.grow(b.Roth)
	b.SpouseRoth = s.grow(b.SpouseRoth)
	s.base.balances = b
	s.base.reinvested = s.grow(s.base.reinvested.Add(baseTaxableRMD.Mul(s.keep)))

	// advantage and break-even
	s.converted = s.converted.Add(converted)
	netWorth := s.conv.netWorth(s.keep)
	baselineNetWorth := s.base.netWorth(s.keep)
	saved := netWorth.Sub(s.cumulativePaid).Sub(baselineNetWorth)

	yr.Balances = s.conv.balances
	yr.BaselineBalances = s.base.balances
	yr.NetWorth = netWorth
	yr.BaselineNetWorth = baselineNetWorth
	yr.CumulativeTaxPaid = s.cumulativePaid
	yr.CumulativeTaxSaved = saved
	if !s.breakEvenSeen && s.converted.IsPositive() && !saved.IsNegative() {
		yr.BreakEvenYear = true
		s.breakEvenSeen = true
		s.log.Infof("break-even reached in %d (advantage $%s)", year, saved.StringFixed(2))
	}
	return yr, nil
}

// stateTax prices the overlay for the state in force this year. States that
// exempt retirement income tax only non-retirement income less the deduction.
func (s *simulation) stateTax(year int, withConv, withoutConv domain.TaxLiabilityResult, nonRetirement, deduction decimal.Decimal) (*domain.StateTaxResult, error) {
	if s.cfg.State == nil {
		return nil, nil
	}
	code, relocated := s.cfg.State.ActiveState(year)
	schedule, err := s.e.Tables.State(code)
	if err != nil {
		return nil, err
	}

	withBase, withoutBase := withConv.TaxableIncome, withoutConv.TaxableIncome
	if schedule.ExemptsRetirementIncome {
		withBase = nonNegative(nonRetirement.Sub(deduction))
		withoutBase = withBase
	}
	with, err := s.e.State.ComputeStateTax(withBase, schedule.Code, s.cfg.FilingStatus)
	if err != nil {
		return nil, err
	}
	without, err := s.e.State.ComputeStateTax(withoutBase, schedule.Code, s.cfg.FilingStatus)
	if err != nil {
		return nil, err
	}
	return &domain.StateTaxResult{
		StateCode:         schedule.Code,
		Relocated:         relocated,
		WithConversion:    with,
		WithoutConversion: without,
	}, nil
}

func seniorCount(age, spouseAge int) int {
	n := 0
	if age >= medicareAge {
		n++
	}
	if spouseAge >= medicareAge {
		n++
	}
	return n
}

func medicareEnrollees(age, spouseAge int) int {
	return seniorCount(age, spouseAge)
}
