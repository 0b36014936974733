package taxdata

import (
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ordinaryRates     = rates("0.10", "0.12", "0.22", "0.24", "0.32", "0.35", "0.37")
	capitalGainsRates = rates("0", "0.15", "0.20")
)

func rates(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func n(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ladder builds contiguous brackets from a rate list and the upper edge of every bracket but the last
func ladder(rates []decimal.Decimal, ceilings ...int64) []Bracket {
	if len(ceilings) != len(rates)-1 {
		panic("taxdata: ladder needs one ceiling fewer than rates")
	}
	out := make([]Bracket, len(rates))
	lower := decimal.Zero
	for i, rate := range rates {
		upper := Unbounded
		if i < len(ceilings) {
			upper = n(ceilings[i])
		}
		out[i] = Bracket{Min: lower, Max: upper, Rate: rate}
		lower = upper
	}
	return out
}

func irmaaTiers(thresholds []int64, partB, partD []string) []IRMAATier {
	out := make([]IRMAATier, len(thresholds))
	for i := range thresholds {
		out[i] = IRMAATier{Threshold: n(thresholds[i]), PartB: d(partB[i]), PartD: d(partD[i])}
	}
	return out
}

func socialSecurityThresholds() map[domain.FilingStatus]SSThresholds {
	unmarried := SSThresholds{Base1: n(25000), Base2: n(34000)}
	return map[domain.FilingStatus]SSThresholds{
		domain.FilingSingle:          unmarried,
		domain.FilingHeadOfHousehold: unmarried,
		domain.FilingMarriedJoint:    {Base1: n(32000), Base2: n(44000)},
		domain.FilingMarriedSeparate: {Base1: decimal.Zero, Base2: decimal.Zero},
	}
}

// enhancedACABands are the 2021-2025 applicable percentages with no 400% cliff
func enhancedACABands() []ACABand {
	return []ACABand{
		{FromPct: n(0), ToPct: n(150), StartRate: d("0"), EndRate: d("0")},
		{FromPct: n(150), ToPct: n(200), StartRate: d("0"), EndRate: d("0.02")},
		{FromPct: n(200), ToPct: n(250), StartRate: d("0.02"), EndRate: d("0.04")},
		{FromPct: n(250), ToPct: n(300), StartRate: d("0.04"), EndRate: d("0.06")},
		{FromPct: n(300), ToPct: n(400), StartRate: d("0.06"), EndRate: d("0.085")},
	}
}

func year2024() YearTable {
	single := ladder(ordinaryRates, 11600, 47150, 100525, 191950, 243725, 609350)
	return YearTable{
		Year: 2024,
		Ordinary: map[domain.FilingStatus][]Bracket{
			domain.FilingSingle:          single,
			domain.FilingMarriedJoint:    ladder(ordinaryRates, 23200, 94300, 201050, 383900, 487450, 731200),
			domain.FilingMarriedSeparate: ladder(ordinaryRates, 11600, 47150, 100525, 191950, 243725, 365600),
			domain.FilingHeadOfHousehold: ladder(ordinaryRates, 16550, 63100, 100500, 191950, 243700, 609350),
		},
		CapitalGains: map[domain.FilingStatus][]Bracket{
			domain.FilingSingle:          ladder(capitalGainsRates, 47025, 518900),
			domain.FilingMarriedJoint:    ladder(capitalGainsRates, 94050, 583750),
			domain.FilingMarriedSeparate: ladder(capitalGainsRates, 47025, 291850),
			domain.FilingHeadOfHousehold: ladder(capitalGainsRates, 63000, 551350),
		},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:          n(14600),
			domain.FilingMarriedJoint:    n(29200),
			domain.FilingMarriedSeparate: n(14600),
			domain.FilingHeadOfHousehold: n(21900),
		},
		AdditionalUnmarried: n(1950),
		AdditionalMarried:   n(1550),
		IRMAA: map[domain.FilingStatus][]IRMAATier{
			domain.FilingSingle: irmaaTiers([]int64{103000, 129000, 161000, 193000, 500000},
				[]string{"69.90", "174.70", "279.50", "384.30", "419.30"},
				[]string{"12.90", "33.30", "53.80", "74.20", "81.00"}),
			domain.FilingMarriedJoint: irmaaTiers([]int64{206000, 258000, 322000, 386000, 750000},
				[]string{"69.90", "174.70", "279.50", "384.30", "419.30"},
				[]string{"12.90", "33.30", "53.80", "74.20", "81.00"}),
			domain.FilingMarriedSeparate: irmaaTiers([]int64{103000, 397000},
				[]string{"384.30", "419.30"},
				[]string{"74.20", "81.00"}),
		},
		IRMAABasePartB: d("174.70"),
		ACA: &ACAParams{
			PovertyBase:      n(14580),
			PovertyPerPerson: n(5140),
			Bands:            enhancedACABands(),
			AboveCliffRate:   d("0.085"),
		},
		SocialSecurity: socialSecurityThresholds(),
		QCDLimit:       n(105000),
	}
}

func year2025() YearTable {
	return YearTable{
		Year: 2025,
		Ordinary: map[domain.FilingStatus][]Bracket{
			domain.FilingSingle:          ladder(ordinaryRates, 11925, 48475, 103350, 197300, 250525, 626350),
			domain.FilingMarriedJoint:    ladder(ordinaryRates, 23850, 96950, 206700, 394600, 501050, 751600),
			domain.FilingMarriedSeparate: ladder(ordinaryRates, 11925, 48475, 103350, 197300, 250525, 375800),
			domain.FilingHeadOfHousehold: ladder(ordinaryRates, 17000, 64850, 103350, 197300, 250500, 626350),
		},
		CapitalGains: map[domain.FilingStatus][]Bracket{
			domain.FilingSingle:          ladder(capitalGainsRates, 48350, 533400),
			domain.FilingMarriedJoint:    ladder(capitalGainsRates, 96700, 600050),
			domain.FilingMarriedSeparate: ladder(capitalGainsRates, 48350, 300000),
			domain.FilingHeadOfHousehold: ladder(capitalGainsRates, 64750, 566700),
		},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:          n(15750),
			domain.FilingMarriedJoint:    n(31500),
			domain.FilingMarriedSeparate: n(15750),
			domain.FilingHeadOfHousehold: n(23625),
		},
		AdditionalUnmarried: n(2000),
		AdditionalMarried:   n(1600),
		IRMAA: map[domain.FilingStatus][]IRMAATier{
			domain.FilingSingle: irmaaTiers([]int64{106000, 133000, 167000, 200000, 500000},
				[]string{"74.00", "185.00", "295.90", "406.90", "443.90"},
				[]string{"13.70", "35.30", "57.00", "78.60", "85.80"}),
			domain.FilingMarriedJoint: irmaaTiers([]int64{212000, 266000, 334000, 400000, 750000},
				[]string{"74.00", "185.00", "295.90", "406.90", "443.90"},
				[]string{"13.70", "35.30", "57.00", "78.60", "85.80"}),
			domain.FilingMarriedSeparate: irmaaTiers([]int64{106000, 394000},
				[]string{"406.90", "443.90"},
				[]string{"78.60", "85.80"}),
		},
		IRMAABasePartB: d("185.00"),
		ACA: &ACAParams{
			PovertyBase:      n(15060),
			PovertyPerPerson: n(5380),
			Bands:            enhancedACABands(),
			AboveCliffRate:   d("0.085"),
		},
		SocialSecurity: socialSecurityThresholds(),
		QCDLimit:       n(108000),
	}
}

func year2026() YearTable {
	return YearTable{
		Year: 2026,
		Ordinary: map[domain.FilingStatus][]Bracket{
			domain.FilingSingle:          ladder(ordinaryRates, 12400, 50400, 105700, 201775, 256225, 640600),
			domain.FilingMarriedJoint:    ladder(ordinaryRates, 24800, 100800, 211400, 403550, 512450, 768700),
			domain.FilingMarriedSeparate: ladder(ordinaryRates, 12400, 50400, 105700, 201775, 256225, 384350),
			domain.FilingHeadOfHousehold: ladder(ordinaryRates, 17700, 67450, 105700, 201750, 256200, 640600),
		},
		CapitalGains: map[domain.FilingStatus][]Bracket{
			domain.FilingSingle:          ladder(capitalGainsRates, 49450, 545500),
			domain.FilingMarriedJoint:    ladder(capitalGainsRates, 98900, 613700),
			domain.FilingMarriedSeparate: ladder(capitalGainsRates, 49450, 306850),
			domain.FilingHeadOfHousehold: ladder(capitalGainsRates, 66200, 579600),
		},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:          n(16100),
			domain.FilingMarriedJoint:    n(32200),
			domain.FilingMarriedSeparate: n(16100),
			domain.FilingHeadOfHousehold: n(24150),
		},
		AdditionalUnmarried: n(2050),
		AdditionalMarried:   n(1650),
		IRMAA: map[domain.FilingStatus][]IRMAATier{
			domain.FilingSingle: irmaaTiers([]int64{109000, 137000, 171000, 205000, 500000},
				[]string{"81.20", "202.90", "324.60", "446.30", "487.00"},
				[]string{"14.50", "37.50", "60.40", "83.30", "91.00"}),
			domain.FilingMarriedJoint: irmaaTiers([]int64{218000, 274000, 342000, 410000, 750000},
				[]string{"81.20", "202.90", "324.60", "446.30", "487.00"},
				[]string{"14.50", "37.50", "60.40", "83.30", "91.00"}),
			domain.FilingMarriedSeparate: irmaaTiers([]int64{109000, 391000},
				[]string{"446.30", "487.00"},
				[]string{"83.30", "91.00"}),
		},
		IRMAABasePartB: d("202.90"),
		ACA: &ACAParams{
			PovertyBase:      n(15650),
			PovertyPerPerson: n(5500),
			Bands: []ACABand{
				{FromPct: n(0), ToPct: n(133), StartRate: d("0.021"), EndRate: d("0.021")},
				{FromPct: n(133), ToPct: n(150), StartRate: d("0.0314"), EndRate: d("0.0419")},
				{FromPct: n(150), ToPct: n(200), StartRate: d("0.0419"), EndRate: d("0.066")},
				{FromPct: n(200), ToPct: n(250), StartRate: d("0.066"), EndRate: d("0.0844")},
				{FromPct: n(250), ToPct: n(300), StartRate: d("0.0844"), EndRate: d("0.0996")},
				{FromPct: n(300), ToPct: n(400), StartRate: d("0.0996"), EndRate: d("0.0996")},
			},
			Cliff:    true,
			CliffPct: n(400),
		},
		SocialSecurity: socialSecurityThresholds(),
		QCDLimit:       n(111000),
	}
}
