package calculation

import (
	"testing"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func findWarning(r TrapResult, t domain.TrapType) *domain.TrapWarning {
	for i := range r.Warnings {
		if r.Warnings[i].Type == t {
			return &r.Warnings[i]
		}
	}
	return nil
}

func TestDetectTraps_IRMAATiers(t *testing.T) {
	detector := NewTrapDetector(taxdata.Default(), nil)

	tests := []struct {
		name         string
		status       domain.FilingStatus
		magi         int64
		enrollees    int
		wantCost     string
		wantSeverity domain.Severity
	}{
		{name: "below first tier", status: domain.FilingSingle, magi: 100000, enrollees: 1},
		{name: "at threshold is not above", status: domain.FilingSingle, magi: 106000, enrollees: 1},
		{name: "tier one", status: domain.FilingSingle, magi: 110000, enrollees: 1, wantCost: "1052.40", wantSeverity: domain.SeverityLow},
		{name: "tier two", status: domain.FilingSingle, magi: 150000, enrollees: 1, wantCost: "2643.60", wantSeverity: domain.SeverityMedium},
		{name: "tier four", status: domain.FilingSingle, magi: 210000, enrollees: 1, wantCost: "5826.00", wantSeverity: domain.SeverityHigh},
		{name: "joint two enrollees", status: domain.FilingMarriedJoint, magi: 220000, enrollees: 2, wantCost: "2104.80", wantSeverity: domain.SeverityLow},
		{name: "nobody on medicare", status: domain.FilingSingle, magi: 900000, enrollees: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := detector.DetectTraps(TrapProfile{
				Year:              2025,
				FilingStatus:      tt.status,
				MAGI:              dec(tt.magi),
				MedicareEnrollees: tt.enrollees,
			})
			w := findWarning(res, domain.TrapIRMAA)
			assert.Equal(t, tt.wantCost != "", res.Has(domain.TrapIRMAA))
			if tt.wantCost == "" {
				assert.Nil(t, w)
				assert.True(t, res.Impact(domain.TrapIRMAA).IsZero())
				return
			}
			require.NotNil(t, w)
			assert.Equal(t, tt.wantCost, w.FinancialImpact.StringFixed(2))
			assert.Equal(t, tt.wantSeverity, w.Severity)
			assert.Equal(t, tt.wantCost, res.Impact(domain.TrapIRMAA).StringFixed(2))
		})
	}
}

func TestDetectTraps_CharitableOpportunity(t *testing.T) {
	detector := NewTrapDetector(taxdata.Default(), nil)
	base := TrapProfile{Year: 2025, FilingStatus: domain.FilingSingle, MAGI: dec(110000), MedicareEnrollees: 1, QCDEligible: true}

	res := detector.DetectTraps(base)
	opp := findWarning(res, domain.TrapCharitableOpportunity)
	require.NotNil(t, opp)
	assert.True(t, opp.RequiredContribution.Equal(dec(4000)))
	assert.Equal(t, "1052.40", opp.FinancialImpact.StringFixed(2))
	assert.Equal(t, domain.SeverityLow, opp.Severity)
	assert.False(t, res.Impacts[domain.TrapCharitableOpportunity].IsPositive(), "opportunities are not costs")

	notEligible := base
	notEligible.QCDEligible = false
	assert.Nil(t, findWarning(detector.DetectTraps(notEligible), domain.TrapCharitableOpportunity))

	farAbove := base
	farAbove.MAGI = dec(150000)
	assert.Nil(t, findWarning(detector.DetectTraps(farAbove), domain.TrapCharitableOpportunity))

	wideWindow := farAbove
	wideWindow.OpportunityWindow = dec(20000)
	opp = findWarning(detector.DetectTraps(wideWindow), domain.TrapCharitableOpportunity)
	require.NotNil(t, opp)
	assert.True(t, opp.RequiredContribution.Equal(dec(17000)))
	// tier two minus tier one surcharge
	assert.Equal(t, "1591.20", opp.FinancialImpact.StringFixed(2))
}

func TestDetectTraps_ACA(t *testing.T) {
	detector := NewTrapDetector(taxdata.Default(), nil)

	t.Run("over the cliff without comparison", func(t *testing.T) {
		res := detector.DetectTraps(TrapProfile{
			Year: 2026, FilingStatus: domain.FilingSingle, MAGI: dec(70000),
			ACAEnrolled: true, HouseholdSize: 1, ACABenchmarkPremium: dec(10000),
		})
		w := findWarning(res, domain.TrapACA)
		require.NotNil(t, w)
		assert.Equal(t, domain.SeverityHigh, w.Severity)
		// benchmark less 9.96% of the 400% line (62,600)
		assert.Equal(t, "3765.04", w.FinancialImpact.StringFixed(2))
	})

	t.Run("conversion crosses the cliff", func(t *testing.T) {
		res := detector.DetectTraps(TrapProfile{
			Year: 2026, FilingStatus: domain.FilingSingle, MAGI: dec(70000),
			ACAEnrolled: true, HouseholdSize: 1, ACABenchmarkPremium: dec(10000),
			ComparisonMAGI: ptr(dec(60000)),
		})
		w := findWarning(res, domain.TrapACA)
		require.NotNil(t, w)
		assert.Equal(t, domain.SeverityHigh, w.Severity)
		assert.Equal(t, "4024.00", w.FinancialImpact.StringFixed(2))
	})

	t.Run("band change without cliff", func(t *testing.T) {
		res := detector.DetectTraps(TrapProfile{
			Year: 2025, FilingStatus: domain.FilingSingle, MAGI: dec(100000),
			ACAEnrolled: true, HouseholdSize: 1, ACABenchmarkPremium: dec(10000),
			ComparisonMAGI: ptr(dec(40000)),
		})
		w := findWarning(res, domain.TrapACA)
		require.NotNil(t, w)
		assert.Equal(t, domain.SeverityMedium, w.Severity)
		assert.True(t, w.FinancialImpact.IsPositive())
	})

	t.Run("same band reports nothing", func(t *testing.T) {
		res := detector.DetectTraps(TrapProfile{
			Year: 2025, FilingStatus: domain.FilingSingle, MAGI: dec(41000),
			ACAEnrolled: true, HouseholdSize: 1, ACABenchmarkPremium: dec(10000),
			ComparisonMAGI: ptr(dec(40000)),
		})
		assert.Nil(t, findWarning(res, domain.TrapACA))
	})
}

func TestDetectTraps_EvaluatorFailureIsIsolated(t *testing.T) {
	yt, _, err := taxdata.Default().ForYear(2025)
	require.NoError(t, err)
	yt.ACA = nil
	tables := taxdata.New("no-aca", []taxdata.YearTable{yt}, nil)

	logger := &recordingLogger{}
	detector := NewTrapDetector(tables, logger)
	res := detector.DetectTraps(TrapProfile{
		Year: 2025, FilingStatus: domain.FilingSingle, MAGI: dec(110000),
		MedicareEnrollees: 1, ACAEnrolled: true, HouseholdSize: 1, ACABenchmarkPremium: dec(10000),
	})

	assert.Nil(t, findWarning(res, domain.TrapACA))
	assert.NotNil(t, findWarning(res, domain.TrapIRMAA), "other traps still evaluated")
	assert.Equal(t, 1, logger.count("WARN"))
}

func TestDetectTraps_SocialSecurity(t *testing.T) {
	detector := NewTrapDetector(taxdata.Default(), nil)

	t.Run("conversion exposes more benefits", func(t *testing.T) {
		res := detector.DetectTraps(TrapProfile{
			Year: 2025, FilingStatus: domain.FilingSingle,
			SocialSecurityBenefits: dec(20000), ProvisionalBase: dec(50000),
			ComparisonProvisionalBase: ptr(dec(20000)), MarginalRate: rate("0.22"),
		})
		w := findWarning(res, domain.TrapSocialSecurity)
		require.NotNil(t, w)
		assert.Equal(t, domain.SeverityMedium, w.Severity)
		// 17,000 taxable now vs 2,500 before, at 22%
		assert.Equal(t, "3190.00", w.FinancialImpact.StringFixed(2))
	})

	t.Run("fifty percent tier without comparison", func(t *testing.T) {
		res := detector.DetectTraps(TrapProfile{
			Year: 2025, FilingStatus: domain.FilingSingle,
			SocialSecurityBenefits: dec(20000), ProvisionalBase: dec(20000), MarginalRate: rate("0.12"),
		})
		w := findWarning(res, domain.TrapSocialSecurity)
		require.NotNil(t, w)
		assert.Equal(t, domain.SeverityLow, w.Severity)
		assert.Equal(t, "300.00", w.FinancialImpact.StringFixed(2))
	})

	t.Run("no extra exposure", func(t *testing.T) {
		res := detector.DetectTraps(TrapProfile{
			Year: 2025, FilingStatus: domain.FilingSingle,
			SocialSecurityBenefits: dec(20000), ProvisionalBase: dec(20000),
			ComparisonProvisionalBase: ptr(dec(20000)), MarginalRate: rate("0.12"),
		})
		assert.Nil(t, findWarning(res, domain.TrapSocialSecurity))
	})
}

func TestDetectTraps_CapitalGains(t *testing.T) {
	detector := NewTrapDetector(taxdata.Default(), nil)

	tests := []struct {
		name         string
		before       int64
		after        int64
		gains        int64
		wantCost     string
		wantSeverity domain.Severity
	}{
		{name: "gains leave the zero bracket", before: 10000, after: 44250, gains: 30000, wantCost: "3885.00", wantSeverity: domain.SeverityMedium},
		{name: "fifteen to twenty", before: 520000, after: 530000, gains: 10000, wantCost: "330.00", wantSeverity: domain.SeverityLow},
		{name: "same rate", before: 60000, after: 70000, gains: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := detector.DetectTraps(TrapProfile{
				Year: 2025, FilingStatus: domain.FilingSingle,
				CapitalGains: dec(tt.gains), OrdinaryTaxableIncome: dec(tt.after),
				ComparisonOrdinaryTaxable: ptr(dec(tt.before)),
			})
			w := findWarning(res, domain.TrapCapitalGains)
			if tt.wantCost == "" {
				assert.Nil(t, w)
				return
			}
			require.NotNil(t, w)
			assert.Equal(t, tt.wantCost, w.FinancialImpact.StringFixed(2))
			assert.Equal(t, tt.wantSeverity, w.Severity)
		})
	}
}

func TestDetectTraps_NoTables(t *testing.T) {
	logger := &recordingLogger{}
	res := NewTrapDetector(taxdata.New("empty", nil, nil), logger).DetectTraps(TrapProfile{Year: 2025, MAGI: dec(1000000), MedicareEnrollees: 1})
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, logger.count("WARN"))
}
