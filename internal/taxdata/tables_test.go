package taxdata

import (
	"testing"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault_BracketsAreContiguous(t *testing.T) {
	tables := Default()
	for _, year := range tables.Years() {
		yt, note, err := tables.ForYear(year)
		require.NoError(t, err)
		assert.Empty(t, note)
		for _, status := range domain.FilingStatuses {
			for name, brackets := range map[string][]Bracket{
				"ordinary":      yt.OrdinaryBrackets(status),
				"capital gains": yt.CapitalGainsBrackets(status),
			} {
				require.NotEmpty(t, brackets, "%d %s %s", year, status, name)
				assert.True(t, brackets[0].Min.IsZero(), "%d %s %s starts at zero", year, status, name)
				for i := 1; i < len(brackets); i++ {
					assert.True(t, brackets[i].Min.Equal(brackets[i-1].Max), "%d %s %s bracket %d is contiguous", year, status, name, i)
					assert.True(t, brackets[i].Rate.GreaterThan(brackets[i-1].Rate), "%d %s %s rates ascend", year, status, name)
				}
				assert.True(t, brackets[len(brackets)-1].IsTop())
			}
			assert.True(t, yt.Standard(status).IsPositive())
		}
	}
}

func TestForYear_Fallback(t *testing.T) {
	tables := Default()

	tests := []struct {
		name      string
		year      int
		wantYear  int
		wantNote  bool
		noteMatch string
	}{
		{name: "exact year", year: 2025, wantYear: 2025},
		{name: "future year uses latest", year: 2031, wantYear: 2026, wantNote: true, noteMatch: "no tax tables for 2031, using 2026"},
		{name: "past year uses earliest", year: 2019, wantYear: 2024, wantNote: true, noteMatch: "using 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yt, note, err := tables.ForYear(tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, yt.Year)
			if tt.wantNote {
				assert.Contains(t, note, "tax_data_warning")
				assert.Contains(t, note, tt.noteMatch)
			} else {
				assert.Empty(t, note)
			}
		})
	}
}

func TestForYear_TieGoesToEarlierYear(t *testing.T) {
	tables := New("test", []YearTable{year2024(), year2026()}, nil)
	yt, note, err := tables.ForYear(2025)
	require.NoError(t, err)
	assert.Equal(t, 2024, yt.Year)
	assert.NotEmpty(t, note)
}

func TestForYear_ProvisionalAndEmpty(t *testing.T) {
	prov := year2026()
	prov.Provisional = true
	tables := New("test", []YearTable{prov}, nil)

	_, note, err := tables.ForYear(2026)
	require.NoError(t, err)
	assert.Contains(t, note, "provisional")

	_, _, err = New("empty", nil, nil).ForYear(2025)
	assert.ErrorIs(t, err, ErrNoTables)
}

func TestBracketCeiling(t *testing.T) {
	yt := year2025()

	ceiling, ok := yt.BracketCeiling(domain.FilingSingle, decimal.RequireFromString("0.12"))
	require.True(t, ok)
	assert.True(t, ceiling.Equal(decimal.NewFromInt(48475)))

	ceiling, ok = yt.BracketCeiling(domain.FilingMarriedJoint, decimal.RequireFromString("0.22"))
	require.True(t, ok)
	assert.True(t, ceiling.Equal(decimal.NewFromInt(206700)))

	_, ok = yt.BracketCeiling(domain.FilingSingle, decimal.RequireFromString("0.13"))
	assert.False(t, ok)
}

func TestBracketFor_TopDollar(t *testing.T) {
	brackets := year2025().OrdinaryBrackets(domain.FilingSingle)

	assert.Equal(t, "0.1", BracketFor(brackets, decimal.Zero).Rate.String())
	assert.Equal(t, "0.1", BracketFor(brackets, decimal.NewFromInt(11925)).Rate.String())
	assert.Equal(t, "0.12", BracketFor(brackets, decimal.NewFromInt(11926)).Rate.String())
	assert.Equal(t, "0.37", BracketFor(brackets, decimal.NewFromInt(5_000_000)).Rate.String())
}

func TestState_Lookup(t *testing.T) {
	tables := Default()

	pa, err := tables.State("pa")
	require.NoError(t, err)
	assert.Equal(t, StateFlat, pa.Kind)
	assert.True(t, pa.ExemptsRetirementIncome)

	fed, err := tables.State(FederalOnly)
	require.NoError(t, err)
	assert.Equal(t, StateNone, fed.Kind)

	_, err = tables.State("ZZ")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestStateSchedule_BracketsForFallback(t *testing.T) {
	va, err := Default().State("VA")
	require.NoError(t, err)

	joint := va.BracketsFor(domain.FilingMarriedJoint)
	require.Len(t, joint, 4)
	assert.True(t, joint[0].Max.Equal(decimal.NewFromInt(6000)))
	assert.True(t, joint[3].IsTop())

	hoh := va.BracketsFor(domain.FilingHeadOfHousehold)
	assert.True(t, hoh[0].Max.Equal(decimal.NewFromInt(3000)))
}

func TestMerge_DoesNotMutateReceiver(t *testing.T) {
	base := Default()
	extra := New("extra", []YearTable{year2026().copyAs(2030)}, []StateSchedule{flatState("ZZ", "Test", "0.01", false)})

	merged := base.Merge(extra)
	assert.Contains(t, merged.Years(), 2030)
	assert.NotContains(t, base.Years(), 2030)
	_, err := base.State("ZZ")
	assert.Error(t, err)
	_, err = merged.State("ZZ")
	assert.NoError(t, err)
	assert.Equal(t, "builtin-2026.1+extra", merged.Version)
}

func TestParse_IndexedBaseYear(t *testing.T) {
	data := []byte(`
version: projected
years:
  - year: 2027
    base: 2026
    index_rate: 0.02
    provisional: true
    standard_deduction:
      single: 16500
states:
  - code: zz
    name: Testland
    kind: graduated
    brackets:
      single:
        - up_to: 10000
          rate: 0.01
        - rate: 0.05
`)
	tables, err := Parse(data, Default())
	require.NoError(t, err)

	yt, note, err := tables.ForYear(2027)
	require.NoError(t, err)
	assert.Contains(t, note, "provisional")
	assert.True(t, yt.Standard(domain.FilingSingle).Equal(decimal.NewFromInt(16500)))
	// 12400 * 1.02 = 12648 -> nearest 50
	assert.True(t, yt.OrdinaryBrackets(domain.FilingSingle)[0].Max.Equal(decimal.NewFromInt(12650)))
	assert.True(t, yt.OrdinaryBrackets(domain.FilingSingle)[6].IsTop())

	src, _, err := tables.ForYear(2026)
	require.NoError(t, err)
	assert.True(t, src.OrdinaryBrackets(domain.FilingSingle)[0].Max.Equal(decimal.NewFromInt(12400)), "base year must be untouched")

	zz, err := tables.State("ZZ")
	require.NoError(t, err)
	assert.Equal(t, StateGraduated, zz.Kind)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "unknown base", yaml: "years:\n  - year: 2030\n    base: 1999\n", want: "base year 1999"},
		{name: "missing year", yaml: "years:\n  - base: 2025\n", want: "year is required"},
		{name: "incomplete year", yaml: "years:\n  - year: 2030\n    ordinary:\n      single:\n        - rate: 0.1\n", want: "missing"},
		{name: "open middle bracket", yaml: "states:\n  - code: QQ\n    kind: graduated\n    brackets:\n      single:\n        - rate: 0.01\n        - rate: 0.02\n", want: "only the last bracket"},
		{name: "bad kind", yaml: "states:\n  - code: QQ\n    kind: weird\n", want: "unknown state kind"},
		{name: "bad status", yaml: "years:\n  - year: 2030\n    base: 2025\n    standard_deduction:\n      joint: 1\n", want: "unknown filing status"},
		{name: "bad yaml", yaml: "years: [", want: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), Default())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExport_RoundTrips(t *testing.T) {
	tables := Default()
	yt, _, err := tables.ForYear(2025)
	require.NoError(t, err)

	fy := yt.Export(nil)
	require.Len(t, fy.Ordinary, len(domain.FilingStatuses))
	top := fy.Ordinary["single"][len(fy.Ordinary["single"])-1]
	assert.Nil(t, top.UpTo, "top bracket is open-ended")

	fy.Year = 2099
	data, err := yaml.Marshal(File{Version: "export", Years: []FileYear{fy}})
	require.NoError(t, err)

	merged, err := Parse(data, tables)
	require.NoError(t, err)
	got, note, err := merged.ForYear(2099)
	require.NoError(t, err)
	assert.Empty(t, note)
	for _, status := range domain.FilingStatuses {
		want := yt.OrdinaryBrackets(status)
		have := got.OrdinaryBrackets(status)
		require.Len(t, have, len(want), status)
		for i := range want {
			assert.True(t, want[i].Max.Equal(have[i].Max), "%s bracket %d", status, i)
			assert.True(t, want[i].Rate.Equal(have[i].Rate), "%s bracket %d", status, i)
		}
		assert.True(t, yt.Standard(status).Equal(got.Standard(status)))
	}
	assert.True(t, yt.QCDLimit.Equal(got.QCDLimit))
}

func TestExport_SelectedStatus(t *testing.T) {
	yt, _, err := Default().ForYear(2025)
	require.NoError(t, err)
	fy := yt.Export([]domain.FilingStatus{domain.FilingMarriedJoint})
	assert.Len(t, fy.Ordinary, 1)
	assert.Contains(t, fy.StandardDeduction, "mfj")
	assert.NotContains(t, fy.CapitalGains, "single")
}
