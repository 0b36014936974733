package taxdata

import (
	"github.com/rgehrsitz/rothplan/internal/domain"
)

func flatState(code, name, rate string, exempt bool) StateSchedule {
	return StateSchedule{Code: code, Name: name, Kind: StateFlat, Rate: d(rate), ExemptsRetirementIncome: exempt}
}

func noTaxState(code, name string) StateSchedule {
	return StateSchedule{Code: code, Name: name, Kind: StateNone}
}

func builtInStates() map[string]StateSchedule {
	states := []StateSchedule{
		{Code: FederalOnly, Name: "Federal only", Kind: StateNone},
		noTaxState("AK", "Alaska"),
		noTaxState("FL", "Florida"),
		noTaxState("NV", "Nevada"),
		noTaxState("NH", "New Hampshire"),
		noTaxState("SD", "South Dakota"),
		noTaxState("TN", "Tennessee"),
		noTaxState("TX", "Texas"),
		noTaxState("WA", "Washington"),
		noTaxState("WY", "Wyoming"),

		flatState("AZ", "Arizona", "0.025", false),
		flatState("CO", "Colorado", "0.044", false),
		flatState("GA", "Georgia", "0.0519", false),
		flatState("ID", "Idaho", "0.053", false),
		flatState("IL", "Illinois", "0.0495", true),
		flatState("IN", "Indiana", "0.03", false),
		flatState("KY", "Kentucky", "0.04", false),
		flatState("MA", "Massachusetts", "0.05", false),
		flatState("MI", "Michigan", "0.0425", false),
		flatState("NC", "North Carolina", "0.0425", false),
		flatState("PA", "Pennsylvania", "0.0307", true),
		flatState("UT", "Utah", "0.045", false),

		{
			Code: "CA", Name: "California", Kind: StateGraduated,
			Brackets: map[domain.FilingStatus][]Bracket{
				domain.FilingSingle: ladder(rates("0.01", "0.02", "0.04", "0.06", "0.08", "0.093", "0.103", "0.113", "0.123"),
					10756, 25499, 40245, 55866, 70606, 360659, 432787, 721314),
				domain.FilingMarriedJoint: ladder(rates("0.01", "0.02", "0.04", "0.06", "0.08", "0.093", "0.103", "0.113", "0.123"),
					21512, 50998, 80490, 111732, 141212, 721318, 865574, 1442628),
			},
		},
		{
			Code: "NY", Name: "New York", Kind: StateGraduated,
			Brackets: map[domain.FilingStatus][]Bracket{
				domain.FilingSingle: ladder(rates("0.04", "0.045", "0.0525", "0.055", "0.06", "0.0685", "0.0965", "0.103", "0.109"),
					8500, 11700, 13900, 80650, 215400, 1077550, 5000000, 25000000),
				domain.FilingMarriedJoint: ladder(rates("0.04", "0.045", "0.0525", "0.055", "0.06", "0.0685", "0.0965", "0.103", "0.109"),
					17150, 23600, 27900, 161550, 323200, 2155350, 5000000, 25000000),
			},
		},
		{
			Code: "OR", Name: "Oregon", Kind: StateGraduated,
			Brackets: map[domain.FilingStatus][]Bracket{
				domain.FilingSingle:       ladder(rates("0.0475", "0.0675", "0.0875", "0.099"), 4300, 10750, 125000),
				domain.FilingMarriedJoint: ladder(rates("0.0475", "0.0675", "0.0875", "0.099"), 8600, 21500, 250000),
			},
		},
		{
			Code: "VA", Name: "Virginia", Kind: StateGraduated,
			Brackets: map[domain.FilingStatus][]Bracket{
				domain.FilingSingle: ladder(rates("0.02", "0.03", "0.05", "0.0575"), 3000, 5000, 17000),
			},
		},
	}

	out := make(map[string]StateSchedule, len(states))
	for _, s := range states {
		out[s.Code] = s
	}
	return out
}

// BracketsFor returns the graduated schedule for a filing status.
// Missing statuses fall back to the single schedule; a missing joint
// schedule is the single schedule with doubled edges.
func (s StateSchedule) BracketsFor(status domain.FilingStatus) []Bracket {
	if b, ok := s.Brackets[status]; ok {
		return b
	}
	single := s.Brackets[domain.FilingSingle]
	if status != domain.FilingMarriedJoint {
		return single
	}
	doubled := make([]Bracket, len(single))
	for i, b := range single {
		doubled[i] = Bracket{Min: b.Min.Mul(n(2)), Max: b.Max, Rate: b.Rate}
		if !b.IsTop() {
			doubled[i].Max = b.Max.Mul(n(2))
		}
	}
	return doubled
}
