package taxdata

import (
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Export renders a year in overlay form so it can be edited and loaded back
// with LoadFile. Nil or empty statuses exports every filing status.
func (yt YearTable) Export(statuses []domain.FilingStatus) FileYear {
	if len(statuses) == 0 {
		statuses = domain.FilingStatuses
	}
	additionalUnmarried := yt.AdditionalUnmarried
	additionalMarried := yt.AdditionalMarried
	qcd := yt.QCDLimit

	fy := FileYear{
		Year:                yt.Year,
		Provisional:         yt.Provisional,
		Ordinary:            map[string][]FileBracket{},
		CapitalGains:        map[string][]FileBracket{},
		StandardDeduction:   map[string]decimal.Decimal{},
		IRMAA:               map[string][]FileTier{},
		AdditionalUnmarried: &additionalUnmarried,
		AdditionalMarried:   &additionalMarried,
		QCDLimit:            &qcd,
	}
	for _, status := range statuses {
		key := string(status)
		if b, ok := yt.Ordinary[status]; ok {
			fy.Ordinary[key] = exportBrackets(b)
		}
		if b, ok := yt.CapitalGains[status]; ok {
			fy.CapitalGains[key] = exportBrackets(b)
		}
		if sd, ok := yt.StandardDeduction[status]; ok {
			fy.StandardDeduction[key] = sd
		}
		if tiers, ok := yt.IRMAA[status]; ok {
			rows := make([]FileTier, len(tiers))
			for i, t := range tiers {
				rows[i] = FileTier{Threshold: t.Threshold, PartB: t.PartB, PartD: t.PartD}
			}
			fy.IRMAA[key] = rows
		}
	}
	return fy
}

func exportBrackets(brackets []Bracket) []FileBracket {
	rows := make([]FileBracket, len(brackets))
	for i, b := range brackets {
		rows[i] = FileBracket{Rate: b.Rate}
		if !b.IsTop() {
			upTo := b.Max
			rows[i].UpTo = &upTo
		}
	}
	return rows
}
