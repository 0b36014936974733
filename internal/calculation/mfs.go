package calculation

import (
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// SeparateReturn is one spouse's own income for a married-filing-separately return
type SeparateReturn struct {
	Ordinary       decimal.Decimal
	SocialSecurity decimal.Decimal
	Senior         bool
}

// JointItems are household items split evenly between separate returns
type JointItems struct {
	CapitalGains      decimal.Decimal
	TaxExemptInterest decimal.Decimal
	Itemized          decimal.Decimal
	Itemize           bool
}

// CompareFilingSeparately prices both spouses on separate returns against the joint tax.
// Separate filers use MFS Social Security bases, so benefits are taxable from the first dollar.
func CompareFilingSeparately(yt taxdata.YearTable, year int, primary, spouse SeparateReturn, joint JointItems, jointTax decimal.Decimal) (domain.MFSComparison, error) {
	two := decimal.NewFromInt(2)
	gains := joint.CapitalGains.Div(two)
	exempt := joint.TaxExemptInterest.Div(two)
	itemized := joint.Itemized.Div(two)

	separate := func(r SeparateReturn) (decimal.Decimal, error) {
		th := yt.SSThresholdsFor(domain.FilingMarriedSeparate)
		taxableSS := TaxableSocialSecurity(r.SocialSecurity, r.Ordinary.Add(gains), exempt, th)
		seniors := 0
		if r.Senior {
			seniors = 1
		}
		res, err := LiabilityFromTable(yt, "", year, r.Ordinary.Add(taxableSS), gains, domain.FilingMarriedSeparate,
			domain.DeductionElection{Itemize: joint.Itemize, ItemizedAmount: itemized, SeniorCount: seniors})
		if err != nil {
			return decimal.Zero, err
		}
		return res.TotalTax, nil
	}

	p, err := separate(primary)
	if err != nil {
		return domain.MFSComparison{}, err
	}
	s, err := separate(spouse)
	if err != nil {
		return domain.MFSComparison{}, err
	}
	combined := p.Add(s)
	return domain.MFSComparison{
		JointTax:            jointTax,
		PrimarySeparateTax:  p,
		SpouseSeparateTax:   s,
		CombinedSeparateTax: combined,
		Difference:          combined.Sub(jointTax),
	}, nil
}
