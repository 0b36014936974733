package calculation

import (
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// StateTaxCalculator applies the state overlay on top of federal liability
type StateTaxCalculator struct {
	Tables *taxdata.Tables
}

func NewStateTaxCalculator(tables *taxdata.Tables) *StateTaxCalculator {
	if tables == nil {
		tables = taxdata.Default()
	}
	return &StateTaxCalculator{Tables: tables}
}

// ComputeStateTax returns the state tax on taxable income. "FED" and no-tax
// states return zero. Unknown codes are an error.
func (c *StateTaxCalculator) ComputeStateTax(taxableIncome decimal.Decimal, stateCode string, status domain.FilingStatus) (decimal.Decimal, error) {
	schedule, err := c.Tables.State(stateCode)
	if err != nil {
		return decimal.Zero, err
	}
	return StateTax(schedule, taxableIncome, status), nil
}

// StateTax evaluates a schedule directly
func StateTax(schedule taxdata.StateSchedule, taxableIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	taxableIncome = nonNegative(taxableIncome)
	switch schedule.Kind {
	case taxdata.StateFlat:
		return taxableIncome.Mul(schedule.Rate)
	case taxdata.StateGraduated:
		tax, _ := walkBrackets(schedule.BracketsFor(status), decimal.Zero, taxableIncome, domain.IncomeOrdinary)
		return tax
	default:
		return decimal.Zero
	}
}
