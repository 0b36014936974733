package conversion

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NoConversionStrategy never converts
type NoConversionStrategy struct{}

func NewNoConversionStrategy() *NoConversionStrategy { return &NoConversionStrategy{} }

func (s *NoConversionStrategy) Name() string { return "none" }

func (s *NoConversionStrategy) Resolve(ResolveContext) Resolution {
	return Resolution{Amount: decimal.Zero}
}

// FixedAmountStrategy converts the same dollar amount each year, limited by the balance
type FixedAmountStrategy struct {
	Amount decimal.Decimal
}

func NewFixedAmountStrategy(amount decimal.Decimal) *FixedAmountStrategy {
	return &FixedAmountStrategy{Amount: amount}
}

func (s *FixedAmountStrategy) Name() string { return "fixed_amount" }

func (s *FixedAmountStrategy) Resolve(ctx ResolveContext) Resolution {
	amount, capped := clip(s.Amount, ctx.Available)
	res := Resolution{Amount: amount, Capped: capped}
	if capped {
		res.Notes = append(res.Notes, fmt.Sprintf("fixed conversion of $%s limited to available balance $%s",
			s.Amount.StringFixed(0), amount.StringFixed(2)))
	}
	return res
}

// BracketFillStrategy converts just enough to fill ordinary income up to the top
// of the bracket taxed at TargetRate.
type BracketFillStrategy struct {
	TargetRate decimal.Decimal
}

func NewBracketFillStrategy(rate decimal.Decimal) *BracketFillStrategy {
	return &BracketFillStrategy{TargetRate: rate}
}

func (s *BracketFillStrategy) Name() string { return "fill_bracket" }

func (s *BracketFillStrategy) Resolve(ctx ResolveContext) Resolution {
	ceiling, ok := ctx.Table.BracketCeiling(ctx.FilingStatus, s.TargetRate)
	if !ok {
		return Resolution{
			Amount: decimal.Zero,
			Notes: []string{fmt.Sprintf("no %s%% bracket for %s in %d; nothing converted",
				s.TargetRate.Mul(decimal.NewFromInt(100)).String(), ctx.FilingStatus, ctx.Year)},
		}
	}
	headroom := Headroom(ceiling, ctx.PreConversionIncome)
	amount, capped := clip(headroom, ctx.Available)
	return Resolution{Amount: amount, Headroom: headroom, Capped: capped}
}

// Headroom is the room between income and a bracket ceiling, never negative
func Headroom(ceiling, income decimal.Decimal) decimal.Decimal {
	room := ceiling.Sub(income)
	if room.IsNegative() {
		return decimal.Zero
	}
	return room
}
