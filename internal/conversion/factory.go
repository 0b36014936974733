package conversion

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
)

// CreateStrategy builds a strategy from the scenario selector
func CreateStrategy(cfg domain.ConversionStrategy) (Strategy, error) {
	switch cfg.Kind {
	case domain.StrategyNone, "":
		return NewNoConversionStrategy(), nil
	case domain.StrategyFixedAmount:
		return NewFixedAmountStrategy(cfg.Amount), nil
	case domain.StrategyFillBracket:
		return NewBracketFillStrategy(cfg.TargetBracket), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, cfg.Kind)
	}
}

// AvailableStrategies lists the strategy kinds the factory understands
func AvailableStrategies() []domain.StrategyKind {
	return []domain.StrategyKind{domain.StrategyNone, domain.StrategyFixedAmount, domain.StrategyFillBracket}
}
