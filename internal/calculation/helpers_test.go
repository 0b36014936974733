package calculation

import (
	"fmt"
	"sync"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// recordingLogger keeps formatted messages per level
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+": "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.record("DEBUG", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.record("INFO", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.record("WARN", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.record("ERROR", format, args...) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if len(m) > len(level) && m[:len(level)] == level {
			n++
		}
	}
	return n
}

// singleScenario is a single filer in their fifties with no growth and no RMDs
func singleScenario() domain.ScenarioConfig {
	return domain.ScenarioConfig{
		Name:          "single",
		StartYear:     2025,
		StartAge:      50,
		Years:         10,
		FilingStatus:  domain.FilingSingle,
		Balances:      domain.AccountBalances{Traditional: dec(500000)},
		BaseIncome:    dec(40000),
		RMDStartAge:   73,
		FutureTaxRate: rate("0.22"),
		Strategy: domain.ConversionStrategy{
			Kind:   domain.StrategyFixedAmount,
			Amount: dec(50000),
		},
	}
}

// coupleScenario is a married couple filing jointly
func coupleScenario() domain.ScenarioConfig {
	cfg := singleScenario()
	cfg.Name = "couple"
	cfg.FilingStatus = domain.FilingMarriedJoint
	cfg.SpouseStartAge = 50
	cfg.SpouseRMDStartAge = 73
	cfg.Balances = domain.AccountBalances{Traditional: dec(400000), SpouseTraditional: dec(200000)}
	cfg.BaseIncome = dec(60000)
	cfg.SpouseBaseIncome = dec(30000)
	cfg.ACA.HouseholdSize = 2
	return cfg
}
