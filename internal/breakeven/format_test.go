package breakeven

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFormatter_Format(t *testing.T) {
	solver := NewSolver(&curveSimulator{}, nil, DefaultSolverOptions())
	result, err := solver.Optimize(context.Background(), fixedRequest(GoalMaximizeAdvantage))
	require.NoError(t, err)

	out := (&TableFormatter{}).Format(result)
	assert.Contains(t, out, "ROTH CONVERSION OPTIMIZATION RESULTS")
	assert.Contains(t, out, "Scenario:            plan")
	assert.Contains(t, out, "Optimization Target: fixed_amount")
	assert.Contains(t, out, "Status:              Found")
	assert.Contains(t, out, "* $50000")
	assert.Contains(t, out, "  $0 ")
	assert.Contains(t, out, "Final Advantage:    $2.5K")
	assert.Contains(t, out, "Break-Even Year:    2026")
	assert.Contains(t, out, "Net Worth Change:   +$2500.00")
}

func TestTableFormatter_FormatMultiTarget(t *testing.T) {
	solver := NewSolver(&curveSimulator{}, nil, DefaultSolverOptions())
	result, err := solver.OptimizeAllTargets(context.Background(), scenario(), DefaultConstraints(), GoalEarliestBreakEven)
	require.NoError(t, err)

	out := (&TableFormatter{}).FormatMultiTarget(result)
	assert.Contains(t, out, "Goal: earliest_break_even")
	assert.Contains(t, out, "fixed_amount")
	assert.Contains(t, out, "target_bracket")
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_Helpers(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "-$1.5K", tf.signed(dec(-1500)))
	assert.Equal(t, "$2.00M", tf.signed(dec(2000000)))
	assert.Equal(t, "No qualifying candidate", tf.formatStatus(false))
	assert.Equal(t, "+", tf.deltaSymbol(dec(1)))
	assert.Equal(t, "ab...", tf.truncate("abcdef", 5))
}

func TestJSONFormatter(t *testing.T) {
	solver := NewSolver(&curveSimulator{}, nil, DefaultSolverOptions())
	result, err := solver.Optimize(context.Background(), fixedRequest(GoalMaximizeAdvantage))
	require.NoError(t, err)

	out, err := (&JSONFormatter{}).Format(result)
	require.NoError(t, err)
	assert.Contains(t, out, `"label":"$50000"`)
	assert.Contains(t, out, `"target":"fixed_amount"`)
	assert.Contains(t, out, `"success":true`)

	multi, err := solver.OptimizeAllTargets(context.Background(), scenario(), DefaultConstraints(), GoalMaximizeAdvantage)
	require.NoError(t, err)
	pretty, err := (&JSONFormatter{Pretty: true}).FormatMultiTarget(multi)
	require.NoError(t, err)
	assert.Contains(t, pretty, "\n  \"goal\": \"maximize_advantage\"")
}
