package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/compare"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to search
type OptimizationTarget string

const (
	OptimizeFixedAmount   OptimizationTarget = "fixed_amount"
	OptimizeTargetBracket OptimizationTarget = "target_bracket"
	OptimizeClaimAge      OptimizationTarget = "ss_age"
	OptimizeAll           OptimizationTarget = "all"
)

// OptimizationGoal defines what outcome to achieve
type OptimizationGoal string

const (
	GoalMaximizeAdvantage OptimizationGoal = "maximize_advantage"  // largest final advantage over not converting
	GoalEarliestBreakEven OptimizationGoal = "earliest_break_even" // first year the conversion tax is recovered
	GoalMinimizeTrapCost  OptimizationGoal = "minimize_trap_cost"  // fewest cliff dollars, ties broken by advantage
)

// ParseTarget converts a CLI string to a target
func ParseTarget(s string) (OptimizationTarget, error) {
	switch t := OptimizationTarget(s); t {
	case OptimizeFixedAmount, OptimizeTargetBracket, OptimizeClaimAge, OptimizeAll:
		return t, nil
	}
	return "", &BreakEvenError{Operation: "parse_target", Message: fmt.Sprintf("unknown target %q", s)}
}

// ParseGoal converts a CLI string to a goal
func ParseGoal(s string) (OptimizationGoal, error) {
	switch g := OptimizationGoal(s); g {
	case GoalMaximizeAdvantage, GoalEarliestBreakEven, GoalMinimizeTrapCost:
		return g, nil
	}
	return "", &BreakEvenError{Operation: "parse_goal", Message: fmt.Sprintf("unknown goal %q", s)}
}

// Constraints define bounds for the searched parameters
type Constraints struct {
	// Fixed amount scan
	MinAmount *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
	Step      *decimal.Decimal `json:"step,omitempty"`

	// Bracket rates to try; empty means every ordinary rate of the start year
	Rates []decimal.Decimal `json:"rates,omitempty"`

	// Social Security claiming age range
	MinClaimAge *int `json:"min_claim_age,omitempty"`
	MaxClaimAge *int `json:"max_claim_age,omitempty"`
}

// DefaultConstraints returns sensible default constraints
func DefaultConstraints() Constraints {
	minAmount := decimal.Zero
	maxAmount := decimal.NewFromInt(100000)
	step := decimal.NewFromInt(10000)
	minAge := 62
	maxAge := 70

	return Constraints{
		MinAmount:   &minAmount,
		MaxAmount:   &maxAmount,
		Step:        &step,
		MinClaimAge: &minAge,
		MaxClaimAge: &maxAge,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinAmount != nil && c.MinAmount.IsNegative() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_amount cannot be negative"}
	}
	if c.MinAmount != nil && c.MaxAmount != nil && c.MinAmount.GreaterThan(*c.MaxAmount) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_amount cannot be greater than max_amount"}
	}
	if c.Step != nil && !c.Step.IsPositive() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "step must be positive"}
	}
	for _, r := range c.Rates {
		if !r.IsPositive() || r.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return &BreakEvenError{Operation: "validate_constraints", Message: fmt.Sprintf("rate %s must be between 0 and 1", r.String())}
		}
	}
	if c.MinClaimAge != nil && c.MaxClaimAge != nil {
		if *c.MinClaimAge > *c.MaxClaimAge {
			return &BreakEvenError{Operation: "validate_constraints", Message: "min_claim_age cannot be greater than max_claim_age"}
		}
		if *c.MinClaimAge < 62 || *c.MaxClaimAge > 70 {
			return &BreakEvenError{Operation: "validate_constraints", Message: "claim age must be between 62 and 70"}
		}
	}
	return nil
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	BaseScenario  domain.ScenarioConfig `json:"-"`
	Target        OptimizationTarget    `json:"target"`
	Goal          OptimizationGoal      `json:"goal"`
	Constraints   Constraints           `json:"constraints"`
	MaxIterations int                   `json:"max_iterations"`
}

// Candidate is one evaluated parameter value
type Candidate struct {
	Label    string                   `json:"label"`
	Amount   *decimal.Decimal         `json:"amount,omitempty"`
	Rate     *decimal.Decimal         `json:"rate,omitempty"`
	ClaimAge *int                     `json:"claim_age,omitempty"`
	Metrics  compare.ComparisonResult `json:"metrics"`
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	Best       *Candidate  `json:"best,omitempty"`
	Candidates []Candidate `json:"candidates"`

	// Base is the scenario as given, before any searched change
	Base *compare.ComparisonResult `json:"base,omitempty"`
}

// MultiTargetResult contains results when searching several targets
type MultiTargetResult struct {
	Goal            OptimizationGoal     `json:"goal"`
	Results         []OptimizationResult `json:"results"`
	Best            *OptimizationResult  `json:"best,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver
type SolverOptions struct {
	MaxIterations int // upper bound on simulations per target
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 200,
	}
}

// BreakEvenError represents errors from the optimizer
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
