package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/calculation"
	"github.com/rgehrsitz/rothplan/internal/compare"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/rgehrsitz/rothplan/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver searches strategy parameters for the best simulated outcome
type Solver struct {
	CalcEngine compare.Simulator
	Tables     *taxdata.Tables
	Options    SolverOptions
	Logger     calculation.Logger
	metrics    *compare.MetricsCalculator
}

// NewSolver creates a new solver. Tables supply the bracket rates searched by
// the target_bracket target; nil means the built-in tables.
func NewSolver(calcEngine compare.Simulator, tables *taxdata.Tables, options SolverOptions) *Solver {
	if tables == nil {
		tables = taxdata.Default()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Tables:     tables,
		Options:    options,
		Logger:     calculation.NopLogger{},
		metrics:    compare.NewMetricsCalculator(),
	}
}

// NewDefaultSolver creates a solver with default options over an engine's tables
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, engine.Tables, DefaultSolverOptions())
}

// candidateSpec is a parameter value plus the transforms that express it
type candidateSpec struct {
	candidate  Candidate
	transforms []transform.ScenarioTransform
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseGoal(string(req.Goal)); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}

	var (
		specs []candidateSpec
		err   error
	)
	switch req.Target {
	case OptimizeFixedAmount:
		specs, err = s.fixedAmountCandidates(req)
	case OptimizeTargetBracket:
		specs, err = s.bracketCandidates(req)
	case OptimizeClaimAge:
		specs, err = s.claimAgeCandidates(req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
	if err != nil {
		return nil, err
	}

	return s.search(ctx, req, specs)
}

func (s *Solver) fixedAmountCandidates(req OptimizationRequest) ([]candidateSpec, error) {
	defaults := DefaultConstraints()
	minAmount, maxAmount, step := *defaults.MinAmount, *defaults.MaxAmount, *defaults.Step
	if req.Constraints.MinAmount != nil {
		minAmount = *req.Constraints.MinAmount
	}
	if req.Constraints.MaxAmount != nil {
		maxAmount = *req.Constraints.MaxAmount
	}
	if req.Constraints.Step != nil {
		step = *req.Constraints.Step
	}
	if minAmount.GreaterThan(maxAmount) {
		return nil, &BreakEvenError{Operation: "optimize_fixed_amount", Message: "min_amount cannot be greater than max_amount"}
	}

	// one past the limit so search can report the cutoff
	limit := req.MaxIterations + 1
	var specs []candidateSpec
	for amount := minAmount; amount.LessThanOrEqual(maxAmount); amount = amount.Add(step) {
		if req.MaxIterations > 0 && len(specs) >= limit {
			break
		}
		a := amount
		specs = append(specs, candidateSpec{
			candidate:  Candidate{Label: "$" + a.StringFixed(0), Amount: &a},
			transforms: []transform.ScenarioTransform{&transform.FixedConversion{Amount: a}},
		})
	}
	return specs, nil
}

func (s *Solver) bracketCandidates(req OptimizationRequest) ([]candidateSpec, error) {
	rates := req.Constraints.Rates
	if len(rates) == 0 {
		yt, _, err := s.Tables.ForYear(req.BaseScenario.StartYear)
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_target_bracket", Message: "no bracket table", Cause: err}
		}
		rates = yt.BracketRates(req.BaseScenario.FilingStatus)
	}
	if len(rates) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_target_bracket",
			Message:   fmt.Sprintf("no ordinary brackets for %s", req.BaseScenario.FilingStatus),
		}
	}

	specs := make([]candidateSpec, 0, len(rates))
	for _, rate := range rates {
		r := rate
		specs = append(specs, candidateSpec{
			candidate:  Candidate{Label: r.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%", Rate: &r},
			transforms: []transform.ScenarioTransform{&transform.FillBracket{Rate: r}},
		})
	}
	return specs, nil
}

func (s *Solver) claimAgeCandidates(req OptimizationRequest) ([]candidateSpec, error) {
	if !req.BaseScenario.SocialSecurity.AnnualBenefit.IsPositive() {
		return nil, &BreakEvenError{Operation: "optimize_ss_age", Message: "scenario has no Social Security benefit"}
	}
	minAge, maxAge := 62, 70
	if req.Constraints.MinClaimAge != nil {
		minAge = *req.Constraints.MinClaimAge
	}
	if req.Constraints.MaxClaimAge != nil {
		maxAge = *req.Constraints.MaxClaimAge
	}

	specs := make([]candidateSpec, 0, maxAge-minAge+1)
	for age := minAge; age <= maxAge; age++ {
		a := age
		specs = append(specs, candidateSpec{
			candidate:  Candidate{Label: fmt.Sprintf("claim at %d", a), ClaimAge: &a},
			transforms: []transform.ScenarioTransform{&transform.DelaySSClaim{Age: a}},
		})
	}
	return specs, nil
}

// search simulates each candidate in order and keeps the best one.
// Ties keep the earlier candidate.
func (s *Solver) search(ctx context.Context, req OptimizationRequest, specs []candidateSpec) (*OptimizationResult, error) {
	log := s.logger()
	op := "optimize_" + string(req.Target)

	base, err := s.evaluate(req.BaseScenario, nil)
	if err != nil {
		return nil, &BreakEvenError{Operation: op, Message: "failed to calculate base scenario", Cause: err}
	}

	result := &OptimizationResult{
		Request:    req,
		Base:       &base,
		Candidates: make([]Candidate, 0, len(specs)),
	}

	for _, spec := range specs {
		if result.Iterations >= req.MaxIterations {
			result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		result.Iterations++

		metrics, err := s.evaluate(req.BaseScenario, spec.transforms)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: op,
				Message:   fmt.Sprintf("failed to calculate candidate %s", spec.candidate.Label),
				Cause:     err,
			}
		}
		metrics.ScenarioName = req.BaseScenario.Name + " @ " + spec.candidate.Label
		metrics = s.metrics.CalculateComparison(metrics, base)
		metrics.Years = nil

		c := spec.candidate
		c.Metrics = metrics
		result.Candidates = append(result.Candidates, c)
		log.Debugf("candidate %s: advantage %s, break-even %s", c.Label, metrics.FinalAdvantage.StringFixed(2), metrics.BreakEvenLabel())
	}

	for i := range result.Candidates {
		if result.Best == nil || isBetter(&result.Candidates[i], result.Best, req.Goal) {
			result.Best = &result.Candidates[i]
		}
	}

	switch {
	case result.Best == nil:
		result.ConvergenceInfo = "No candidates evaluated"
	case req.Goal == GoalEarliestBreakEven && result.Best.Metrics.BreakEvenYear == 0:
		result.ConvergenceInfo = "No candidate reaches break-even within the projection"
	default:
		result.Success = true
		if result.ConvergenceInfo == "" {
			result.ConvergenceInfo = fmt.Sprintf("Evaluated %d candidates", result.Iterations)
		}
	}
	base.Years = nil

	return result, nil
}

func (s *Solver) evaluate(base domain.ScenarioConfig, transforms []transform.ScenarioTransform) (compare.ComparisonResult, error) {
	scenario, err := transform.ApplyTransforms(base, transforms)
	if err != nil {
		return compare.ComparisonResult{}, err
	}
	years, err := s.CalcEngine.Simulate(scenario)
	if err != nil {
		return compare.ComparisonResult{}, err
	}
	return s.metrics.CalculateMetrics(scenario, years), nil
}

func (s *Solver) logger() calculation.Logger {
	if s.Logger == nil {
		return calculation.NopLogger{}
	}
	return s.Logger
}

// isBetter compares two candidates based on the goal
func isBetter(a, b *Candidate, goal OptimizationGoal) bool {
	am, bm := a.Metrics, b.Metrics
	switch goal {
	case GoalMaximizeAdvantage:
		return am.FinalAdvantage.GreaterThan(bm.FinalAdvantage)
	case GoalEarliestBreakEven:
		switch {
		case am.BreakEvenYear != 0 && bm.BreakEvenYear == 0:
			return true
		case am.BreakEvenYear == 0 && bm.BreakEvenYear != 0:
			return false
		case am.BreakEvenYear != bm.BreakEvenYear:
			return am.BreakEvenYear < bm.BreakEvenYear
		}
		return am.FinalAdvantage.GreaterThan(bm.FinalAdvantage)
	case GoalMinimizeTrapCost:
		if !am.TrapCost.Equal(bm.TrapCost) {
			return am.TrapCost.LessThan(bm.TrapCost)
		}
		return am.FinalAdvantage.GreaterThan(bm.FinalAdvantage)
	default:
		return false
	}
}
