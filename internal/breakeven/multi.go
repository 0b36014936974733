package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
)

// OptimizeAllTargets runs every applicable target for one goal and picks the
// best result across them. A target that fails is logged and skipped.
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	baseScenario domain.ScenarioConfig,
	constraints Constraints,
	goal OptimizationGoal,
) (*MultiTargetResult, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	targets := []OptimizationTarget{OptimizeFixedAmount, OptimizeTargetBracket}
	if baseScenario.SocialSecurity.AnnualBenefit.IsPositive() {
		targets = append(targets, OptimizeClaimAge)
	}

	log := s.logger()
	var results []OptimizationResult
	for _, target := range targets {
		req := OptimizationRequest{
			BaseScenario:  baseScenario,
			Target:        target,
			Goal:          goal,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
		}

		result, err := s.Optimize(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warnf("optimization of %s skipped: %v", target, err)
			continue
		}
		if result.Success {
			results = append(results, *result)
		}
	}

	if len(results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_all_targets",
			Message:   "no successful optimizations found",
		}
	}

	mtResult := &MultiTargetResult{
		Goal:    goal,
		Results: results,
	}
	for i := range results {
		if mtResult.Best == nil || isBetter(results[i].Best, mtResult.Best.Best, goal) {
			mtResult.Best = &results[i]
		}
	}
	mtResult.Recommendations = generateMultiTargetRecommendations(mtResult)

	return mtResult, nil
}

func generateMultiTargetRecommendations(result *MultiTargetResult) []string {
	var recommendations []string

	for _, r := range result.Results {
		m := r.Best.Metrics
		recommendations = append(recommendations,
			fmt.Sprintf("Best %s: %s (advantage $%s, break-even %s)",
				r.Request.Target, r.Best.Label, m.FinalAdvantage.StringFixed(0), m.BreakEvenLabel()))
	}

	if result.Best != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Overall for %s: %s %s", result.Goal, result.Best.Request.Target, result.Best.Best.Label))
		if !result.Best.Best.Metrics.FinalAdvantage.IsPositive() {
			recommendations = append(recommendations,
				"No searched strategy beats leaving the balance unconverted")
		}
	}

	return recommendations
}
