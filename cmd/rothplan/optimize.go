package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/rothplan/internal/breakeven"
)

func (a *app) optimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [scenario-file]",
		Short: "Search for the conversion parameter that best meets a goal",
		Long: `Search conversion amounts, target brackets or Social Security claiming ages
for the value that best meets the goal.

Targets: fixed_amount, target_bracket, ss_age, all
Goals:   maximize_advantage, earliest_break_even, minimize_trap_cost

Examples:
  rothplan optimize plan.yaml --target fixed_amount --min 0 --max 120000 --step 10000
  rothplan optimize plan.yaml --target target_bracket --rates 0.12,0.22,0.24
  rothplan optimize plan.yaml --target all --goal minimize_trap_cost --format json
`,
		Args: cobra.ExactArgs(1),
		RunE: a.runOptimize,
	}
	f := cmd.Flags()
	f.String("target", string(breakeven.OptimizeFixedAmount), "Parameter to search")
	f.String("goal", string(breakeven.GoalMaximizeAdvantage), "Outcome to optimize")
	f.String("min", "", "Minimum annual conversion amount")
	f.String("max", "", "Maximum annual conversion amount")
	f.String("step", "", "Amount step between candidates")
	f.String("rates", "", "Comma-separated bracket rates to try (default: every ordinary rate)")
	f.Int("min-age", 0, "Earliest Social Security claiming age")
	f.Int("max-age", 0, "Latest Social Security claiming age")
	f.StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func (a *app) runOptimize(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	targetStr, _ := flags.GetString("target")
	goalStr, _ := flags.GetString("goal")
	format, _ := flags.GetString("format")

	target, err := breakeven.ParseTarget(targetStr)
	if err != nil {
		return err
	}
	goal, err := breakeven.ParseGoal(goalStr)
	if err != nil {
		return err
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format %q (available: table, json)", format)
	}
	constraints, err := constraintsFromFlags(cmd)
	if err != nil {
		return err
	}

	base, err := a.loadScenario(args[0])
	if err != nil {
		return err
	}
	engine, err := a.newEngine()
	if err != nil {
		return err
	}
	solver := breakeven.NewDefaultSolver(engine)
	solver.Logger = a.logger.Sugar()

	a.logger.Info("optimizing",
		zap.String("op", "main.optimize"),
		zap.String("scenario", base.Name),
		zap.String("target", string(target)),
		zap.String("goal", string(goal)),
	)

	var rendered string
	if target == breakeven.OptimizeAll {
		result, err := solver.OptimizeAllTargets(cmd.Context(), base, constraints, goal)
		if err != nil {
			return err
		}
		if format == "json" {
			rendered, err = (&breakeven.JSONFormatter{Pretty: true}).FormatMultiTarget(result)
			if err != nil {
				return err
			}
		} else {
			rendered = (&breakeven.TableFormatter{}).FormatMultiTarget(result)
		}
	} else {
		result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
			BaseScenario:  base,
			Target:        target,
			Goal:          goal,
			Constraints:   constraints,
			MaxIterations: solver.Options.MaxIterations,
		})
		if err != nil {
			return err
		}
		if format == "json" {
			rendered, err = (&breakeven.JSONFormatter{Pretty: true}).Format(result)
			if err != nil {
				return err
			}
		} else {
			rendered = (&breakeven.TableFormatter{}).Format(result)
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// constraintsFromFlags overlays the given flags on DefaultConstraints
func constraintsFromFlags(cmd *cobra.Command) (breakeven.Constraints, error) {
	c := breakeven.DefaultConstraints()
	flags := cmd.Flags()

	for name, dst := range map[string]**decimal.Decimal{
		"min":  &c.MinAmount,
		"max":  &c.MaxAmount,
		"step": &c.Step,
	} {
		s, _ := flags.GetString(name)
		if s == "" {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return c, fmt.Errorf("invalid --%s %q: %w", name, s, err)
		}
		*dst = &d
	}

	if s, _ := flags.GetString("rates"); s != "" {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			r, err := decimal.NewFromString(part)
			if err != nil {
				return c, fmt.Errorf("invalid rate %q: %w", part, err)
			}
			c.Rates = append(c.Rates, r)
		}
	}

	if flags.Changed("min-age") {
		age, _ := flags.GetInt("min-age")
		c.MinClaimAge = &age
	}
	if flags.Changed("max-age") {
		age, _ := flags.GetInt("max-age")
		c.MaxClaimAge = &age
	}
	return c, c.Validate()
}
