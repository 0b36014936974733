package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/rothplan/internal/conversion"
	"github.com/rgehrsitz/rothplan/internal/output"
	"github.com/rgehrsitz/rothplan/internal/transform"
)

func (a *app) simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario-file]",
		Short: "Project a scenario year by year",
		Long: `Project a scenario year by year and print the ledger.

Strategies given with --strategy are applied to the scenario in order before
the projection runs.

Examples:
  rothplan simulate plan.yaml
  rothplan simulate plan.yaml --format verbose
  rothplan simulate plan.yaml --strategy fill_bracket:rate=0.22 --strategy set_window:start=2026,end=2032
  rothplan simulate plan.yaml --format html --save
`,
		Args: cobra.ExactArgs(1),
		RunE: a.runSimulate,
	}
	cmd.Flags().StringP("format", "f", "table", "Output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringArrayP("strategy", "s", nil, "Transform applied before simulating, e.g. fixed_conversion:amount=40000 (repeatable)")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	cmd.Flags().Bool("list-strategies", false, "List the conversion strategies and transforms and exit")
	return cmd
}

func (a *app) runSimulate(cmd *cobra.Command, args []string) error {
	registry := transform.NewTransformRegistry()
	if list, _ := cmd.Flags().GetBool("list-strategies"); list {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Conversion strategies:")
		for _, kind := range conversion.AvailableStrategies() {
			fmt.Fprintf(out, "  %s\n", kind)
		}
		fmt.Fprintln(out, "Transforms:")
		for _, name := range registry.List() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	}

	formatName := a.format(cmd)
	formatter := output.GetFormatterByName(formatName)
	if formatter == nil {
		return fmt.Errorf("unknown format %q (available: %s)", formatName, strings.Join(output.AvailableFormatterNames(), ", "))
	}

	cfg, err := a.loadScenario(args[0])
	if err != nil {
		return err
	}

	specs, _ := cmd.Flags().GetStringArray("strategy")
	if len(specs) > 0 {
		transforms, err := registry.ParseTransformSpecs(specs)
		if err != nil {
			return err
		}
		cfg, err = transform.ApplyTransforms(cfg, transforms)
		if err != nil {
			return err
		}
		a.logger.Info("applied strategies", zap.String("op", "main.simulate"), zap.Strings("strategies", specs))
	}

	engine, err := a.newEngine()
	if err != nil {
		return err
	}
	years, err := engine.Simulate(cfg)
	if err != nil {
		return err
	}
	report := output.NewReport(cfg, years)

	if save, _ := cmd.Flags().GetBool("save"); save {
		filename, err := output.WriteFormatted(formatter, report, extensionFor(formatter.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}

	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", formatter.Name(), err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func extensionFor(formatName string) string {
	switch formatName {
	case "csv", "json", "html":
		return formatName
	default:
		return "txt"
	}
}
