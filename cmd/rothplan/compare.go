package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/rothplan/internal/compare"
	"github.com/rgehrsitz/rothplan/internal/transform"
)

func (a *app) compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [scenario-file]",
		Short: "Compare the scenario against built-in strategy templates",
		Long: `Compare a base scenario against alternative conversion strategies.

Examples:
  rothplan compare plan.yaml
  rothplan compare plan.yaml --templates no_conversion,fill_12,fill_22 --format csv
  rothplan compare --list-templates
`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runCompare,
	}
	cmd.Flags().StringP("templates", "t", "no_conversion,fixed_25k,fill_22", "Comma-separated template names")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List the available templates and exit")
	return cmd
}

func (a *app) runCompare(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("scenario file required for comparison (use --list-templates to see available templates)")
	}

	templatesStr, _ := cmd.Flags().GetString("templates")
	templateNames := transform.ParseTemplateList(templatesStr)
	if len(templateNames) == 0 {
		return fmt.Errorf("no valid templates specified in --templates")
	}
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q (available: table, csv, json)", format)
	}

	base, err := a.loadScenario(args[0])
	if err != nil {
		return err
	}
	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	a.logger.Info("comparing strategies",
		zap.String("op", "main.compare"),
		zap.String("scenario", base.Name),
		zap.Strings("templates", templateNames),
	)
	compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), base, compare.CompareOptions{
		Templates:  templateNames,
		ConfigPath: args[0],
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	var rendered string
	switch format {
	case "csv":
		rendered, err = (&compare.CSVFormatter{}).Format(compSet)
	case "json":
		rendered, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
	default:
		rendered = (&compare.TableFormatter{}).Format(compSet)
	}
	if err != nil {
		return fmt.Errorf("failed to format comparison: %w", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}
