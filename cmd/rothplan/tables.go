package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/output"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
)

func (a *app) tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the tax tables resolved for a year",
		Long: `Print the federal tax tables the engine would use for a year, after any
--tables overlay is merged. The yaml format can be edited and passed back with --tables.

Examples:
  rothplan tables --year 2026 --status mfj
  rothplan tables --year 2031 --format yaml > overlay.yaml
`,
		Args: cobra.NoArgs,
		RunE: a.runTables,
	}
	cmd.Flags().Int("year", time.Now().Year(), "Tax year")
	cmd.Flags().String("status", "", "Filing status (single, mfj, mfs, hoh); empty prints all")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, yaml)")
	return cmd
}

func (a *app) runTables(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	statusStr, _ := cmd.Flags().GetString("status")
	format, _ := cmd.Flags().GetString("format")

	statuses := domain.FilingStatuses
	if statusStr != "" {
		status := domain.FilingStatus(statusStr)
		if !status.IsValid() {
			return fmt.Errorf("unknown filing status %q", statusStr)
		}
		statuses = []domain.FilingStatus{status}
	}

	tables, err := a.loadTables()
	if err != nil {
		return err
	}
	yt, note, err := tables.ForYear(year)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		// export under the table's own year so a fallback is visible
		data, err := yaml.Marshal(taxdata.File{Version: tables.Version, Years: []taxdata.FileYear{yt.Export(statuses)}})
		if err != nil {
			return fmt.Errorf("failed to encode tables: %w", err)
		}
		if note != "" {
			fmt.Fprintf(out, "# %s\n", note)
		}
		_, err = out.Write(data)
		return err
	case "table":
		writeYearTable(out, yt, statuses, note)
		return nil
	default:
		return fmt.Errorf("unknown format %q (available: table, yaml)", format)
	}
}

func writeYearTable(out io.Writer, yt taxdata.YearTable, statuses []domain.FilingStatus, note string) {
	fmt.Fprintf(out, "TAX TABLES %d\n", yt.Year)
	if note != "" {
		fmt.Fprintf(out, "note: %s\n", note)
	}
	fmt.Fprintf(out, "QCD limit:            %s\n", output.FormatCurrency(yt.QCDLimit))
	fmt.Fprintf(out, "65+ addition:         %s unmarried, %s married\n",
		output.FormatCurrency(yt.AdditionalUnmarried), output.FormatCurrency(yt.AdditionalMarried))

	for _, status := range statuses {
		fmt.Fprintf(out, "\n%s (%s)\n", status, string(status))
		fmt.Fprintf(out, "  Standard deduction: %s\n", output.FormatCurrency(yt.Standard(status)))

		fmt.Fprintln(out, "  Ordinary brackets:")
		writeBrackets(out, yt.OrdinaryBrackets(status))
		fmt.Fprintln(out, "  Capital gains brackets:")
		writeBrackets(out, yt.CapitalGainsBrackets(status))

		ss := yt.SSThresholdsFor(status)
		fmt.Fprintf(out, "  SS thresholds:      %s / %s\n", output.FormatCurrency(ss.Base1), output.FormatCurrency(ss.Base2))

		if tiers := yt.IRMAATiers(status); len(tiers) > 0 {
			fmt.Fprintln(out, "  IRMAA tiers (MAGI > threshold, monthly surcharge):")
			for _, t := range tiers {
				fmt.Fprintf(out, "    %14s  %s\n", output.FormatCurrency(t.Threshold), output.FormatCurrency(t.MonthlySurcharge()))
			}
		}
	}
}

func writeBrackets(out io.Writer, brackets []taxdata.Bracket) {
	for _, b := range brackets {
		upper := "and up"
		if !b.IsTop() {
			upper = "to " + output.FormatCurrency(b.Max)
		}
		fmt.Fprintf(out, "    %7s  %14s %s\n", output.FormatPercentage(b.Rate), output.FormatCurrency(b.Min), upper)
	}
}
