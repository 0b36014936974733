package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rothplan/internal/config"
)

// run executes a fresh root command with an isolated HOME
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const scenario = "testdata/scenario.yaml"

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "rothplan", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"simulate", "compare", "optimize", "validate", "tables", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "simulate")
	assert.Contains(t, out, "--log-level")
}

func TestSimulate_Table(t *testing.T) {
	out, err := run(t, "simulate", scenario)
	require.NoError(t, err)
	assert.Contains(t, out, "ROTH CONVERSION PROJECTION: cli-sample")
	assert.Contains(t, out, "2030")
	assert.Contains(t, out, "Total converted:")
}

func TestSimulate_JSON(t *testing.T) {
	out, err := run(t, "simulate", scenario, "--format", "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
}

func TestSimulate_CSVFromSettings(t *testing.T) {
	out, err := run(t, "simulate", scenario, "--settings", "testdata/settings.yaml")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 7, "header plus one row per year")
	assert.True(t, strings.HasPrefix(lines[0], "year,"))

	// an explicit flag beats the settings file
	out, err = run(t, "simulate", scenario, "--settings", "testdata/settings.yaml", "--format", "verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "DETAILED ROTH CONVERSION ANALYSIS")
}

func TestSimulate_Strategy(t *testing.T) {
	out, err := run(t, "simulate", scenario, "--format", "csv", "--strategy", "no_conversion")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	fields := strings.Split(lines[1], ",")
	assert.Equal(t, "2025", fields[0])
	assert.Equal(t, "0.00", fields[3], "conversion column")

	_, err = run(t, "simulate", scenario, "--strategy", "bogus")
	assert.Error(t, err)
}

func TestSimulate_ListStrategies(t *testing.T) {
	out, err := run(t, "simulate", scenario, "--list-strategies")
	require.NoError(t, err)
	assert.Contains(t, out, "Conversion strategies:")
	assert.Contains(t, out, "  fixed_amount\n")
	assert.Contains(t, out, "Transforms:")
	assert.Contains(t, out, "fill_bracket")
	assert.Contains(t, out, "delay_ss")
}

func TestSimulate_Errors(t *testing.T) {
	_, err := run(t, "simulate", scenario, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = run(t, "simulate", "testdata/missing.yaml")
	assert.Error(t, err)

	_, err = run(t, "simulate")
	assert.Error(t, err)
}

func TestSimulate_Save(t *testing.T) {
	abs, err := filepath.Abs(scenario)
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := run(t, "simulate", abs, "--format", "html", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to rothplan_report_")

	matches, err := filepath.Glob(filepath.Join(dir, "rothplan_report_*.html"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCompare(t *testing.T) {
	out, err := run(t, "compare", scenario, "--templates", "no_conversion,fill_22")
	require.NoError(t, err)
	assert.Contains(t, out, "ROTH CONVERSION STRATEGY COMPARISON")
	assert.Contains(t, out, "Configuration: "+scenario)

	out, err = run(t, "compare", scenario, "--format", "csv")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = run(t, "compare", scenario, "--templates", "nope")
	assert.Error(t, err)

	_, err = run(t, "compare")
	assert.Error(t, err)
}

func TestCompare_ListTemplates(t *testing.T) {
	out, err := run(t, "compare", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Templates:")
	assert.Contains(t, out, "fixed_25k")
}

func TestOptimize(t *testing.T) {
	out, err := run(t, "optimize", scenario, "--min", "0", "--max", "40000", "--step", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "ROTH CONVERSION OPTIMIZATION RESULTS")
	assert.Contains(t, out, "fixed_amount")

	out, err = run(t, "optimize", scenario, "--target", "target_bracket", "--rates", "0.12,0.22", "--format", "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "best")
}

func TestOptimize_All(t *testing.T) {
	out, err := run(t, "optimize", scenario, "--target", "all", "--max", "40000", "--step", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "MULTI-TARGET OPTIMIZATION RESULTS")
}

func TestOptimize_BadFlags(t *testing.T) {
	for name, args := range map[string][]string{
		"target": {"--target", "roth"},
		"goal":   {"--goal", "fastest"},
		"amount": {"--min", "abc"},
		"bounds": {"--min", "50000", "--max", "10000"},
		"rate":   {"--target", "target_bracket", "--rates", "1.5"},
		"age":    {"--target", "ss_age", "--min-age", "60"},
		"format": {"--format", "csv"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, append([]string{"optimize", scenario}, args...)...)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", scenario)
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario file testdata/scenario.yaml is valid")

	_, err = run(t, "validate", "testdata/invalid.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "years must be positive")
}

func TestTables_Table(t *testing.T) {
	out, err := run(t, "tables", "--year", "2025", "--status", "mfj")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX TABLES 2025")
	assert.Contains(t, out, "Married Filing Jointly (mfj)")
	assert.Contains(t, out, "Ordinary brackets:")
	assert.NotContains(t, out, "Single (single)")

	_, err = run(t, "tables", "--status", "joint")
	assert.Error(t, err)
	_, err = run(t, "tables", "--format", "xml")
	assert.Error(t, err)
}

func TestTables_YAMLRoundTrip(t *testing.T) {
	out, err := run(t, "tables", "--year", "2026", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "year: 2026")
	assert.Contains(t, out, "ordinary:")

	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0644))
	out, err = run(t, "--tables", path, "tables", "--year", "2026", "--status", "single")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX TABLES 2026")
}

func TestTables_Overlay(t *testing.T) {
	out, err := run(t, "--tables", "testdata/overlay.yaml", "tables", "--year", "2040")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX TABLES 2040")
	assert.NotContains(t, out, "note:")

	out, err = run(t, "tables", "--year", "2040")
	require.NoError(t, err)
	assert.Contains(t, out, "note: tax_data_warning")

	_, err = run(t, "--tables", "testdata/missing.yaml", "tables")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rothplan dev")
}

func TestSettings_EnvAndFlags(t *testing.T) {
	t.Setenv("ROTHPLAN_LOG_LEVEL", "shout")
	_, err := run(t, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	// flags beat the environment
	_, err = run(t, "--log-level", "debug", "version")
	assert.NoError(t, err)
}

func TestInitializeLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "rothplan.log")
	logger, err := initializeLogger(config.Settings{LogLevel: "info", LogFormat: "json", LogFile: logFile})
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	_, err = initializeLogger(config.Settings{LogLevel: "loud"})
	assert.Error(t, err)
	_, err = initializeLogger(config.Settings{LogLevel: "info", LogFormat: "xml"})
	assert.Error(t, err)
}

func TestSimulate_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")
	_, err := run(t, "--log-level", "info", "--log-file", logFile, "simulate", scenario)
	require.NoError(t, err)
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "simulating")
}
