package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rgehrsitz/rothplan/internal/calculation"
	"github.com/rgehrsitz/rothplan/internal/config"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/rgehrsitz/rothplan/internal/transform"
	"github.com/rgehrsitz/rothplan/internal/tui"
)

func main() {
	flags := pflag.NewFlagSet("rothplan-tui", pflag.ExitOnError)
	tablesPath := flags.String("tables", "", "YAML tax table overlay merged onto the built-in tables")
	logFile := flags.String("log-file", "", "Write debug logs to this file (the screen is taken by the UI)")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: rothplan-tui [flags] <scenario-file>")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}
	scenarioPath := flags.Arg(0)

	logger := zap.NewNop()
	if *logFile != "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{*logFile}
		cfg.ErrorOutputPaths = []string{*logFile}
		l, err := cfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	scenario, err := config.NewInputParser().LoadFromFile(scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tables := taxdata.Default()
	if *tablesPath != "" {
		if tables, err = taxdata.LoadFile(*tablesPath, tables); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	engine := calculation.NewEngineWithTables(tables)
	engine.SetLogger(logger.Sugar())

	model := tui.NewModel(scenario, engine, transform.CreateBuiltInTemplates())
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
