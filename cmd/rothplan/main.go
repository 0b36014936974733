package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rgehrsitz/rothplan/internal/calculation"
	"github.com/rgehrsitz/rothplan/internal/config"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
)

// app carries the state shared by every subcommand once settings are resolved
type app struct {
	v        *viper.Viper
	settings config.Settings
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "rothplan",
		Short: "Roth conversion tax projection CLI",
		Long: "Projects a multi-year Roth conversion plan: yearly conversions, RMDs, federal and state tax,\n" +
			"tax-cliff warnings and the break-even point against never converting.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-format", "console", "Log format (console, json)")
	pf.String("log-file", "", "Write logs to this file instead of stderr")
	pf.String("settings", "", "Settings file (default $HOME/"+config.DefaultSettingsFile+" if present)")
	pf.String("tables", "", "YAML tax table overlay merged onto the built-in tables")
	for key, flag := range map[string]string{
		"log_level":  "log-level",
		"log_format": "log-format",
		"log_file":   "log-file",
		"tables":     "tables",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(
		a.simulateCmd(),
		a.compareCmd(),
		a.optimizeCmd(),
		a.validateCmd(),
		a.tablesCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup resolves settings (flags > env > file > defaults) and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("settings")
	s, err := config.LoadSettings(a.v, path)
	if err != nil {
		return err
	}
	logger, err := initializeLogger(s)
	if err != nil {
		return err
	}
	a.settings = s
	a.logger = logger
	a.logger.Debug("settings resolved",
		zap.String("op", "main.setup"),
		zap.String("log_level", s.LogLevel),
		zap.String("tables", s.Tables),
		zap.String("format", s.Format),
	)
	return nil
}

// loadTables returns the built-in tables with the configured overlay merged on
func (a *app) loadTables() (*taxdata.Tables, error) {
	tables := taxdata.Default()
	if a.settings.Tables == "" {
		return tables, nil
	}
	merged, err := taxdata.LoadFile(a.settings.Tables, tables)
	if err != nil {
		return nil, err
	}
	a.logger.Info("loaded tax table overlay",
		zap.String("op", "main.loadTables"),
		zap.String("path", a.settings.Tables),
		zap.String("version", merged.Version),
	)
	return merged, nil
}

func (a *app) newEngine() (*calculation.Engine, error) {
	tables, err := a.loadTables()
	if err != nil {
		return nil, err
	}
	engine := calculation.NewEngineWithTables(tables)
	engine.SetLogger(a.logger.Sugar())
	return engine, nil
}

func (a *app) loadScenario(path string) (domain.ScenarioConfig, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return domain.ScenarioConfig{}, err
	}
	a.logger.Debug("scenario loaded",
		zap.String("op", "main.loadScenario"),
		zap.String("path", path),
		zap.String("name", cfg.Name),
		zap.Int("years", cfg.Years),
	)
	return cfg, nil
}

// format returns the --format flag when given, otherwise the settings default
func (a *app) format(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return f.Value.String()
	}
	return a.settings.Format
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
