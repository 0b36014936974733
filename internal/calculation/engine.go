package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/conversion"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
)

// Engine orchestrates the yearly simulation. It holds no per-run state, so one
// engine may run many scenarios concurrently.
type Engine struct {
	Tables   *taxdata.Tables
	Logger   Logger
	Federal  *FederalTaxCalculator
	State    *StateTaxCalculator
	Traps    *TrapDetector
	Charity  *CharitableAnalyzer
	Resolver *conversion.Resolver
}

// NewEngine creates an engine over the built-in tables
func NewEngine() *Engine {
	return NewEngineWithTables(taxdata.Default())
}

// NewEngineWithTables creates an engine over a specific dataset
func NewEngineWithTables(tables *taxdata.Tables) *Engine {
	if tables == nil {
		tables = taxdata.Default()
	}
	traps := NewTrapDetector(tables, NopLogger{})
	return &Engine{
		Tables:   tables,
		Logger:   NopLogger{},
		Federal:  NewFederalTaxCalculator(tables),
		State:    NewStateTaxCalculator(tables),
		Traps:    traps,
		Charity:  NewCharitableAnalyzer(tables, traps),
		Resolver: conversion.NewResolver(tables),
	}
}

// SetLogger replaces the logger; nil restores the no-op logger
func (e *Engine) SetLogger(logger Logger) {
	e.Logger = loggerOrNop(logger)
	if e.Traps != nil {
		e.Traps.Logger = e.Logger
	}
}

// ValidateScenario runs the structural checks and the ones that need the tables
func (e *Engine) ValidateScenario(cfg domain.ScenarioConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var problems []string
	if cfg.State != nil {
		for _, code := range []string{cfg.State.ResidentState, cfg.State.DestinationState} {
			if code == "" {
				continue
			}
			if _, err := e.Tables.State(code); err != nil {
				problems = append(problems, err.Error())
			}
		}
	}
	if cfg.Strategy.Kind == domain.StrategyFillBracket {
		yt, _, err := e.Tables.ForYear(cfg.StartYear)
		if err != nil {
			return err
		}
		if _, ok := yt.BracketCeiling(cfg.FilingStatus, cfg.Strategy.TargetBracket); !ok {
			problems = append(problems, fmt.Sprintf("target bracket %s is not an ordinary rate for %s in %d",
				cfg.Strategy.TargetBracket.String(), cfg.FilingStatus, yt.Year))
		}
	}
	if len(problems) > 0 {
		return &domain.ValidationError{Problems: problems}
	}
	return nil
}

// Simulate validates the scenario and projects it year by year. Invalid input
// returns an error and no rows; advisory failures inside a year are logged only.
func (e *Engine) Simulate(cfg domain.ScenarioConfig) ([]domain.YearlyResult, error) {
	if err := e.ValidateScenario(cfg); err != nil {
		return nil, err
	}

	log := loggerOrNop(e.Logger)
	log.Infof("simulating %q: %d years from %d, strategy %s", cfg.Name, cfg.Years, cfg.StartYear, cfg.Strategy.Kind)

	sim := newSimulation(e, cfg, log)
	results := make([]domain.YearlyResult, 0, cfg.Years)
	for i := 0; i < cfg.Years; i++ {
		yr, err := sim.step(i)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", cfg.StartYear+i, err)
		}
		results = append(results, yr)
	}
	log.Debugf("simulation %q complete: cumulative conversion tax %s", cfg.Name, sim.cumulativePaid.StringFixed(2))
	return results, nil
}
