package compare

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/transform"
)

// Simulator runs one scenario to completion. *calculation.Engine satisfies it.
type Simulator interface {
	Simulate(cfg domain.ScenarioConfig) ([]domain.YearlyResult, error)
}

// CompareEngine orchestrates strategy comparison
type CompareEngine struct {
	CalcEngine        Simulator
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine with the built-in templates
func NewCompareEngine(calcEngine Simulator) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates  []string // template names applied to the base scenario
	ConfigPath string   // recorded on the set for display
}

// Compare runs the base scenario and one variant per template. Each run gets
// its own copy of the scenario.
func (ce *CompareEngine) Compare(ctx context.Context, base domain.ScenarioConfig, options CompareOptions) (*ComparisonSet, error) {
	if len(options.Templates) == 0 {
		return nil, fmt.Errorf("no templates given")
	}

	alternatives := make([]domain.ScenarioConfig, 0, len(options.Templates))
	descriptions := make([]string, 0, len(options.Templates))
	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		alternatives = append(alternatives, modified)
		descriptions = append(descriptions, template.Description)
	}

	compSet, err := ce.CompareScenarios(ctx, base, alternatives)
	if err != nil {
		return nil, err
	}
	for i := range compSet.AlternativeResults {
		compSet.AlternativeResults[i].Description = descriptions[i]
	}
	compSet.ConfigPath = options.ConfigPath
	return compSet, nil
}

// CompareScenarios compares explicit scenarios against base. All runs execute
// concurrently; results keep the input order and the first failing run's
// error is returned.
func (ce *CompareEngine) CompareScenarios(ctx context.Context, base domain.ScenarioConfig, alternatives []domain.ScenarioConfig) (*ComparisonSet, error) {
	scenarios := make([]domain.ScenarioConfig, 0, len(alternatives)+1)
	scenarios = append(scenarios, base.Clone())
	for _, alt := range alternatives {
		scenarios = append(scenarios, alt.Clone())
	}

	results, err := ce.runAll(ctx, scenarios)
	if err != nil {
		return nil, err
	}

	baseResult := results[0]
	baseResult.Description = "Base scenario"

	alternativeResults := make([]ComparisonResult, 0, len(alternatives))
	for _, r := range results[1:] {
		alternativeResults = append(alternativeResults, ce.MetricsCalculator.CalculateComparison(r, baseResult))
	}

	compSet := &ComparisonSet{
		ID:                 uuid.New(),
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternativeResults,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) runAll(ctx context.Context, scenarios []domain.ScenarioConfig) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	for i := range scenarios {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			years, err := ce.CalcEngine.Simulate(scenarios[i])
			if err != nil {
				errs[i] = fmt.Errorf("failed to calculate scenario %s: %w", scenarios[i].Name, err)
				return
			}
			results[i] = ce.MetricsCalculator.CalculateMetrics(scenarios[i], years)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
