package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in strategy templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with the common conversion plans
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "no_conversion",
		Description: "Baseline: no Roth conversions",
		Transforms:  []ScenarioTransform{&NoConversion{}},
	})

	for _, amount := range []int64{25, 50} {
		registry.Register(Template{
			Name:        fmt.Sprintf("fixed_%dk", amount),
			Description: fmt.Sprintf("Convert $%d,000 every year", amount),
			Transforms:  []ScenarioTransform{&FixedConversion{Amount: decimal.NewFromInt(amount * 1000)}},
		})
	}

	for _, rate := range []int64{12, 22, 24} {
		registry.Register(Template{
			Name:        fmt.Sprintf("fill_%d", rate),
			Description: fmt.Sprintf("Fill the %d%% bracket every year", rate),
			Transforms:  []ScenarioTransform{&FillBracket{Rate: decimal.New(rate, -2)}},
		})
	}

	return registry
}

// ApplyTemplate applies a template to a base scenario and names the result after it
func ApplyTemplate(base domain.ScenarioConfig, template Template) (domain.ScenarioConfig, error) {
	out, err := ApplyTransforms(base, template.Transforms)
	if err != nil {
		return domain.ScenarioConfig{}, err
	}
	out.Name = template.Name
	return out, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, name := range registry.List() {
		t := registry.templates[name]
		sb.WriteString(fmt.Sprintf("  %-16s %s\n", t.Name, t.Description))
	}
	sb.WriteString("\nUsage:\n")
	sb.WriteString("  rothplan compare scenario.yaml --templates fill_12,fill_22\n")
	return sb.String()
}
