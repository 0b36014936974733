package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	// conversion strategy
	registry.Register("no_conversion", func(map[string]string) (ScenarioTransform, error) { return &NoConversion{}, nil })
	registry.Register("fixed_conversion", createFixedConversion)
	registry.Register("fill_bracket", createFillBracket)
	registry.Register("set_allocation", createSetAllocation)
	registry.Register("set_window", createSetWindow)

	// assumptions and household
	registry.Register("set_return", createSetReturn)
	registry.Register("relocate", createRelocate)
	registry.Register("set_charitable", createSetCharitable)
	registry.Register("compare_mfs", func(map[string]string) (ScenarioTransform, error) { return &CompareMFS{}, nil })
	registry.Register("delay_ss", createDelaySSClaim)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransform, name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name" or "transform_name:param1=value1,param2=value2"
// Example: "fill_bracket:rate=0.22"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec %q: missing name", spec)
	}

	params := make(map[string]string)
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		for _, paramPair := range strings.Split(parts[1], ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses every spec in order
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]ScenarioTransform, error) {
	out := make([]ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Factory functions for each transform

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	s, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func optionalInt(params map[string]string, key string) (int, error) {
	s, ok := params[key]
	if !ok || s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func boolParam(params map[string]string, key string) bool {
	switch strings.ToLower(params[key]) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func createFixedConversion(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("fixed_conversion", params, "amount")
	if err != nil {
		return nil, err
	}
	fc := &FixedConversion{Amount: amount}
	if _, ok := params["spouse_amount"]; ok {
		spouse, err := decimalParam("fixed_conversion", params, "spouse_amount")
		if err != nil {
			return nil, err
		}
		fc.SpouseAmount = &spouse
	}
	return fc, nil
}

func createFillBracket(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("fill_bracket", params, "rate")
	if err != nil {
		return nil, err
	}
	return &FillBracket{Rate: rate}, nil
}

func createSetAllocation(params map[string]string) (ScenarioTransform, error) {
	mode, err := requireParam("set_allocation", params, "mode")
	if err != nil {
		return nil, err
	}
	return &SetAllocation{Mode: domain.AllocationMode(strings.ToLower(mode))}, nil
}

func createSetWindow(params map[string]string) (ScenarioTransform, error) {
	start, err := optionalInt(params, "start")
	if err != nil {
		return nil, err
	}
	end, err := optionalInt(params, "end")
	if err != nil {
		return nil, err
	}
	return &SetWindow{Start: start, End: end}, nil
}

func createSetReturn(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_return", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetReturn{Rate: rate}, nil
}

func createRelocate(params map[string]string) (ScenarioTransform, error) {
	state, err := requireParam("relocate", params, "state")
	if err != nil {
		return nil, err
	}
	if _, err := requireParam("relocate", params, "year"); err != nil {
		return nil, err
	}
	year, err := optionalInt(params, "year")
	if err != nil {
		return nil, err
	}
	return &Relocate{State: state, Year: year}, nil
}

func createSetCharitable(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_charitable", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetCharitable{
		Amount:   amount,
		UseQCD:   boolParam(params, "qcd"),
		Bunching: boolParam(params, "bunching"),
	}, nil
}

func createDelaySSClaim(params map[string]string) (ScenarioTransform, error) {
	age, err := optionalInt(params, "age")
	if err != nil {
		return nil, err
	}
	spouseAge, err := optionalInt(params, "spouse_age")
	if err != nil {
		return nil, err
	}
	if age == 0 && spouseAge == 0 {
		return nil, fmt.Errorf("delay_ss requires 'age' or 'spouse_age' parameter")
	}
	return &DelaySSClaim{Age: age, SpouseAge: spouseAge}, nil
}
