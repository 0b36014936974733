package transform

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
)

// ErrUnknownTransform is returned by the registry for an unregistered name
var ErrUnknownTransform = errors.New("unknown transform")

// ScenarioTransform defines the interface for all scenario transformations.
// Transforms are composable operations that derive a new scenario from a base,
// enabling strategy comparison, optimization and interactive switching.
type ScenarioTransform interface {
	// Apply returns a modified copy of base. base itself is never changed.
	Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error)

	// Name returns a short identifier for this transform (e.g., "fill_bracket").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters against base without applying them.
	Validate(base domain.ScenarioConfig) error
}

// ApplyTransforms applies a sequence of transforms to a base scenario.
// Transforms are applied in order, each receiving the output of the previous one.
// The result is always a fresh copy, even with no transforms.
func ApplyTransforms(base domain.ScenarioConfig, transforms []ScenarioTransform) (domain.ScenarioConfig, error) {
	current := base.Clone()

	for i, transform := range transforms {
		if transform == nil {
			return domain.ScenarioConfig{}, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return domain.ScenarioConfig{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return domain.ScenarioConfig{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
