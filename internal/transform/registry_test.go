package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		name     string
		spec     string
		wantName string
		wantErr  string
	}{
		{name: "bare name", spec: "no_conversion", wantName: "no_conversion"},
		{name: "bare name with colon", spec: "compare_mfs:", wantName: "compare_mfs"},
		{name: "fixed", spec: "fixed_conversion:amount=40000", wantName: "fixed_conversion"},
		{name: "fixed with spouse", spec: "fixed_conversion:amount=40000, spouse_amount=10000", wantName: "fixed_conversion"},
		{name: "fill", spec: "fill_bracket:rate=0.22", wantName: "fill_bracket"},
		{name: "window", spec: "set_window:start=2026,end=2030", wantName: "set_window"},
		{name: "relocate", spec: "relocate:state=FL,year=2028", wantName: "relocate"},
		{name: "charitable", spec: "set_charitable:amount=5000,qcd=true,bunching=yes", wantName: "set_charitable"},
		{name: "delay ss", spec: "delay_ss:age=70", wantName: "delay_ss"},
		{name: "unknown", spec: "teleport:to=mars", wantErr: "unknown transform"},
		{name: "missing param", spec: "fill_bracket", wantErr: "requires 'rate'"},
		{name: "bad decimal", spec: "fixed_conversion:amount=lots", wantErr: "invalid amount"},
		{name: "bad pair", spec: "fill_bracket:0.22", wantErr: "key=value"},
		{name: "bad year", spec: "relocate:state=FL,year=soon", wantErr: "invalid year"},
		{name: "delay needs an age", spec: "delay_ss", wantErr: "requires 'age'"},
		{name: "empty", spec: ":rate=1", wantErr: "missing name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, tr.Name())
		})
	}
}

func TestParseTransformSpec_UnknownIsSentinel(t *testing.T) {
	_, err := NewTransformRegistry().ParseTransformSpec("nope")
	assert.ErrorIs(t, err, ErrUnknownTransform)
}

func TestParseTransformSpecs_AppliesInOrder(t *testing.T) {
	registry := NewTransformRegistry()
	transforms, err := registry.ParseTransformSpecs([]string{"fixed_conversion:amount=10000", "fill_bracket:rate=0.24"})
	require.NoError(t, err)

	out, err := ApplyTransforms(baseScenario(), transforms)
	require.NoError(t, err)
	assert.Equal(t, "fill_bracket", string(out.Strategy.Kind))
	assert.Equal(t, "0.24", out.Strategy.TargetBracket.String())
}

func TestRegistryList(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Contains(t, names, "fill_bracket")
	assert.Contains(t, names, "set_charitable")
	assert.IsIncreasing(t, names)
}
