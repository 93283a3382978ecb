package batch

import (
	"testing"

	"github.com/philipparndt/parambatch/internal/host"
	"github.com/philipparndt/parambatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExpression(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		unit     string
		expected string
	}{
		{"float", 12.5, "mm", "12.5 mm"},
		{"whole float", 10.0, "mm", "10 mm"},
		{"int", 3, "in", "3 in"},
		{"int64", int64(7), "cm", "7 cm"},
		{"expression", "2 * height", "mm", "2 * height"},
		{"string with unit", "0.25 in", "mm", "0.25 in"},
		{"bool", true, "mm", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildExpression(tt.value, tt.unit))
		})
	}
}

func TestApplyParametersSingleChange(t *testing.T) {
	design := newFakeDesign()
	set := models.ParameterSet{
		Name:   "a",
		Values: map[string]any{"thickness": 3.0, "width": "2 * height", "height": 10.0, "extra": 1.0},
	}

	require.NoError(t, ApplyParameters(design, set, "mm"))
	require.Len(t, design.applied, 1)
	assert.Equal(t, []host.ParameterChange{
		{Name: "height", Unit: "mm", Expression: "10 mm"},
		{Name: "width", Unit: "mm", Expression: "2 * height"},
		{Name: "thickness", Unit: "mm", Expression: "3 mm"},
	}, design.applied[0])
	assert.Equal(t, 1, design.regenerated)
}

func TestApplyParametersMissing(t *testing.T) {
	design := newFakeDesign()
	err := ApplyParameters(design, models.ParameterSet{Values: map[string]any{"width": 1.0}}, "mm")
	assert.ErrorIs(t, err, ErrMissingParameters)
	assert.EqualError(t, err, "missing parameters: height, thickness")
	assert.Empty(t, design.applied)
	assert.Zero(t, design.regenerated)
}
