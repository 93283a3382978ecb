package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	env := map[string]float64{
		"height": 20,
		"width":  50,
		"h2m":    3,
	}

	tests := []struct {
		name     string
		source   string
		unit     string
		expected float64
	}{
		{"plain millimetres", "10 mm", "mm", 10},
		{"centimetres", "1.5 cm", "mm", 15},
		{"inches", "1 in", "mm", 25.4},
		{"bare number uses default unit", "2", "in", 50.8},
		{"reference", "2 * height", "mm", 40},
		{"mixed units", "(width + 1 cm) / 2", "mm", 30},
		{"no space before unit", "3mm", "mm", 3},
		{"leading decimal point", ".5 in", "mm", 12.7},
		{"identifier ending in a unit", "h2m * 2", "mm", 6},
		{"sum of bare numbers uses default unit", "10 + 0", "in", 254},
		{"bare term added to reference", "width + 2", "in", 100.8},
		{"bare term added to quantity", "10 mm + 1", "in", 35.4},
		{"signed bare term", "-1 + 3", "in", 50.8},
		{"parenthesised bare number", "(10)", "in", 254},
		{"factor stays dimensionless", "2 * height", "in", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.source, tt.unit, env)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	env := map[string]float64{"height": 20}

	tests := []struct {
		name   string
		source string
		unit   string
	}{
		{"empty", "  ", "mm"},
		{"unknown reference", "depth * 2", "mm"},
		{"unknown unit", "4", "parsec"},
		{"syntax", "2 * (height", "mm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.source, tt.unit, env)
			assert.Error(t, err)
		})
	}
}

func TestToMillimetres(t *testing.T) {
	assert.Equal(t, "(2 * 25.4) + (3 * 1)", ToMillimetres("2 in + 3 mm"))
	assert.Equal(t, "height * 2", ToMillimetres("height * 2"))
	assert.Equal(t, "h2m * 2", ToMillimetres("h2m * 2"))
	assert.Equal(t, "(0.5 * 25.4)", ToMillimetres(".5 in"))
	assert.Equal(t, "max((1 * 1000), x)", ToMillimetres("max(1m, x)"))
}

func TestReferences(t *testing.T) {
	refs := References("width / 6 + height", []string{"height", "width", "thickness", "widthTwo"})
	assert.Equal(t, []string{"height", "width"}, refs)

	refs = References("10 mm + h2m", []string{"m", "h2m", "mm"})
	assert.Equal(t, []string{"h2m"}, refs)

	assert.Empty(t, References("2 * (height", []string{"height"}))
}
