package inspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/parambatch/internal/host"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		param    host.Parameter
		expected string
	}{
		{host.Parameter{Unit: "mm", Value: 12.5}, "12.5 mm"},
		{host.Parameter{Unit: "in", Value: 50.8}, "2 in"},
		{host.Parameter{Unit: "", Value: 3}, "3"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.param); got != tt.expected {
			t.Errorf("FormatValue(%v) = %q, expected %q", tt.param, got, tt.expected)
		}
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.yaml")
	content := `name: bracket
parameters:
  - { name: height, expression: "40 mm" }
  - { name: width, expression: "2 * height" }
  - { name: thickness, expression: "6 mm" }
cam:
  tools:
    - { number: 1, name: "6mm flat", diameter: 6 }
  operations:
    - { name: "Contour1", type: contour, tool: 1, stepdown: 2, feed: 600, rpm: 12000 }
  programs:
    - { name: "NCProgram1", number: 1001, operations: ["Contour1"] }
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write design: %v", err)
	}

	if err := NewInspector().Inspect(path); err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if err := NewInspector().Inspect(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}
