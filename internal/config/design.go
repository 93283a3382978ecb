package config

import (
	"fmt"
	"os"

	"github.com/philipparndt/parambatch/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadDesign reads and validates a YAML design document
func (l *Loader) LoadDesign(path string) (*models.DesignFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read design file: %w", err)
	}

	var design models.DesignFile
	if err := yaml.Unmarshal(data, &design); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if err := l.ValidateDesign(&design); err != nil {
		return nil, fmt.Errorf("invalid design: %w", err)
	}
	return &design, nil
}

// ValidateDesign checks the structural rules of a design document.
// Expression errors are reported when the host evaluates the parameters.
func (l *Loader) ValidateDesign(design *models.DesignFile) error {
	if design.Name == "" {
		return fmt.Errorf("name is required")
	}

	seen := make(map[string]bool)
	for i, p := range design.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter %d: name is required", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("parameter %s is defined twice", p.Name)
		}
		seen[p.Name] = true
		if p.Expression == "" {
			return fmt.Errorf("parameter %s: expression is required", p.Name)
		}
	}

	if design.CAM == nil {
		return nil
	}

	// Operations may reference missing tools; the host reports them as invalid
	for _, t := range design.CAM.Tools {
		if t.Number <= 0 {
			return fmt.Errorf("tool %q: number must be positive", t.Name)
		}
		if t.Diameter <= 0 {
			return fmt.Errorf("tool %d: diameter must be positive", t.Number)
		}
	}

	for _, op := range design.CAM.Operations {
		if op.Name == "" {
			return fmt.Errorf("operation name is required")
		}
		switch op.Type {
		case "facing", "contour", "drill":
		default:
			return fmt.Errorf("operation %s: unknown type %q (facing, contour, drill)", op.Name, op.Type)
		}
	}

	for _, prog := range design.CAM.Programs {
		if prog.Name == "" {
			return fmt.Errorf("NC program name is required")
		}
		if prog.Number < 0 || prog.Number > 9999 {
			return fmt.Errorf("NC program %s: number must be 0-9999", prog.Name)
		}
	}

	return nil
}
