package batch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/parambatch/internal/host"
	"github.com/philipparndt/parambatch/internal/models"
)

// BuildExpression turns a parameter value into a host expression. Numbers
// get the batch unit appended; anything else is passed through as text so
// expressions like "2 * height" reach the host unchanged.
func BuildExpression(value any, unit string) string {
	var number string
	switch v := value.(type) {
	case float64:
		number = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		number = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		number = strconv.Itoa(v)
	case int64:
		number = strconv.FormatInt(v, 10)
	case int32:
		number = strconv.FormatInt(int64(v), 10)
	case uint64:
		number = strconv.FormatUint(v, 10)
	default:
		return fmt.Sprint(value)
	}
	return number + " " + unit
}

// ApplyParameters writes the required parameters of one set to the design
// in a single atomic change, then regenerates the model.
func ApplyParameters(design host.Design, set models.ParameterSet, unit string) error {
	if missing := set.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParameters, strings.Join(missing, ", "))
	}

	changes := make([]host.ParameterChange, 0, len(models.RequiredParameters))
	for _, name := range models.RequiredParameters {
		changes = append(changes, host.ParameterChange{
			Name:       name,
			Unit:       unit,
			Expression: BuildExpression(set.Values[name], unit),
		})
	}

	if err := design.ApplyParameters(changes); err != nil {
		return fmt.Errorf("failed to apply parameters: %w", err)
	}
	if err := design.MoveTimelineToEnd(); err != nil {
		return fmt.Errorf("failed to regenerate model: %w", err)
	}
	return nil
}
