package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/parambatch/internal/document"
	"github.com/philipparndt/parambatch/internal/expression"
	"github.com/philipparndt/parambatch/internal/host"
	"github.com/philipparndt/parambatch/internal/models"
	"github.com/philipparndt/parambatch/internal/ui"
)

// DesignPrinter handles printing parameters and CAM details
type DesignPrinter struct{}

// NewDesignPrinter creates a new DesignPrinter
func NewDesignPrinter() *DesignPrinter {
	return &DesignPrinter{}
}

// FormatValue renders an evaluated parameter in its own unit
func FormatValue(p host.Parameter) string {
	factor, err := expression.Factor(p.Unit)
	if err != nil {
		return strconv.FormatFloat(p.Value, 'f', -1, 64)
	}
	return strconv.FormatFloat(p.Value/factor, 'f', -1, 64) + " " + p.Unit
}

// PrintParameters prints the parameter table, user parameters marked with *
func (p *DesignPrinter) PrintParameters(params []host.Parameter) {
	if len(params) == 0 {
		ui.PrintStep("No parameters")
		return
	}

	ui.PrintTableHeader("Name", "Unit", "Expression", "Value")
	for _, param := range params {
		name := param.Name
		if param.User {
			name += " *"
		}
		ui.PrintTableRow(name, param.Unit, param.Expression, FormatValue(param))
	}
}

// PrintOperations prints each operation with its toolpath state
func (p *DesignPrinter) PrintOperations(ops []host.Operation) {
	if len(ops) == 0 {
		ui.PrintStep("No operations")
		return
	}

	for idx, op := range ops {
		ui.PrintStep(fmt.Sprintf("%d. %s (%s)", idx+1, op.Name(), operationState(op)))

		detailed, ok := op.(*document.Operation)
		if !ok {
			continue
		}
		ui.PrintItem(describeOperation(detailed.Definition()))
		for _, w := range detailed.Warnings() {
			ui.PrintWarning(w)
		}
		if err := detailed.ToolpathError(); err != nil {
			ui.PrintError(err.Error())
		}
	}
}

func operationState(op host.Operation) string {
	switch {
	case !op.IsValid():
		return "invalid"
	case op.IsGenerating():
		return "generating"
	case op.HasToolpathError():
		return "toolpath error"
	case !op.IsToolpathComputed():
		return "not computed"
	case op.IsToolpathOutOfDate():
		return "out of date"
	default:
		return "up to date"
	}
}

func describeOperation(def models.OperationDef) string {
	parts := []string{def.Type, fmt.Sprintf("T%d", def.Tool)}
	if def.Stepdown > 0 {
		parts = append(parts, fmt.Sprintf("stepdown %g", def.Stepdown))
	}
	if def.Stepover > 0 {
		parts = append(parts, fmt.Sprintf("stepover %g", def.Stepover))
	}
	if def.Peck > 0 {
		parts = append(parts, fmt.Sprintf("peck %g", def.Peck))
	}
	parts = append(parts, fmt.Sprintf("F%g", def.Feed), fmt.Sprintf("S%g", def.RPM))
	return strings.Join(parts, ", ")
}

// PrintPrograms prints NC programs and the operations they post
func (p *DesignPrinter) PrintPrograms(programs []host.NCProgram) {
	if len(programs) == 0 {
		ui.PrintStep("No NC programs")
		return
	}

	for idx, prog := range programs {
		detailed, ok := prog.(*document.NCProgram)
		if !ok {
			ui.PrintStep(fmt.Sprintf("%d. %s", idx+1, prog.Name()))
			continue
		}
		def := detailed.Definition()
		ui.PrintStep(fmt.Sprintf("%d. %s (O%04d)", idx+1, prog.Name(), def.Number))
		for _, name := range def.Operations {
			ui.PrintItem(name)
		}
	}
}
