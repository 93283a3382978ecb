package inspect

import (
	"fmt"
	"os"

	"github.com/philipparndt/parambatch/internal/config"
	"github.com/philipparndt/parambatch/internal/document"
	"github.com/philipparndt/parambatch/internal/ui"
)

// Inspector provides functionality to inspect design documents
type Inspector struct {
	loader  *config.Loader
	printer *DesignPrinter
}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{
		loader:  config.NewLoader(),
		printer: NewDesignPrinter(),
	}
}

// Inspect reads a design document and displays its parameters and CAM setup
func (i *Inspector) Inspect(filename string) error {
	// Check if file exists
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("file not found: %s", filename)
	}

	ui.PrintHeader(fmt.Sprintf("Inspecting: %s", filename))

	file, err := i.loader.LoadDesign(filename)
	if err != nil {
		return fmt.Errorf("error reading design file: %w", err)
	}

	// Parameters are evaluated without building geometry
	design, err := document.New(file, nil)
	if err != nil {
		return err
	}

	ui.PrintHighlight(design.Name())
	ui.PrintStep(fmt.Sprintf("Unit: %s", unitOrDefault(file.Unit)))

	ui.PrintHeader("Parameters:")
	i.printer.PrintParameters(design.Parameters())

	cam := design.Manufacture()
	if cam == nil {
		ui.PrintHeader("Manufacture:")
		ui.PrintStep("No CAM setup")
		return nil
	}

	ui.PrintHeader("Operations:")
	i.printer.PrintOperations(cam.Operations().All())

	ui.PrintHeader("NC Programs:")
	i.printer.PrintPrograms(cam.NCPrograms().All())

	return nil
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "mm (default)"
	}
	return unit
}
