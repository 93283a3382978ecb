// Package document is the native CAD host: a parametric block design with
// an expression-driven parameter table, a regeneration timeline backed by a
// geometry kernel, STEP export and a CAM product.
package document

import (
	"fmt"
	"os"
	"sync"

	"github.com/philipparndt/parambatch/internal/config"
	"github.com/philipparndt/parambatch/internal/host"
	"github.com/philipparndt/parambatch/internal/models"
	"github.com/philipparndt/parambatch/internal/toolpath"
)

// Geometry is the set of dimensions the kernel builds a solid from (mm)
type Geometry struct {
	Width        float64
	Height       float64
	Thickness    float64
	HoleDiameter float64
	FilletRadius float64
}

// Solid is a regenerated model ready for export
type Solid interface {
	ExportSTEP(path string) error
	ExportSTL(path string) error
}

// Kernel builds solids from geometry
type Kernel interface {
	Regenerate(g Geometry) (Solid, error)
}

// Design is a parametric document. It is safe for use by the batch loop and
// the CAM generation goroutines at the same time.
type Design struct {
	mu sync.RWMutex

	name   string
	unit   string
	kernel Kernel
	table  *parameterTable

	revision int
	built    int
	solid    Solid

	cam *CAM
}

// New builds a design from a parsed design file
func New(file *models.DesignFile, kernel Kernel) (*Design, error) {
	unit := file.Unit
	if unit == "" {
		unit = models.DefaultUnit
	}

	table := &parameterTable{}
	for _, p := range file.Parameters {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter name is required")
		}
		if table.index(p.Name) >= 0 {
			return nil, fmt.Errorf("duplicate parameter %s", p.Name)
		}
		pu := p.Unit
		if pu == "" {
			pu = unit
		}
		table.params = append(table.params, parameter{
			name:       p.Name,
			unit:       pu,
			expression: p.Expression,
			comment:    p.Comment,
		})
	}
	if err := table.evaluate(); err != nil {
		return nil, fmt.Errorf("invalid design parameters: %w", err)
	}

	d := &Design{
		name:     file.Name,
		unit:     unit,
		kernel:   kernel,
		table:    table,
		revision: 1,
	}

	if file.CAM != nil {
		cam, err := newCAM(d, file.CAM)
		if err != nil {
			return nil, err
		}
		d.cam = cam
	}

	return d, nil
}

// Open loads a design document from disk
func Open(path string, kernel Kernel) (*Design, error) {
	file, err := config.NewLoader().LoadDesign(path)
	if err != nil {
		return nil, err
	}
	return New(file, kernel)
}

func (d *Design) Name() string {
	return d.name
}

func (d *Design) Parameters() []host.Parameter {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]host.Parameter, 0, len(d.table.params))
	for _, p := range d.table.params {
		out = append(out, host.Parameter{
			Name:       p.name,
			Unit:       p.unit,
			Expression: p.expression,
			Value:      d.table.value(p.name),
			User:       p.user,
			Comment:    p.comment,
		})
	}
	return out
}

// ApplyParameters stages all changes and commits them only if the whole
// table still evaluates.
func (d *Design) ApplyParameters(changes []host.ParameterChange) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	staged := d.table.clone()
	for _, c := range changes {
		unit := c.Unit
		if unit == "" {
			unit = d.unit
		}
		staged.set(c.Name, unit, c.Expression)
	}
	if err := staged.evaluate(); err != nil {
		return err
	}

	d.table = staged
	d.revision++
	return nil
}

// Revision increments on every committed parameter change
func (d *Design) Revision() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

func (d *Design) geometry() Geometry {
	return Geometry{
		Width:        d.table.value("width"),
		Height:       d.table.value("height"),
		Thickness:    d.table.value("thickness"),
		HoleDiameter: d.table.value("holeDiameter"),
		FilletRadius: d.table.value("filletRadius"),
	}
}

// Block returns the current dimensions as seen by CAM, with the revision they belong to
func (d *Design) Block() (toolpath.Block, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	g := d.geometry()
	return toolpath.Block{
		Width:        g.Width,
		Height:       g.Height,
		Thickness:    g.Thickness,
		HoleDiameter: g.HoleDiameter,
	}, d.revision
}

func (d *Design) MoveTimelineToEnd() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regenerate()
}

// regenerate rebuilds the solid if parameters changed since the last build.
// Callers hold the write lock.
func (d *Design) regenerate() error {
	if d.solid != nil && d.built == d.revision {
		return nil
	}
	g := d.geometry()
	if g.Width <= 0 || g.Height <= 0 || g.Thickness <= 0 {
		return fmt.Errorf("cannot regenerate %s: width, height and thickness must be positive (got %g x %g x %g)",
			d.name, g.Width, g.Height, g.Thickness)
	}
	solid, err := d.kernel.Regenerate(g)
	if err != nil {
		return fmt.Errorf("regeneration failed: %w", err)
	}
	d.solid = solid
	d.built = d.revision
	return nil
}

func (d *Design) ExportSTEP(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.regenerate(); err != nil {
		return err
	}
	if err := d.solid.ExportSTEP(path); err != nil {
		return fmt.Errorf("STEP export failed: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("STEP export did not produce %s: %w", path, err)
	}
	return nil
}

func (d *Design) ExportSTL(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.regenerate(); err != nil {
		return err
	}
	if err := d.solid.ExportSTL(path); err != nil {
		return fmt.Errorf("STL export failed: %w", err)
	}
	return nil
}

// Manufacture returns the CAM product, or nil when the design has none
func (d *Design) Manufacture() *CAM {
	return d.cam
}
