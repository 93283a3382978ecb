package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/philipparndt/parambatch/internal/gcode"
	"github.com/philipparndt/parambatch/internal/host"
	"github.com/philipparndt/parambatch/internal/models"
	"github.com/philipparndt/parambatch/internal/toolpath"
)

// safeHeight is the retract plane above the stock top
const safeHeight = 5.0

type generator func(toolpath.Block, toolpath.Params) (*toolpath.Toolpath, error)

var generators = map[string]generator{
	"facing":  toolpath.Facing,
	"contour": toolpath.Contour,
	"drill":   toolpath.Drill,
}

// CAM is the manufacture product of a design
type CAM struct {
	operations []*Operation
	programs   []*NCProgram
}

func newCAM(d *Design, setup *models.CAMSetup) (*CAM, error) {
	tools := make(map[int]models.Tool, len(setup.Tools))
	for _, t := range setup.Tools {
		tools[t.Number] = t
	}

	cam := &CAM{}
	byName := make(map[string]*Operation)
	for _, def := range setup.Operations {
		if def.Name == "" {
			return nil, fmt.Errorf("operation name is required")
		}
		if _, dup := byName[def.Name]; dup {
			return nil, fmt.Errorf("duplicate operation %s", def.Name)
		}
		op := &Operation{
			def:      def,
			design:   d,
			stock:    setup.Stock.Offset,
			computed: -1,
		}
		op.tool, op.hasTool = tools[def.Tool]
		op.generate = generators[strings.ToLower(def.Type)]
		cam.operations = append(cam.operations, op)
		byName[def.Name] = op
	}

	for _, def := range setup.Programs {
		if def.Name == "" {
			return nil, fmt.Errorf("NC program name is required")
		}
		prog := &NCProgram{def: def}
		for _, name := range def.Operations {
			op, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("NC program %s references unknown operation %s", def.Name, name)
			}
			prog.operations = append(prog.operations, op)
		}
		cam.programs = append(cam.programs, prog)
	}

	return cam, nil
}

func (c *CAM) Operations() host.Operations {
	return operationList(c.operations)
}

func (c *CAM) NCPrograms() host.NCPrograms {
	return programList(c.programs)
}

type operationList []*Operation

func (l operationList) Lookup(name string) (host.Operation, bool) {
	for _, op := range l {
		if op.Name() == name {
			return op, true
		}
	}
	return nil, false
}

func (l operationList) All() []host.Operation {
	out := make([]host.Operation, len(l))
	for i, op := range l {
		out[i] = op
	}
	return out
}

type programList []*NCProgram

func (l programList) Lookup(name string) (host.NCProgram, bool) {
	for _, p := range l {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

func (l programList) All() []host.NCProgram {
	out := make([]host.NCProgram, len(l))
	for i, p := range l {
		out[i] = p
	}
	return out
}

// Operation computes its toolpath in the background against a snapshot of the
// design's dimensions.
type Operation struct {
	def      models.OperationDef
	design   *Design
	tool     models.Tool
	hasTool  bool
	stock    float64
	generate generator

	mu         sync.Mutex
	generating bool
	done       chan struct{}
	computed   int // design revision of the last generation, -1 if never
	path       *toolpath.Toolpath
	err        error
}

func (o *Operation) Name() string {
	return o.def.Name
}

func (o *Operation) Definition() models.OperationDef {
	return o.def
}

// IsValid reports whether the operation references a known tool and strategy
func (o *Operation) IsValid() bool {
	return o.hasTool && o.generate != nil
}

func (o *Operation) IsToolpathComputed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.computed >= 0
}

func (o *Operation) IsToolpathOutOfDate() bool {
	o.mu.Lock()
	computed := o.computed
	o.mu.Unlock()
	return computed >= 0 && computed != o.design.Revision()
}

func (o *Operation) HasToolpathWarning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.path != nil && len(o.path.Warnings) > 0
}

func (o *Operation) HasToolpathError() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err != nil
}

func (o *Operation) IsGenerating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}

// ToolpathError returns the failure of the last generation
func (o *Operation) ToolpathError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Warnings returns the warnings of the last generation
func (o *Operation) Warnings() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.path == nil {
		return nil
	}
	return append([]string(nil), o.path.Warnings...)
}

func (o *Operation) params() toolpath.Params {
	return toolpath.Params{
		ToolDiameter: o.tool.Diameter,
		Stepover:     o.def.Stepover,
		Stepdown:     o.def.Stepdown,
		Depth:        o.def.Depth,
		Peck:         o.def.Peck,
		Feed:         o.def.Feed,
		Plunge:       o.def.Plunge,
		SafeZ:        o.stock + safeHeight,
		StockOffset:  o.stock,
	}
}

func (o *Operation) GenerateToolpath() (<-chan struct{}, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("operation %s has no valid tool or strategy", o.def.Name)
	}

	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return nil, fmt.Errorf("operation %s is already generating", o.def.Name)
	}
	done := make(chan struct{})
	o.generating = true
	o.done = done
	o.mu.Unlock()

	block, revision := o.design.Block()
	params := o.params()

	go func() {
		defer close(done)
		path, err := o.generate(block, params)

		o.mu.Lock()
		defer o.mu.Unlock()
		o.path = path
		o.err = err
		o.computed = revision
		o.generating = false
	}()

	return done, nil
}

// ready returns a postable toolpath. Stale or missing toolpaths are
// regenerated and in-flight generations are awaited.
func (o *Operation) ready() (*toolpath.Toolpath, error) {
	o.mu.Lock()
	generating, done := o.generating, o.done
	o.mu.Unlock()
	if generating {
		<-done
	}

	if !o.IsToolpathComputed() || o.IsToolpathOutOfDate() {
		done, err := o.GenerateToolpath()
		if err != nil {
			return nil, err
		}
		<-done
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, fmt.Errorf("toolpath for %s has errors: %w", o.def.Name, o.err)
	}
	return o.path, nil
}

// NCProgram posts its operations, in order, into one G-code file
type NCProgram struct {
	def        models.ProgramDef
	operations []*Operation
}

func (p *NCProgram) Name() string {
	return p.def.Name
}

func (p *NCProgram) Definition() models.ProgramDef {
	return p.def
}

// PostToFile writes the program to a temporary file next to path and renames
// it into place. Stale toolpaths are regenerated first.
func (p *NCProgram) PostToFile(path string) error {
	if len(p.operations) == 0 {
		return fmt.Errorf("NC program %s has no operations", p.def.Name)
	}

	paths := make([]*toolpath.Toolpath, len(p.operations))
	for i, op := range p.operations {
		tp, err := op.ready()
		if err != nil {
			return err
		}
		paths[i] = tp
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".post-*.nc")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	comment := p.def.Comment
	if comment == "" {
		comment = p.def.Name
	}
	w := gcode.NewWriter(tmp, &gcode.Config{
		ProgramNumber: p.def.Number,
		Comment:       comment,
		SafeZ:         p.operations[0].params().SafeZ,
	})
	w.Preamble()
	for i, op := range p.operations {
		w.Comment(op.def.Name)
		w.ToolChange(op.tool.Number, op.def.RPM)
		w.Path(paths[i])
	}
	w.Postamble()

	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move program into place: %w", err)
	}
	return nil
}
