package batch

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/philipparndt/parambatch/internal/host"
)

// fakeApp is an in-memory host whose CAM product loads with the
// manufacture workspace, like the real hosts do.
type fakeApp struct {
	mu          sync.Mutex
	design      *fakeDesign
	cam         *fakeCAM
	active      string
	camLoaded   bool
	activations []string
	panicOnOpen bool
}

func newFakeApp(d *fakeDesign, cam *fakeCAM) *fakeApp {
	return &fakeApp{design: d, cam: cam, active: host.WorkspaceDesign}
}

func (a *fakeApp) ActiveDesign() (host.Design, bool) {
	if a.panicOnOpen {
		panic("host crashed")
	}
	if a.design == nil {
		return nil, false
	}
	return a.design, true
}

func (a *fakeApp) ActiveWorkspace() host.Workspace {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &fakeWorkspace{id: a.active, app: a}
}

func (a *fakeApp) Workspace(id string) (host.Workspace, bool) {
	return &fakeWorkspace{id: id, app: a}, true
}

func (a *fakeApp) CAM() (host.CAM, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cam == nil || !a.camLoaded {
		return nil, false
	}
	return a.cam, true
}

func (a *fakeApp) activeID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

type fakeWorkspace struct {
	id  string
	app *fakeApp
}

func (w *fakeWorkspace) ID() string {
	return w.id
}

func (w *fakeWorkspace) Activate() error {
	w.app.mu.Lock()
	defer w.app.mu.Unlock()
	if w.id == host.WorkspaceManufacture {
		w.app.camLoaded = true
	}
	w.app.active = w.id
	w.app.activations = append(w.app.activations, w.id)
	return nil
}

// fakeDesign keeps parameters as plain expressions and writes marker files
type fakeDesign struct {
	name        string
	params      map[string]string
	applied     [][]host.ParameterChange
	regenerated int
	exports     []string
	rejectExpr  string
	panicExpr   string
	exportErr   error
}

func newFakeDesign() *fakeDesign {
	return &fakeDesign{
		name: "bracket",
		params: map[string]string{
			"height":    "40 mm",
			"width":     "60 mm",
			"thickness": "6 mm",
		},
	}
}

func (d *fakeDesign) Name() string {
	return d.name
}

func (d *fakeDesign) Parameters() []host.Parameter {
	var out []host.Parameter
	for name, expr := range d.params {
		out = append(out, host.Parameter{Name: name, Expression: expr})
	}
	return out
}

func (d *fakeDesign) ApplyParameters(changes []host.ParameterChange) error {
	for _, c := range changes {
		if d.panicExpr != "" && c.Expression == d.panicExpr {
			panic("parameter engine crashed")
		}
		if d.rejectExpr != "" && strings.Contains(c.Expression, d.rejectExpr) {
			return errors.New("cannot evaluate " + c.Expression)
		}
	}
	d.applied = append(d.applied, changes)
	for _, c := range changes {
		d.params[c.Name] = c.Expression
	}
	return nil
}

func (d *fakeDesign) MoveTimelineToEnd() error {
	d.regenerated++
	return nil
}

func (d *fakeDesign) ExportSTEP(path string) error {
	if d.exportErr != nil {
		return d.exportErr
	}
	d.exports = append(d.exports, path)
	return os.WriteFile(path, []byte("ISO-10303-21;\n"), 0644)
}

func (d *fakeDesign) ExportSTL(path string) error {
	return os.WriteFile(path, []byte("solid\n"), 0644)
}

type fakeCAM struct {
	operations []*fakeOperation
	programs   []*fakeProgram
}

func (c *fakeCAM) Operations() host.Operations {
	return fakeOperations(c.operations)
}

func (c *fakeCAM) NCPrograms() host.NCPrograms {
	return fakePrograms(c.programs)
}

type fakeOperations []*fakeOperation

func (l fakeOperations) Lookup(name string) (host.Operation, bool) {
	for _, op := range l {
		if op.name == name {
			return op, true
		}
	}
	return nil, false
}

func (l fakeOperations) All() []host.Operation {
	out := make([]host.Operation, len(l))
	for i, op := range l {
		out[i] = op
	}
	return out
}

type fakePrograms []*fakeProgram

func (l fakePrograms) Lookup(name string) (host.NCProgram, bool) {
	for _, p := range l {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

func (l fakePrograms) All() []host.NCProgram {
	out := make([]host.NCProgram, len(l))
	for i, p := range l {
		out[i] = p
	}
	return out
}

// fakeOperation completes immediately unless hangs is positive, in which
// case that many generations never finish.
type fakeOperation struct {
	mu          sync.Mutex
	name        string
	invalid     bool
	computed    bool
	outOfDate   bool
	warning     bool
	failed      bool
	failAfter   bool
	startErr    error
	hangs       int
	generations int
}

func newFakeOperation(name string) *fakeOperation {
	return &fakeOperation{name: name}
}

func (o *fakeOperation) Name() string { return o.name }

func (o *fakeOperation) IsValid() bool { return !o.invalid }

func (o *fakeOperation) IsToolpathComputed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.computed
}

func (o *fakeOperation) IsToolpathOutOfDate() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outOfDate
}

func (o *fakeOperation) HasToolpathWarning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.warning
}

func (o *fakeOperation) HasToolpathError() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failed
}

func (o *fakeOperation) IsGenerating() bool { return false }

func (o *fakeOperation) GenerateToolpath() (<-chan struct{}, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.startErr != nil {
		return nil, o.startErr
	}
	o.generations++
	done := make(chan struct{})
	if o.hangs > 0 {
		o.hangs--
		return done, nil
	}
	o.computed = true
	o.outOfDate = false
	o.warning = false
	o.failed = o.failAfter
	close(done)
	return done, nil
}

func (o *fakeOperation) generationCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generations
}

type fakeProgram struct {
	name    string
	postErr error
	posted  []string
}

func (p *fakeProgram) Name() string { return p.name }

func (p *fakeProgram) PostToFile(path string) error {
	if p.postErr != nil {
		return p.postErr
	}
	p.posted = append(p.posted, path)
	return os.WriteFile(path, []byte("%\nM30\n%\n"), 0644)
}
