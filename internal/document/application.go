package document

import (
	"fmt"
	"sync"

	"github.com/philipparndt/parambatch/internal/host"
)

// Application hosts at most one open design and tracks the active workspace.
// The CAM product becomes available once the manufacture workspace has been
// activated in this session.
type Application struct {
	mu        sync.Mutex
	design    *Design
	active    string
	camLoaded bool
}

// NewApplication opens the given design in the design workspace. A nil design
// gives an application without an active document.
func NewApplication(d *Design) *Application {
	return &Application{design: d, active: host.WorkspaceDesign}
}

func (a *Application) ActiveDesign() (host.Design, bool) {
	if a.design == nil {
		return nil, false
	}
	return a.design, true
}

func (a *Application) ActiveWorkspace() host.Workspace {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &workspace{id: a.active, app: a}
}

func (a *Application) Workspace(id string) (host.Workspace, bool) {
	switch id {
	case host.WorkspaceDesign, host.WorkspaceManufacture:
		return &workspace{id: id, app: a}, true
	default:
		return nil, false
	}
}

func (a *Application) CAM() (host.CAM, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.design == nil || a.design.cam == nil || !a.camLoaded {
		return nil, false
	}
	return a.design.cam, true
}

type workspace struct {
	id  string
	app *Application
}

func (w *workspace) ID() string {
	return w.id
}

func (w *workspace) Activate() error {
	w.app.mu.Lock()
	defer w.app.mu.Unlock()

	if w.id == host.WorkspaceManufacture {
		if w.app.design == nil {
			return fmt.Errorf("no document open")
		}
		w.app.camLoaded = true
	}
	w.app.active = w.id
	return nil
}
