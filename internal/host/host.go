// Package host describes the CAD application the batch driver talks to.
// Everything behind these interfaces belongs to the host: documents, the
// parameter engine, regeneration, STEP export and the CAM product.
package host

// Workspace identifiers understood by every host
const (
	WorkspaceDesign      = "design"
	WorkspaceManufacture = "manufacture"
)

// Application is the always-available host singleton
type Application interface {
	// ActiveDesign returns the open design, or false when none is open
	ActiveDesign() (Design, bool)
	ActiveWorkspace() Workspace
	Workspace(id string) (Workspace, bool)
	// CAM returns the manufacture product of the active document. Hosts may
	// only expose it once the manufacture workspace has been activated.
	CAM() (CAM, bool)
}

type Workspace interface {
	ID() string
	Activate() error
}

// ParameterChange is one staged write to a model parameter
type ParameterChange struct {
	Name       string
	Unit       string
	Expression string
}

// Parameter is a host-owned, unit-typed expression slot
type Parameter struct {
	Name       string
	Unit       string
	Expression string
	Value      float64
	User       bool
	Comment    string
}

// Design is a parametric model document
type Design interface {
	Name() string
	Parameters() []Parameter
	// ApplyParameters updates existing parameters or creates user
	// parameters. Either all changes are committed or none are.
	ApplyParameters(changes []ParameterChange) error
	// MoveTimelineToEnd regenerates the model at the end of its history
	MoveTimelineToEnd() error
	ExportSTEP(path string) error
}

// STLExporter is implemented by designs that can also write meshes
type STLExporter interface {
	ExportSTL(path string) error
}

// CAM is the manufacture product of a document
type CAM interface {
	Operations() Operations
	NCPrograms() NCPrograms
}

type Operations interface {
	// Lookup finds an operation by its exact name
	Lookup(name string) (Operation, bool)
	// All lists operations in the host's native order
	All() []Operation
}

type NCPrograms interface {
	Lookup(name string) (NCProgram, bool)
	All() []NCProgram
}

// Operation is a CAM operation whose toolpath may need regeneration
type Operation interface {
	Name() string
	IsValid() bool
	IsToolpathComputed() bool
	IsToolpathOutOfDate() bool
	HasToolpathWarning() bool
	HasToolpathError() bool
	IsGenerating() bool
	// GenerateToolpath starts regeneration and returns a channel closed on
	// completion. An error means the host refused to start.
	GenerateToolpath() (<-chan struct{}, error)
}

// NCProgram posts a set of operations as G-code
type NCProgram interface {
	Name() string
	PostToFile(path string) error
}
