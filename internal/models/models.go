package models

// Required parameter keys every parameter set must carry
var RequiredParameters = []string{"height", "width", "thickness"}

// DefaultUnit is used when the batch file does not specify one
const DefaultUnit = "mm"

// ParameterSet is one named collection of values applied to the design
type ParameterSet struct {
	Name   string         `yaml:"name" json:"name"`
	Values map[string]any `yaml:"values" json:"values"`

	// DecodeErr is set when the entry could not be read as a parameter set.
	// The orchestrator reports it as that model's failure.
	DecodeErr error `yaml:"-" json:"-"`
}

// Missing returns the required parameter keys absent from the set, in canonical order
func (p ParameterSet) Missing() []string {
	var missing []string
	for _, key := range RequiredParameters {
		if _, ok := p.Values[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// BatchConfig is the decoded batch document
type BatchConfig struct {
	Source          string         `yaml:"-" json:"-"`
	Unit            string         `yaml:"unit" json:"unit"`
	OutputDirectory string         `yaml:"outputDirectory" json:"outputDirectory"`
	GCodeDirectory  string         `yaml:"gcodeDirectory,omitempty" json:"gcodeDirectory,omitempty"`
	NCProgramName   string         `yaml:"ncProgramName,omitempty" json:"ncProgramName,omitempty"`
	OperationName   string         `yaml:"operationName,omitempty" json:"operationName,omitempty"`
	Models          []ParameterSet `yaml:"models" json:"models"`
}

// CAMConfigured reports whether all three CAM fields are present
func (c *BatchConfig) CAMConfigured() bool {
	return c.GCodeDirectory != "" && c.NCProgramName != "" && c.OperationName != ""
}

// CAMPartial reports whether some, but not all, CAM fields are present
func (c *BatchConfig) CAMPartial() bool {
	some := c.GCodeDirectory != "" || c.NCProgramName != "" || c.OperationName != ""
	return some && !c.CAMConfigured()
}

// ModelOutcome records what happened to a single parameter set
type ModelOutcome struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	StepPath  string `json:"stepPath,omitempty"`
	STLPath   string `json:"stlPath,omitempty"`
	GCodePath string `json:"gcodePath,omitempty"`
	Skipped   bool   `json:"camSkipped,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether the model did not complete its pipeline
func (o ModelOutcome) Failed() bool {
	return o.Error != ""
}

// BatchResult is the aggregate outcome of a batch run
type BatchResult struct {
	RunID    string         `json:"runId"`
	Success  bool           `json:"success"`
	Messages []string       `json:"messages"`
	Outcomes []ModelOutcome `json:"models"`
}

// DesignFile is the YAML design document understood by the native host
type DesignFile struct {
	Name       string            `yaml:"name"`
	Unit       string            `yaml:"unit"`
	Parameters []DesignParameter `yaml:"parameters"`
	CAM        *CAMSetup         `yaml:"cam,omitempty"`
}

// DesignParameter is a named, unit-typed expression slot
type DesignParameter struct {
	Name       string `yaml:"name"`
	Unit       string `yaml:"unit"`
	Expression string `yaml:"expression"`
	Comment    string `yaml:"comment,omitempty"`
}

// CAMSetup describes the manufacture side of a design
type CAMSetup struct {
	Stock      Stock          `yaml:"stock"`
	Tools      []Tool         `yaml:"tools"`
	Operations []OperationDef `yaml:"operations"`
	Programs   []ProgramDef   `yaml:"programs"`
}

// Stock is the raw material around the part
type Stock struct {
	Offset float64 `yaml:"offset"`
}

type Tool struct {
	Number   int     `yaml:"number"`
	Name     string  `yaml:"name"`
	Diameter float64 `yaml:"diameter"`
}

// OperationDef is a CAM operation as written in the design file
type OperationDef struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Tool     int     `yaml:"tool"`
	Stepover float64 `yaml:"stepover,omitempty"`
	Stepdown float64 `yaml:"stepdown,omitempty"`
	Depth    float64 `yaml:"depth,omitempty"`
	Peck     float64 `yaml:"peck,omitempty"`
	Feed     float64 `yaml:"feed"`
	Plunge   float64 `yaml:"plunge,omitempty"`
	RPM      float64 `yaml:"rpm"`
}

// ProgramDef is an NC program grouping operations for posting
type ProgramDef struct {
	Name       string   `yaml:"name"`
	Number     int      `yaml:"number"`
	Comment    string   `yaml:"comment,omitempty"`
	Operations []string `yaml:"operations"`
}
