package batch

import (
	"context"
	"fmt"

	"github.com/philipparndt/parambatch/internal/host"
	"github.com/philipparndt/parambatch/internal/models"
	"github.com/rs/zerolog"
)

// Step is a single stage of the per-model pipeline
type Step interface {
	Name() string
	Execute(ctx context.Context, run *modelRun) error
}

// modelRun holds shared data between the steps of one model
type modelRun struct {
	app       host.Application
	design    host.Design
	config    *models.BatchConfig
	set       models.ParameterSet
	cam       *CAMDriver
	workspace host.Workspace
	log       zerolog.Logger

	outcome  models.ModelOutcome
	messages []string
}

func (r *modelRun) addMessage(format string, args ...any) {
	r.messages = append(r.messages, r.set.Name+": "+fmt.Sprintf(format, args...))
}

// plan returns the steps for one model. CAM posting is an optional last
// stage; a partial CAM configuration turns it into a skip notice.
func (r *Runner) plan(cfg *models.BatchConfig) []Step {
	steps := []Step{&ApplyParametersStep{}, &ExportStepStep{}}
	if r.ExportSTL {
		steps = append(steps, &ExportMeshStep{})
	}
	switch {
	case cfg.CAMConfigured():
		steps = append(steps, &PostGCodeStep{})
	case cfg.CAMPartial():
		steps = append(steps, &SkipGCodeStep{})
	}
	return steps
}

// ApplyParametersStep writes height, width and thickness and regenerates
type ApplyParametersStep struct{}

func (s *ApplyParametersStep) Name() string {
	return "Apply parameters"
}

func (s *ApplyParametersStep) Execute(ctx context.Context, run *modelRun) error {
	if run.set.DecodeErr != nil {
		return run.set.DecodeErr
	}
	return ApplyParameters(run.design, run.set, run.config.Unit)
}

// ExportStepStep writes the STEP file
type ExportStepStep struct{}

func (s *ExportStepStep) Name() string {
	return "Export STEP"
}

func (s *ExportStepStep) Execute(ctx context.Context, run *modelRun) error {
	path, err := ExportModel(run.design, run.config.OutputDirectory, run.set.Name)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	run.outcome.StepPath = path
	run.addMessage("Exported to %s", path)
	return nil
}

// ExportMeshStep writes an STL next to the STEP file
type ExportMeshStep struct{}

func (s *ExportMeshStep) Name() string {
	return "Export STL"
}

func (s *ExportMeshStep) Execute(ctx context.Context, run *modelRun) error {
	path, err := ExportMesh(run.design, run.config.OutputDirectory, run.set.Name)
	if err != nil {
		return fmt.Errorf("mesh export failed: %w", err)
	}
	run.outcome.STLPath = path
	run.log.Info().Str("path", path).Msg("Mesh exported")
	return nil
}

// PostGCodeStep regenerates the configured toolpath and posts the NC program
type PostGCodeStep struct{}

func (s *PostGCodeStep) Name() string {
	return "Post G-code"
}

func (s *PostGCodeStep) Execute(ctx context.Context, run *modelRun) error {
	defer restoreWorkspace(run.workspace, run.log)

	cam, err := activateManufacture(run.app)
	if err != nil {
		return err
	}

	path, err := run.cam.Post(ctx, cam, PostRequest{
		Directory:     run.config.GCodeDirectory,
		ModelName:     run.set.Name,
		OperationName: run.config.OperationName,
		ProgramName:   run.config.NCProgramName,
	})
	if err != nil {
		return err
	}
	run.outcome.GCodePath = path
	run.addMessage("G-code posted to %s", path)
	return nil
}

// SkipGCodeStep records that CAM settings are incomplete
type SkipGCodeStep struct{}

func (s *SkipGCodeStep) Name() string {
	return "Skip G-code"
}

func (s *SkipGCodeStep) Execute(ctx context.Context, run *modelRun) error {
	run.outcome.Skipped = true
	run.addMessage("Skipped G-code posting because configuration is incomplete.")
	return nil
}
