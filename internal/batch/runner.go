// Package batch drives a parametric design through a list of parameter
// sets: apply, regenerate, export STEP and optionally post G-code.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/philipparndt/parambatch/internal/config"
	"github.com/philipparndt/parambatch/internal/host"
	"github.com/philipparndt/parambatch/internal/models"
	"github.com/philipparndt/parambatch/internal/preconditions"
	"github.com/rs/zerolog"
)

// Runner executes batch files against the active design of a host application
type Runner struct {
	App       host.Application
	Loader    *config.Loader
	Logger    zerolog.Logger
	ExportSTL bool
	// Progress is called after each model, if set
	Progress func(done, total int, name string)

	cam *CAMDriver
}

// NewRunner creates a runner for the given host
func NewRunner(app host.Application, logger zerolog.Logger) *Runner {
	return &Runner{
		App:    app,
		Loader: config.NewLoader(),
		Logger: logger,
		cam:    NewCAMDriver(logger),
	}
}

// Run loads the batch file at path and processes every model in order.
// Load and configuration errors abort the batch before anything is exported;
// per-model errors are recorded in the result.
func (r *Runner) Run(ctx context.Context, path string) (result *models.BatchResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Logger.Error().Interface("panic", rec).Str("batch", path).Msg("Batch aborted")
			result = nil
			err = fmt.Errorf("%w: %v", ErrUnexpected, rec)
		}
	}()

	design, ok := r.App.ActiveDesign()
	if !ok {
		return nil, ErrNoActiveDesign
	}

	cfg, err := r.Loader.LoadBatch(path)
	if err != nil {
		return nil, err
	}

	return r.RunConfig(ctx, design, cfg)
}

// RunConfig processes an already decoded batch
func (r *Runner) RunConfig(ctx context.Context, design host.Design, cfg *models.BatchConfig) (*models.BatchResult, error) {
	dirs := []string{cfg.OutputDirectory}
	if cfg.GCodeDirectory != "" {
		dirs = append(dirs, cfg.GCodeDirectory)
	}
	if err := preconditions.EnsureDirectories(dirs...); err != nil {
		return nil, err
	}

	cam := r.cam
	if cam == nil {
		cam = NewCAMDriver(r.Logger)
	}

	result := &models.BatchResult{
		RunID:   uuid.NewString(),
		Success: true,
	}
	log := r.Logger.With().Str("run", result.RunID).Logger()
	log.Info().
		Str("design", design.Name()).
		Int("models", len(cfg.Models)).
		Bool("cam", cfg.CAMConfigured()).
		Msg("Starting batch")

	workspace := r.App.ActiveWorkspace()
	steps := r.plan(cfg)

	for i, set := range cfg.Models {
		run := &modelRun{
			app:       r.App,
			design:    design,
			config:    cfg,
			set:       set,
			cam:       cam,
			workspace: workspace,
			log:       log.With().Int("model", i+1).Str("name", set.Name).Logger(),
			outcome:   models.ModelOutcome{Index: i + 1, Name: set.Name},
		}

		if err := runModel(ctx, run, steps); err != nil {
			run.outcome.Error = err.Error()
			run.addMessage("FAILED (%v)", err)
			run.log.Error().Err(err).Msg("Model failed")
			result.Success = false
		}

		result.Messages = append(result.Messages, run.messages...)
		result.Outcomes = append(result.Outcomes, run.outcome)

		if r.Progress != nil {
			r.Progress(i+1, len(cfg.Models), set.Name)
		}
	}

	log.Info().Bool("success", result.Success).Msg("Batch finished")
	return result, nil
}

// runModel executes the steps for one model. A panic from the host is
// reported as that model's failure.
func runModel(ctx context.Context, run *modelRun, steps []Step) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, step := range steps {
		run.log.Debug().Str("step", step.Name()).Msg("Executing step")
		if err := step.Execute(ctx, run); err != nil {
			return err
		}
	}
	return nil
}
