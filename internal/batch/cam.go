package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/parambatch/internal/host"
	"github.com/rs/zerolog"
)

// ToolpathTimeout bounds a single toolpath regeneration
const ToolpathTimeout = 120 * time.Second

// ToolpathState tracks one operation through regeneration
type ToolpathState int

const (
	StateUnknown ToolpathState = iota
	StateValid
	StateNeedsRegeneration
	StateRegenerating
	StateDone
	StateError
	StateTimedOut
)

func (s ToolpathState) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateNeedsRegeneration:
		return "needs-regeneration"
	case StateRegenerating:
		return "regenerating"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	case StateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// NormalizeName drops bracketed tags, trims, lowercases and removes spaces,
// so "Facing1 [T1]" and "facing 1" compare equal. Brackets do not nest: the
// first ']' ends the tag.
func NormalizeName(name string) string {
	var b strings.Builder
	skip := false
	for _, r := range name {
		switch {
		case r == '[':
			skip = true
		case r == ']':
			skip = false
		case !skip:
			b.WriteRune(r)
		}
	}
	normalized := strings.ToLower(strings.TrimSpace(b.String()))
	return strings.ReplaceAll(normalized, " ", "")
}

type named interface {
	Name() string
}

// findByName tries the host's exact lookup first, then scans in host order
// for an exact, normalized or normalized-substring match.
func findByName[T named](lookup func(string) (T, bool), all func() []T, target string) (T, bool) {
	if item, ok := lookup(target); ok {
		return item, true
	}

	normalizedTarget := NormalizeName(target)
	for _, item := range all() {
		name := item.Name()
		if name == target {
			return item, true
		}
		normalized := NormalizeName(name)
		if normalized == normalizedTarget {
			return item, true
		}
		if normalizedTarget != "" && strings.Contains(normalized, normalizedTarget) {
			return item, true
		}
	}

	var zero T
	return zero, false
}

// FindOperation locates a CAM operation by name
func FindOperation(ops host.Operations, name string) (host.Operation, bool) {
	return findByName(ops.Lookup, ops.All, name)
}

// FindNCProgram locates an NC program by name
func FindNCProgram(programs host.NCPrograms, name string) (host.NCProgram, bool) {
	return findByName(programs.Lookup, programs.All, name)
}

// NeedsRegeneration reports whether an operation's toolpath must be recomputed
func NeedsRegeneration(op host.Operation) bool {
	return !op.IsToolpathComputed() || op.IsToolpathOutOfDate() ||
		op.HasToolpathWarning() || op.HasToolpathError()
}

// CAMDriver regenerates toolpaths and posts G-code
type CAMDriver struct {
	timeout time.Duration
	log     zerolog.Logger
}

func NewCAMDriver(log zerolog.Logger) *CAMDriver {
	return &CAMDriver{timeout: ToolpathTimeout, log: log}
}

// GenerateToolpath brings the operation's toolpath up to date, waiting at
// most ToolpathTimeout for the host to finish.
func (d *CAMDriver) GenerateToolpath(ctx context.Context, op host.Operation) (ToolpathState, error) {
	if !op.IsValid() {
		return StateError, fmt.Errorf("operation %s is not valid", op.Name())
	}

	state := StateValid
	if NeedsRegeneration(op) {
		state = StateNeedsRegeneration
		d.log.Debug().Str("operation", op.Name()).Stringer("state", state).Msg("Regenerating toolpath")

		done, err := op.GenerateToolpath()
		if err != nil {
			return StateError, fmt.Errorf("%w for %s: %w", ErrRegenerationStartFailed, op.Name(), err)
		}
		state = StateRegenerating

		waitCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		started := time.Now()
		select {
		case <-done:
		case <-waitCtx.Done():
			// done wins over an expired deadline
			select {
			case <-done:
			default:
				if err := ctx.Err(); err != nil {
					return StateError, fmt.Errorf("toolpath for %s: %w", op.Name(), err)
				}
				return StateTimedOut, fmt.Errorf("%w for %s", ErrToolpathTimeout, op.Name())
			}
		}
		state = StateDone
		d.log.Debug().Str("operation", op.Name()).Dur("took", time.Since(started)).Msg("Toolpath generated")
	}

	if op.HasToolpathError() {
		return StateError, fmt.Errorf("%w for %s", ErrToolpathError, op.Name())
	}
	return state, nil
}

// PostRequest names what to post and where
type PostRequest struct {
	Directory     string
	ModelName     string
	OperationName string
	ProgramName   string
}

// Post regenerates the named operation and posts the named NC program to
// <dir>/<model>_<operation>.nc. The caller activates the manufacture
// workspace beforehand.
func (d *CAMDriver) Post(ctx context.Context, cam host.CAM, req PostRequest) (string, error) {
	op, ok := FindOperation(cam.Operations(), req.OperationName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrOperationNotFound, req.OperationName)
	}

	state, err := d.GenerateToolpath(ctx, op)
	if err != nil {
		return "", err
	}
	d.log.Debug().Str("operation", op.Name()).Stringer("state", state).Msg("Toolpath ready")

	program, ok := FindNCProgram(cam.NCPrograms(), req.ProgramName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNCProgramNotFound, req.ProgramName)
	}

	path := filepath.Join(req.Directory,
		SanitizeFilename(req.ModelName)+"_"+SanitizeFilename(req.OperationName)+".nc")
	if err := program.PostToFile(path); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrPostFailed, req.ProgramName, err)
	}
	return path, nil
}

// activateManufacture switches to the CAM workspace and returns the CAM product
func activateManufacture(app host.Application) (host.CAM, error) {
	if ws, ok := app.Workspace(host.WorkspaceManufacture); ok {
		if err := ws.Activate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCAMUnavailable, err)
		}
	}
	cam, ok := app.CAM()
	if !ok {
		return nil, fmt.Errorf("%w: switch to the manufacture workspace once per session to load the CAM product", ErrCAMUnavailable)
	}
	return cam, nil
}

// restoreWorkspace re-activates the previous workspace, best effort
func restoreWorkspace(previous host.Workspace, log zerolog.Logger) {
	if previous == nil {
		return
	}
	if err := previous.Activate(); err != nil {
		log.Debug().Err(err).Str("workspace", previous.ID()).Msg("Failed to restore workspace")
	}
}
