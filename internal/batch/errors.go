package batch

import (
	"errors"

	"github.com/philipparndt/parambatch/internal/config"
)

// Batch-level errors abort the run; all others are recorded per model.
var (
	ErrNotFound      = config.ErrNotFound
	ErrParse         = config.ErrParse
	ErrInvalidConfig = config.ErrInvalidConfig

	ErrNoActiveDesign = errors.New("active design not found")
	ErrUnexpected     = errors.New("unexpected error")

	ErrMissingParameters       = errors.New("missing parameters")
	ErrRegenerationStartFailed = errors.New("failed to start toolpath generation")
	ErrToolpathTimeout         = errors.New("toolpath generation timed out")
	ErrToolpathError           = errors.New("toolpath error detected")
	ErrOperationNotFound       = errors.New("CAM operation not found")
	ErrNCProgramNotFound       = errors.New("NC program not found")
	ErrPostFailed              = errors.New("failed to post NC program")
	ErrCAMUnavailable          = errors.New("CAM workspace not available")
)
