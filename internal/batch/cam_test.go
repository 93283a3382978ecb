package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDriver(timeout time.Duration) *CAMDriver {
	return &CAMDriver{timeout: timeout, log: zerolog.Nop()}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Facing1 [T1]", "facing1"},
		{"  Facing 1  ", "facing1"},
		{"Contour [6mm] Pass [2]", "contourpass"},
		{"[T1]", ""},
		{"ADAPTIVE", "adaptive"},
		{"Face[a[b]c]1", "facec1"},
		{"Stray ] bracket", "straybracket"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestFindOperation(t *testing.T) {
	cam := &fakeCAM{operations: []*fakeOperation{
		newFakeOperation("Adaptive2"),
		newFakeOperation("Facing1 [T1]"),
		newFakeOperation("facing1"),
		newFakeOperation("Contour Finish"),
	}}

	tests := []struct {
		target   string
		expected string
		found    bool
	}{
		{"facing1", "facing1", true},        // exact lookup wins over earlier fuzzy matches
		{"Facing 1", "Facing1 [T1]", true},  // normalized equality, first in host order
		{"contour", "Contour Finish", true}, // normalized substring
		{"Adaptive2", "Adaptive2", true},
		{"pocket", "", false},
		{"[T9]", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			op, ok := FindOperation(cam.Operations(), tt.target)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.expected, op.Name())
			}
		})
	}
}

func TestFindNCProgram(t *testing.T) {
	cam := &fakeCAM{programs: []*fakeProgram{{name: "NCProgram1 [Fanuc]"}}}

	p, ok := FindNCProgram(cam.NCPrograms(), "ncprogram1")
	require.True(t, ok)
	assert.Equal(t, "NCProgram1 [Fanuc]", p.Name())

	_, ok = FindNCProgram(cam.NCPrograms(), "NCProgram2")
	assert.False(t, ok)
}

func TestGenerateToolpath(t *testing.T) {
	t.Run("up to date operation is not regenerated", func(t *testing.T) {
		op := newFakeOperation("Facing1")
		op.computed = true

		state, err := testDriver(time.Second).GenerateToolpath(context.Background(), op)
		require.NoError(t, err)
		assert.Equal(t, StateValid, state)
		assert.Zero(t, op.generationCount())
	})

	t.Run("stale operations are regenerated", func(t *testing.T) {
		for name, setup := range map[string]func(*fakeOperation){
			"not computed": func(o *fakeOperation) {},
			"out of date":  func(o *fakeOperation) { o.computed, o.outOfDate = true, true },
			"warning":      func(o *fakeOperation) { o.computed, o.warning = true, true },
			"error":        func(o *fakeOperation) { o.computed, o.failed = true, true },
		} {
			t.Run(name, func(t *testing.T) {
				op := newFakeOperation("Facing1")
				setup(op)
				state, err := testDriver(time.Second).GenerateToolpath(context.Background(), op)
				require.NoError(t, err)
				assert.Equal(t, StateDone, state)
				assert.Equal(t, 1, op.generationCount())
			})
		}
	})

	t.Run("invalid operation", func(t *testing.T) {
		op := newFakeOperation("Facing1")
		op.invalid = true
		state, err := testDriver(time.Second).GenerateToolpath(context.Background(), op)
		require.Error(t, err)
		assert.Equal(t, StateError, state)
		assert.Zero(t, op.generationCount())
	})

	t.Run("start failure", func(t *testing.T) {
		op := newFakeOperation("Facing1")
		op.startErr = errors.New("license expired")
		_, err := testDriver(time.Second).GenerateToolpath(context.Background(), op)
		assert.ErrorIs(t, err, ErrRegenerationStartFailed)
		assert.Contains(t, err.Error(), "license expired")
	})

	t.Run("timeout", func(t *testing.T) {
		op := newFakeOperation("Facing1")
		op.hangs = 1
		started := time.Now()
		state, err := testDriver(20*time.Millisecond).GenerateToolpath(context.Background(), op)
		assert.ErrorIs(t, err, ErrToolpathTimeout)
		assert.Equal(t, StateTimedOut, state)
		assert.Less(t, time.Since(started), 5*time.Second)
	})

	t.Run("finished generation beats cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		for range 50 {
			op := newFakeOperation("Facing1")
			state, err := testDriver(time.Second).GenerateToolpath(ctx, op)
			require.NoError(t, err)
			assert.Equal(t, StateDone, state)
		}
	})

	t.Run("cancellation is not a timeout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		op := newFakeOperation("Facing1")
		op.hangs = 1
		state, err := testDriver(time.Second).GenerateToolpath(ctx, op)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrToolpathTimeout)
		assert.Equal(t, StateError, state)
	})

	t.Run("error after generation", func(t *testing.T) {
		op := newFakeOperation("Facing1")
		op.failAfter = true
		state, err := testDriver(time.Second).GenerateToolpath(context.Background(), op)
		assert.ErrorIs(t, err, ErrToolpathError)
		assert.Equal(t, StateError, state)
	})
}

func TestPost(t *testing.T) {
	dir := t.TempDir()
	program := &fakeProgram{name: "NCProgram1"}
	cam := &fakeCAM{
		operations: []*fakeOperation{newFakeOperation("Facing1 [T1]")},
		programs:   []*fakeProgram{program},
	}

	path, err := testDriver(time.Second).Post(context.Background(), cam, PostRequest{
		Directory:     dir,
		ModelName:     "Plate A",
		OperationName: "facing1",
		ProgramName:   "NCProgram1",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Plate_A_facing1.nc"), path)
	assert.FileExists(t, path)

	_, err = testDriver(time.Second).Post(context.Background(), cam, PostRequest{
		Directory: dir, ModelName: "x", OperationName: "pocket", ProgramName: "NCProgram1",
	})
	assert.ErrorIs(t, err, ErrOperationNotFound)

	_, err = testDriver(time.Second).Post(context.Background(), cam, PostRequest{
		Directory: dir, ModelName: "x", OperationName: "facing1", ProgramName: "NCProgram9",
	})
	assert.ErrorIs(t, err, ErrNCProgramNotFound)

	program.postErr = os.ErrPermission
	_, err = testDriver(time.Second).Post(context.Background(), cam, PostRequest{
		Directory: dir, ModelName: "x", OperationName: "facing1", ProgramName: "NCProgram1",
	})
	assert.ErrorIs(t, err, ErrPostFailed)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestToolpathStateString(t *testing.T) {
	assert.Equal(t, "timed-out", StateTimedOut.String())
	assert.Equal(t, "unknown", ToolpathState(99).String())
}
