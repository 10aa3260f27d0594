package core

import (
	"errors"
	"fmt"
)

// The two ways a step can fail. Both halt the pipeline identically; the
// distinction lets callers tell "could not run" from "ran and failed".
var (
	ErrLaunchFailure = errors.New("step could not be started")
	ErrNonZeroExit   = errors.New("step exited with a non-zero code")
)

// StepError wraps a single step failure with its position in the pipeline.
// Kind is ErrLaunchFailure or ErrNonZeroExit; ExitCode is meaningful only
// for the latter.
type StepError struct {
	Kind     error
	Index    int
	Step     string
	ExitCode int
	Cause    error
}

func (e *StepError) Error() string {
	if e.Kind == ErrNonZeroExit {
		return fmt.Sprintf("step %d (%s): exit code %d", e.Index, e.Step, e.ExitCode)
	}
	return fmt.Sprintf("step %d (%s): %s: %v", e.Index, e.Step, e.Kind, e.Cause)
}

func (e *StepError) Unwrap() error { return e.Kind }
