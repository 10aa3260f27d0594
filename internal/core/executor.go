package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Executor runs individual pipeline steps, one process per step.
type Executor struct {
	Shell string // shell used for run: steps, defaults to "sh"
}

func NewExecutor(shell string) *Executor {
	if shell == "" {
		shell = "sh"
	}
	return &Executor{Shell: shell}
}

// RunStep executes a single step to completion and returns its result.
//
// The step runs in a fresh process with the pipeline's working directory
// and an environment built from the parent process env, the pipeline env,
// and the step's own overlay, in that order. Stdout and stderr are
// captured into one combined buffer.
//
// No deadline is set here: the context is for external termination only.
// On failure the returned error is a *StepError whose Kind is either
// ErrLaunchFailure or ErrNonZeroExit.
func (e *Executor) RunStep(ctx context.Context, p *Pipeline, index int, step Step) (StepResult, error) {
	var cmd *exec.Cmd
	if step.Run != "" {
		cmd = exec.CommandContext(ctx, e.Shell, "-c", step.Run)
	} else {
		cmd = exec.CommandContext(ctx, step.Command, step.Args...)
	}
	cmd.Dir = p.WorkDir
	cmd.Env = overlayEnv(os.Environ(), p.Env, step.Env)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()

	result := StepResult{
		Index:    index,
		Name:     step.DisplayName(),
		Output:   out.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		result.Status = StepSucceeded
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Status = StepFailed
		result.ExitCode = exitErr.ExitCode()
		return result, &StepError{
			Kind:     ErrNonZeroExit,
			Index:    index,
			Step:     result.Name,
			ExitCode: result.ExitCode,
			Cause:    err,
		}
	}

	// Command could not be located or started.
	result.Status = StepErrored
	result.ExitCode = -1
	return result, &StepError{
		Kind:  ErrLaunchFailure,
		Index: index,
		Step:  result.Name,
		Cause: err,
	}
}

// overlayEnv merges environment layers left to right, later layers winning.
func overlayEnv(base []string, layers ...map[string]string) []string {
	env := append([]string(nil), base...)
	for _, layer := range layers {
		for k, v := range layer {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
	}
	// os/exec uses the last value for duplicated names, so appending the
	// overlays after the base is enough to make them win.
	return env
}
