package core

import (
	"time"

	"github.com/google/uuid"
)

// StepStatus is the terminal state of one executed step.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"  // ran, non-zero exit
	StepErrored   StepStatus = "errored" // could not be started
)

// StepResult records the outcome of a single step.
type StepResult struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	ExitCode int           `json:"exitCode"`
	Output   string        `json:"output,omitempty"`
	Duration time.Duration `json:"duration"`
	LogPath  string        `json:"logPath,omitempty"`
	LogHash  string        `json:"logHash,omitempty"`
}

// RunResult is the outcome of one full pipeline execution. It is created
// fresh per execution and never mutated after completion.
type RunResult struct {
	ID         string        `json:"id"`
	Pipeline   string        `json:"pipeline"`
	Event      string        `json:"event,omitempty"` // trigger event kind, empty for direct runs
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	Steps      []StepResult  `json:"steps"`
	Success    bool          `json:"success"`
	FailedStep int           `json:"failedStep"` // -1 on success
	FailedName string        `json:"failedName,omitempty"`
}

// NewRunResult starts a result for one execution of the given pipeline.
func NewRunResult(p *Pipeline) *RunResult {
	return &RunResult{
		ID:         uuid.NewString(),
		Pipeline:   p.Name,
		StartedAt:  time.Now().UTC(),
		Steps:      make([]StepResult, 0, len(p.Steps)),
		FailedStep: -1,
	}
}
