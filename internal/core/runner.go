package core

import (
	"context"
	"time"

	"linerun/internal/logging"
	"linerun/internal/storage"
	"linerun/pkg/utils"
)

// Runner ties together the executor, log storage and the run journal.
type Runner struct {
	Executor *Executor
	Logs     *storage.LogStore // optional, nil disables step log files
	Journal  *storage.Journal  // optional, nil disables run history
	Log      *logging.Logger
}

func NewRunner(executor *Executor, logs *storage.LogStore, journal *storage.Journal, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{
		Executor: executor,
		Logs:     logs,
		Journal:  journal,
		Log:      log,
	}
}

// RunPipeline executes every step in declaration order, one at a time.
// No step starts before the previous one has terminated, so a step's
// writes to the shared working tree are on disk before its successor runs.
//
// The first failing step halts the run: later steps never execute and the
// returned *StepError reports the failing index. An empty pipeline
// succeeds trivially. The RunResult is returned in both cases.
func (r *Runner) RunPipeline(ctx context.Context, p *Pipeline) (*RunResult, error) {
	return r.run(ctx, p, "")
}

// RunForEvent executes the pipeline on behalf of a trigger event, tagging
// the result with the event kind.
func (r *Runner) RunForEvent(ctx context.Context, p *Pipeline, event string) (*RunResult, error) {
	return r.run(ctx, p, event)
}

func (r *Runner) run(ctx context.Context, p *Pipeline, event string) (*RunResult, error) {
	run := NewRunResult(p)
	run.Event = event
	log := r.Log.WithRun(run.ID)
	log.Info("pipeline started", "pipeline", p.Name, "steps", len(p.Steps))

	for i, step := range p.Steps {
		stepLog := log.WithStep(step.DisplayName())
		stepLog.Info("step started", "index", i)

		result, err := r.Executor.RunStep(ctx, p, i, step)
		r.saveStepLog(p, &result)
		run.Steps = append(run.Steps, result)

		if err != nil {
			run.FailedStep = i
			run.FailedName = result.Name
			run.Duration = time.Since(run.StartedAt)
			stepLog.Error("step failed", "index", i, "status", result.Status, "exit_code", result.ExitCode)
			r.record(run)
			return run, err
		}
		stepLog.Info("step completed", "index", i, "duration", result.Duration.String())
	}

	run.Success = true
	run.Duration = time.Since(run.StartedAt)
	log.Info("pipeline succeeded", "duration", run.Duration.String())
	r.record(run)
	return run, nil
}

// saveStepLog persists the step's output and records the log path and its
// checksum on the result. Best-effort: a storage failure never changes the
// pipeline outcome.
func (r *Runner) saveStepLog(p *Pipeline, result *StepResult) {
	if r.Logs == nil {
		return
	}
	path, err := r.Logs.SaveStepLog(p.Name, result.Name, result.Output)
	if err != nil {
		r.Log.Warn("cannot save step log", "step", result.Name, "error", err)
		return
	}
	result.LogPath = path
	hash, err := utils.HashFile(path)
	if err != nil {
		r.Log.Warn("cannot hash step log", "path", path, "error", err)
		return
	}
	result.LogHash = hash
}

// record appends the finished run to the journal. Best-effort as well.
func (r *Runner) record(run *RunResult) {
	if r.Journal == nil {
		return
	}
	if _, err := r.Journal.Append(run); err != nil {
		r.Log.Warn("cannot append run to journal", "run", run.ID, "error", err)
	}
}
