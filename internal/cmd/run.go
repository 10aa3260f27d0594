package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"linerun/internal/config"
	"linerun/internal/core"
	"linerun/internal/logging"
	"linerun/internal/storage"
)

const timeRound = time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run [pipeline file]",
	Short: "Run a pipeline once",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		path := cfg.PipelineFile
		if len(args) == 1 {
			path = args[0]
		}

		pipeline, err := core.LoadPipeline(path)
		if err != nil {
			return err
		}

		runner, _, log, err := buildRunner(cfg)
		if err != nil {
			return err
		}
		defer log.Close()

		run, err := runner.RunPipeline(cmd.Context(), pipeline)
		printRun(cmd, run)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pipeline failed at step %d (%s)\n", run.FailedStep, run.FailedName)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// buildRunner assembles the runner and its storage from config. The
// returned journal is the same instance the runner appends to.
func buildRunner(cfg *config.Config) (*core.Runner, *storage.Journal, *logging.Logger, error) {
	log, err := logging.NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	journal, err := storage.OpenJournal(cfg.JournalPath)
	if err != nil {
		log.Warn("cannot open run journal", "path", cfg.JournalPath, "error", err)
		journal = nil
	}

	runner := core.NewRunner(
		core.NewExecutor(cfg.Shell),
		storage.NewLogStore(cfg.LogsDir),
		journal,
		log,
	)
	return runner, journal, log, nil
}

// printRun writes a human-readable run summary to the command's stdout.
func printRun(cmd *cobra.Command, run *core.RunResult) {
	for _, step := range run.Steps {
		mark := "ok"
		if step.Status != core.StepSucceeded {
			mark = string(step.Status)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %-40s %s (exit %d, %s)\n",
			step.Index, step.Name, mark, step.ExitCode, step.Duration.Round(timeRound))
	}
	outcome := "succeeded"
	if !run.Success {
		outcome = "failed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s %s in %s\n", run.ID, outcome, run.Duration.Round(timeRound))
}
