package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"linerun/internal/config"
	"linerun/internal/core"
	"linerun/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs from the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		journal, err := storage.OpenJournal(cfg.JournalPath)
		if err != nil {
			return err
		}

		if verify, _ := cmd.Flags().GetBool("verify"); verify {
			if err := journal.Verify(); err != nil {
				return fmt.Errorf("journal verification failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "journal verification ok")
		}

		for _, rec := range journal.Records() {
			var run core.RunResult
			if err := json.Unmarshal(rec.Run, &run); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d %s (unreadable record: %v)\n", rec.Seq, rec.Time, err)
				continue
			}
			outcome := "succeeded"
			if !run.Success {
				outcome = fmt.Sprintf("failed at step %d (%s)", run.FailedStep, run.FailedName)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s run=%s pipeline=%q %s\n",
				rec.Seq, rec.Time, run.ID, run.Pipeline, outcome)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("verify", false, "verify journal integrity before listing")
	rootCmd.AddCommand(historyCmd)
}
