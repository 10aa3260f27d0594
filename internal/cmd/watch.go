package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linerun/internal/config"
	"linerun/internal/core"
	"linerun/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pipeline file]",
	Short: "Re-run the pipeline whenever watched files change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		path := cfg.PipelineFile
		if len(args) == 1 {
			path = args[0]
		}

		// Fail early if the file does not parse at all.
		if _, err := core.LoadPipeline(path); err != nil {
			return err
		}

		runner, _, log, err := buildRunner(cfg)
		if err != nil {
			return err
		}
		defer log.Close()

		extra, _ := cmd.Flags().GetStringSlice("path")
		paths := append([]string{path}, extra...)

		w := watch.New(paths, log)
		fmt.Fprintf(cmd.OutOrStdout(), "watching %v\n", paths)

		return w.Watch(cmd.Context(), func(ctx context.Context) error {
			// Reload so edits to the pipeline file take effect.
			pipeline, err := core.LoadPipeline(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, "linerun:", err)
				return err
			}
			run, err := runner.RunPipeline(ctx, pipeline)
			printRun(cmd, run)
			return err
		})
	},
}

func init() {
	watchCmd.Flags().StringSlice("path", nil, "additional paths to watch")
	rootCmd.AddCommand(watchCmd)
}
