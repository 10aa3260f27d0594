package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"linerun/internal/config"
	"linerun/internal/core"
)

var validateCmd = &cobra.Command{
	Use:   "validate [pipeline file]",
	Short: "Parse and validate a pipeline file without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Load().PipelineFile
		if len(args) == 1 {
			path = args[0]
		}

		pipeline, err := core.LoadPipeline(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d steps", path, len(pipeline.Steps))
		if len(pipeline.On) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", fires on %v", pipeline.On)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ")")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
