package cmd

import (
	"github.com/spf13/cobra"

	"linerun/internal/config"
	"linerun/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		runner, journal, log, err := buildRunner(cfg)
		if err != nil {
			return err
		}
		defer log.Close()

		srv := server.New(runner, journal, log)
		return srv.ListenAndServe(cfg.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
