// Package cmd wires the linerun command tree.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"linerun/internal/config"
	"linerun/internal/core"
)

// Process exit codes. Execution failures and load/config problems map
// differently so callers can tell them apart.
const (
	ExitOK          = 0
	ExitRunFailed   = 1
	ExitConfigError = 2
)

var rootCmd = &cobra.Command{
	Use:   "linerun",
	Short: "Sequential fail-fast pipeline runner",
	Long: `Linerun executes declarative pipelines: an ordered list of steps,
each a command with arguments and an environment overlay, run strictly
in sequence. The first failing step halts the pipeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "linerun:", err)
		var stepErr *core.StepError
		if errors.As(err, &stepErr) {
			return ExitRunFailed
		}
		return ExitConfigError
	}
	return ExitOK
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./linerun.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("linerun")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/linerun")
	}

	config.BindEnv()

	// Config file is optional.
	_ = viper.ReadInConfig()
}
