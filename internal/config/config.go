// Package config holds runtime configuration, backed by viper so values
// can come from a config file, LINERUN_-prefixed environment variables or
// flags, in that order of increasing precedence.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	PipelineFile string // default pipeline file for run/validate/watch
	LogsDir      string // where per-step log files go
	JournalPath  string // append-only run history file
	ListenAddr   string // serve listen address
	Shell        string // shell used for run: steps
	LogLevel     string
	LogFile      string // empty means stderr
}

// SetDefaults registers the default values so they are available even
// without a config file.
func SetDefaults() {
	viper.SetDefault("pipeline_file", "pipeline.yaml")
	viper.SetDefault("logs_dir", "./logs")
	viper.SetDefault("journal_path", "./runs.jsonl")
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("shell", "sh")
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_file", "")
}

// BindEnv wires LINERUN_-prefixed environment variables to keys, with
// dots in nested keys mapped to underscores.
func BindEnv() {
	viper.SetEnvPrefix("LINERUN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load materializes the current viper state into a Config.
func Load() *Config {
	return &Config{
		PipelineFile: viper.GetString("pipeline_file"),
		LogsDir:      viper.GetString("logs_dir"),
		JournalPath:  viper.GetString("journal_path"),
		ListenAddr:   viper.GetString("listen_addr"),
		Shell:        viper.GetString("shell"),
		LogLevel:     viper.GetString("log_level"),
		LogFile:      viper.GetString("log_file"),
	}
}
