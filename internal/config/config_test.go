package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := Load()
	assert.Equal(t, "pipeline.yaml", cfg.PipelineFile)
	assert.Equal(t, "./logs", cfg.LogsDir)
	assert.Equal(t, "./runs.jsonl", cfg.JournalPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "sh", cfg.Shell)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
}

func TestEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	BindEnv()

	t.Setenv("LINERUN_SHELL", "bash")
	t.Setenv("LINERUN_LISTEN_ADDR", "127.0.0.1:9999")

	cfg := Load()
	assert.Equal(t, "bash", cfg.Shell)
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
}
