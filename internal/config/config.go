package config

import (
	"time"

	"github.com/spf13/viper"
)

// ServeConfig holds configuration for the MCP serve command.
type ServeConfig struct {
	// Port is the SSE/HTTP listen port. Zero serves on stdio.
	Port int `mapstructure:"port"`
}

// Config holds all runtime configuration for codexreview. Values are
// populated from .codexreview.yaml, CODEXREVIEW_* env vars, and CLI flags.
type Config struct {
	CodexPath     string        `mapstructure:"codex_path"`
	GitPath       string        `mapstructure:"git_path"`
	WorkDir       string        `mapstructure:"work_dir"`
	Model         string        `mapstructure:"model"`
	ReviewTimeout time.Duration `mapstructure:"review_timeout"`
	TelemetryPath string        `mapstructure:"telemetry_path"`
	Verbose       bool          `mapstructure:"verbose"`
	Serve         ServeConfig   `mapstructure:"serve"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("codex_path", "codex")
	viper.SetDefault("git_path", "git")
	viper.SetDefault("work_dir", ".")
	viper.SetDefault("model", "")
	viper.SetDefault("review_timeout", "5m")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("serve.port", 0)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
