// Package config resolves runtime configuration for tftpremap from
// environment variables and sensible defaults, in the style this corpus
// already uses for its own config loader.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config stores runtime configuration for the rewrite engine and its
// surrounding process.
type Config struct {
	Rules    RulesConfig
	Validate ValidateConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

type RulesConfig struct {
	Path         string
	DeadmanSteps int
}

type ValidateConfig struct {
	RootDir string
}

type LogConfig struct {
	Verbosity int
}

type MetricsConfig struct {
	ListenAddr string
}

// Load resolves configuration from environment variables and defaults.
func Load() (Config, error) {
	cfg := Config{
		Rules: RulesConfig{
			Path:         envOrDefault("TFTPREMAP_RULES_FILE", "/etc/tftpd.remap"),
			DeadmanSteps: envOrDefaultInt("TFTPREMAP_DEADMAN_STEPS", 4096),
		},
		Validate: ValidateConfig{
			RootDir: envOrDefault("TFTPREMAP_ROOT_DIR", firstExisting("/var/lib/tftpboot", "/tftpboot")),
		},
		Log: LogConfig{
			Verbosity: envOrDefaultInt("TFTPREMAP_VERBOSITY", 0),
		},
		Metrics: MetricsConfig{
			ListenAddr: envOrDefault("TFTPREMAP_METRICS_ADDR", ""),
		},
	}

	if cfg.Rules.DeadmanSteps <= 0 {
		cfg.Rules.DeadmanSteps = 4096
	}
	if cfg.Log.Verbosity < 0 {
		cfg.Log.Verbosity = 0
	}

	return cfg, nil
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
