package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-svg2img/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // SVG2IMG_CONFIG: config file name or path
	OutputDir  string        // SVG2IMG_OUTPUT_DIR: default output directory
	Type       string        // SVG2IMG_TYPE: png, jpeg, webp
	Timeout    time.Duration // SVG2IMG_TIMEOUT: per-file conversion timeout
	Workers    int           // SVG2IMG_WORKERS: concurrent conversions
}

// knownEnvVars lists valid SVG2IMG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SVG2IMG_CONFIG":     true,
	"SVG2IMG_OUTPUT_DIR": true,
	"SVG2IMG_TYPE":       true,
	"SVG2IMG_TIMEOUT":    true,
	"SVG2IMG_WORKERS":    true,
	"SVG2IMG_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("SVG2IMG_CONFIG"),
		OutputDir:  os.Getenv("SVG2IMG_OUTPUT_DIR"),
		Type:       os.Getenv("SVG2IMG_TYPE"),
	}

	if timeout := os.Getenv("SVG2IMG_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("SVG2IMG_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SVG2IMG_* variables.
// Helps catch typos like SVG2IMG_OUTPUTDIR instead of SVG2IMG_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "SVG2IMG_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the environment variables that
// are set. Flags are merged afterwards by mergeFlags, giving:
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Type != "" {
		cfg.Output.Type = env.Type
	}
	if env.Timeout > 0 {
		cfg.Browser.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
