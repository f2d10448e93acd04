package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alnah/go-svg2img/internal/fileutil"
	"github.com/alnah/go-svg2img/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxTypeLength       = 10   // "png", "jpeg", "webp"
	MaxBackgroundLength = 100  // CSS color, e.g. "rgba(255, 255, 255, 0.5)"
	MaxDurationLength   = 20   // "1m30s"
)

// Limits on numeric fields.
const (
	MaxWorkers   = 64
	MaxDimension = 16384 // canvas limit in Chromium
	MaxQuality   = 100
)

// appDirName is the directory under the user config dir searched by name.
const appDirName = "go-svg2img"

// Config holds the CLI configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser" toml:"browser"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Workers int           `yaml:"workers" toml:"workers"` // concurrent conversions in batch mode (0 = auto)
}

// BrowserConfig defines how the headless browser is started and kept.
type BrowserConfig struct {
	Bin         string `yaml:"bin" toml:"bin"`                 // Empty = ROD_BROWSER_BIN or managed Chromium
	NoSandbox   bool   `yaml:"noSandbox" toml:"noSandbox"`     // Required in most containers
	IdleTimeout string `yaml:"idleTimeout" toml:"idleTimeout"` // Go duration (default: 1s)
	Timeout     string `yaml:"timeout" toml:"timeout"`         // Per-conversion deadline (empty = none)
}

// OutputConfig defines default conversion options and destination.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // Empty = next to the source
	Type       string `yaml:"type" toml:"type"`             // "png", "jpeg"/"jpg", "webp" (empty = by extension, else png)
	Width      int    `yaml:"width" toml:"width"`           // pixels (0 = intrinsic)
	Height     int    `yaml:"height" toml:"height"`         // pixels (0 = intrinsic)
	Quality    int    `yaml:"quality" toml:"quality"`       // 1-100 (0 = default)
	Background string `yaml:"background" toml:"background"` // CSS color
}

// IdleTimeoutDuration returns browser.idleTimeout as a duration, 0 when unset.
func (b BrowserConfig) IdleTimeoutDuration() (time.Duration, error) {
	return parseDuration("browser.idleTimeout", b.IdleTimeout)
}

// TimeoutDuration returns browser.timeout as a duration, 0 when unset.
func (b BrowserConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("browser.timeout", b.Timeout)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalidValue, field, s)
	}
	return d, nil
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.idleTimeout", c.Browser.IdleTimeout, MaxDurationLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.timeout", c.Browser.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if _, err := c.Browser.IdleTimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.Browser.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.type", c.Output.Type, MaxTypeLength); err != nil {
		return err
	}
	if c.Output.Type != "" {
		switch strings.ToLower(c.Output.Type) {
		case "png", "jpeg", "jpg", "webp":
			// valid
		default:
			return fmt.Errorf("%w: output.type %q (must be png, jpeg, or webp)", ErrInvalidValue, c.Output.Type)
		}
	}
	if err := validateFieldLength("output.background", c.Output.Background, MaxBackgroundLength); err != nil {
		return err
	}
	if err := validateRange("output.width", c.Output.Width, 0, MaxDimension); err != nil {
		return err
	}
	if err := validateRange("output.height", c.Output.Height, 0, MaxDimension); err != nil {
		return err
	}
	if err := validateRange("output.quality", c.Output.Quality, 0, MaxQuality); err != nil {
		return err
	}

	return validateRange("workers", c.Workers, 0, MaxWorkers)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateRange(fieldName string, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidValue, fieldName, lo, hi, value)
	}
	return nil
}

// DefaultConfig returns a configuration that leaves every setting to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	decode := yamlutil.DecodeStrict
	if isTOML(configPath) {
		decode = decodeTOMLStrict
	}
	if err := decode(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// decodeTOMLStrict decodes TOML from r into v, rejecting keys that match no
// field. Input is capped at yamlutil.MaxInputSize like YAML configs.
func decodeTOMLStrict(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, int64(yamlutil.MaxInputSize)+1))
	if err != nil {
		return err
	}
	if len(data) > yamlutil.MaxInputSize {
		return fmt.Errorf("%w: exceeds %d bytes", yamlutil.ErrInputTooLarge, yamlutil.MaxInputSize)
	}
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown field %q", undecoded[0].String())
	}
	return nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, ~/.config/go-svg2img/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
