package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	svg2img "github.com/alnah/go-svg2img"
	"github.com/alnah/go-svg2img/internal/config"
)

// defaultMaxWorkers caps the automatic worker count. All workers share one
// browser page, so more workers mostly queue on it.
const defaultMaxWorkers = 8

// settings is the resolved configuration of one convert or watch run.
type settings struct {
	opts        svg2img.Options // Path is set per file
	outputDir   string          // -o, output.defaultDir, SVG2IMG_OUTPUT_DIR
	workers     int
	timeout     time.Duration
	idleTimeout time.Duration
	browserBin  string
	noSandbox   bool
}

// resolveSettings loads the config file, then applies environment variables
// and flags on top of it.
func resolveSettings(flags *convertFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg := config.DefaultConfig()
	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return buildSettings(flags, cfg)
}

// mergeFlags merges CLI flags into config. Set flags override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, flags.workers)
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}

	img := flags.image
	if img.typ != "" {
		cfg.Output.Type = img.typ
	}
	if img.width != 0 {
		cfg.Output.Width = img.width
	}
	if img.height != 0 {
		cfg.Output.Height = img.height
	}
	if img.quality != 0 {
		cfg.Output.Quality = img.quality
	}
	if img.background != "" {
		cfg.Output.Background = img.background
	}

	b := flags.browser
	if b.bin != "" {
		cfg.Browser.Bin = b.bin
	}
	if b.noSandbox {
		cfg.Browser.NoSandbox = true
	}
	if b.timeout != "" {
		if _, err := parseDuration("--timeout", b.timeout); err != nil {
			return err
		}
		cfg.Browser.Timeout = b.timeout
	}
	if b.idleTimeout != "" {
		if _, err := parseDuration("--idle-timeout", b.idleTimeout); err != nil {
			return err
		}
		cfg.Browser.IdleTimeout = b.idleTimeout
	}
	return nil
}

// buildSettings converts a validated config plus flag-only options into
// settings.
func buildSettings(flags *convertFlags, cfg *config.Config) (*settings, error) {
	s := &settings{
		outputDir:  cfg.Output.DefaultDir,
		workers:    resolveWorkers(cfg.Workers),
		browserBin: cfg.Browser.Bin,
		noSandbox:  cfg.Browser.NoSandbox,
	}

	var err error
	if s.timeout, err = cfg.Browser.TimeoutDuration(); err != nil {
		return nil, err
	}
	if s.idleTimeout, err = cfg.Browser.IdleTimeoutDuration(); err != nil {
		return nil, err
	}

	if cfg.Output.Type != "" {
		if s.opts.Type, err = svg2img.ParseImageType(cfg.Output.Type); err != nil {
			return nil, err
		}
	}
	s.opts.Width = cfg.Output.Width
	s.opts.Height = cfg.Output.Height
	s.opts.Quality = cfg.Output.Quality
	s.opts.Background = cfg.Output.Background

	if s.opts.Clip, err = parseClip(flags.image.clip); err != nil {
		return nil, err
	}
	s.opts.Encoding = svg2img.Encoding(flags.image.encoding)

	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveWorkers returns n, or a CPU-based default when n is 0.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return min(runtime.GOMAXPROCS(0), defaultMaxWorkers)
}

// newConverter creates the Converter shared by every file of a run.
func newConverter(s *settings, env *Environment, logger *log.Logger) *svg2img.Converter {
	opts := []svg2img.Option{svg2img.WithLogger(logger)}
	if s.idleTimeout > 0 {
		opts = append(opts, svg2img.WithIdleTimeout(s.idleTimeout))
	}
	if s.timeout > 0 {
		opts = append(opts, svg2img.WithTimeout(s.timeout))
	}
	if s.browserBin != "" {
		opts = append(opts, svg2img.WithBrowserBin(s.browserBin))
	}
	if s.noSandbox {
		opts = append(opts, svg2img.WithNoSandbox(true))
	}
	if env.Launcher != nil {
		opts = append(opts, svg2img.WithLauncher(env.Launcher))
	}
	return svg2img.NewConverter(opts...)
}
