package svg2img

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// renderScript is evaluated in the page with the SVG text and a renderRequest.
// It draws the SVG on a canvas and resolves with base64 image data.
//
//go:embed render.js
var renderScript string

// renderRequest is the argument passed to renderScript. Field names match the
// properties the script reads.
type renderRequest struct {
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Type           ImageType `json:"type"`
	Quality        int       `json:"quality"`
	Background     string    `json:"background"`
	Clip           *Clip     `json:"clip"`
	JPEGBackground string    `json:"jpegBackground"`
}

// newRenderRequest builds the page-side request from resolved options.
func newRenderRequest(o Options) renderRequest {
	return renderRequest{
		Width:          o.Width,
		Height:         o.Height,
		Type:           o.Type,
		Quality:        o.Quality,
		Background:     o.Background,
		Clip:           o.Clip,
		JPEGBackground: jpegBackground,
	}
}

// Converter converts SVG documents to raster images in a headless browser.
// A Converter owns at most one browser, started on first use and closed after
// an idle period; concurrent conversions share it.
// Create with NewConverter, and Close when done.
type Converter struct {
	cfg      converterConfig
	browsers *browserManager
	logger   *log.Logger
}

// Option configures a Converter.
type Option func(*converterConfig)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	idleTimeout time.Duration
	timeout     time.Duration // 0 = no deadline beyond the caller's ctx
	launcher    Launcher
	logger      *log.Logger
	browserBin  string
	noSandbox   bool
}

// WithIdleTimeout sets how long the browser stays alive after the last
// conversion. Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithIdleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("svg2img: WithIdleTimeout duration must be positive")
	}
	return func(c *converterConfig) {
		c.idleTimeout = d
	}
}

// WithTimeout bounds each conversion when the caller's ctx has no deadline.
// Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("svg2img: WithTimeout duration must be positive")
	}
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithLauncher replaces the go-rod launcher, e.g. to connect to a remote
// browser or to substitute a fake in tests.
func WithLauncher(l Launcher) Option {
	return func(c *converterConfig) {
		c.launcher = l
	}
}

// WithLogger sets the logger for browser lifecycle and conversion events.
// By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(c *converterConfig) {
		c.logger = l
	}
}

// WithBrowserBin uses the browser binary at path instead of ROD_BROWSER_BIN
// or the managed Chromium download.
func WithBrowserBin(path string) Option {
	return func(c *converterConfig) {
		c.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, required in most containers.
func WithNoSandbox(noSandbox bool) Option {
	return func(c *converterConfig) {
		c.noSandbox = noSandbox
	}
}

// NewConverter creates a Converter. No browser is started until the first
// conversion.
func NewConverter(opts ...Option) *Converter {
	rl := newRodLauncher()
	cfg := converterConfig{
		idleTimeout: DefaultIdleTimeout,
		noSandbox:   rl.noSandbox,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.launcher == nil {
		if cfg.browserBin != "" {
			rl.bin = cfg.browserBin
		}
		rl.noSandbox = cfg.noSandbox
		cfg.launcher = rl
	}

	return &Converter{
		cfg:      cfg,
		browsers: newBrowserManager(cfg.launcher, cfg.idleTimeout, cfg.logger),
		logger:   cfg.logger,
	}
}

// Close closes the browser, if running. Conversions after Close fail with
// ErrConverterClosed.
func (c *Converter) Close() error {
	return c.browsers.close()
}

// From prepares a conversion of svg.
func (c *Converter) From(svg []byte) *Source {
	return &Source{conv: c, svg: string(svg)}
}

// FromString prepares a conversion of svg.
func (c *Converter) FromString(svg string) *Source {
	return &Source{conv: c, svg: svg}
}

// Source is an SVG document bound to a Converter, ready to be converted to
// any supported type.
type Source struct {
	conv *Converter
	svg  string
}

// To converts with explicit options. When opts.Type is empty and opts.Path
// has a supported image extension, the type is inferred from it.
func (s *Source) To(ctx context.Context, opts Options) (*Result, error) {
	return s.conv.convert(ctx, s.svg, opts)
}

// ToPNG converts to PNG. opts may be nil.
func (s *Source) ToPNG(ctx context.Context, opts *ShorthandOptions) (*Result, error) {
	return s.conv.convert(ctx, s.svg, resolveOptions(defaultPNGOptions, opts.options()))
}

// ToJPEG converts to JPEG. opts may be nil.
func (s *Source) ToJPEG(ctx context.Context, opts *ShorthandOptions) (*Result, error) {
	return s.conv.convert(ctx, s.svg, resolveOptions(defaultJPEGOptions, opts.options()))
}

// ToWebP converts to WebP. opts may be nil.
func (s *Source) ToWebP(ctx context.Context, opts *ShorthandOptions) (*Result, error) {
	return s.conv.convert(ctx, s.svg, resolveOptions(defaultWebPOptions, opts.options()))
}

// convert runs one conversion: resolve options, render in the shared page,
// then decode and optionally write the result.
func (c *Converter) convert(ctx context.Context, svg string, explicit Options) (*Result, error) {
	opts := buildOptions(explicit)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if c.cfg.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
			defer cancel()
		}
	}

	logger := c.logger.With("id", uuid.NewString())
	start := time.Now()

	payload, err := c.render(ctx, svg, opts)
	if err != nil {
		logger.Debug("conversion failed", "type", opts.Type, "err", err)
		return nil, err
	}

	res, err := decodeOutput(payload, opts.Path, opts.Encoding)
	if err != nil {
		logger.Debug("conversion failed", "type", opts.Type, "err", err)
		return nil, err
	}

	logger.Debug("converted",
		"type", opts.Type,
		"bytes", len(res.Data),
		"path", opts.Path,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// render acquires the shared page, takes it offline and evaluates the render
// script. Teardown is scheduled once the page is released, whatever the
// outcome.
func (c *Converter) render(ctx context.Context, svg string, opts Options) (string, error) {
	page, release, err := c.browsers.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	if err := page.SetOffline(ctx, true); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOfflineMode, err)
	}

	payload, err := page.Evaluate(ctx, renderScript, svg, newRenderRequest(opts))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return payload, nil
}
