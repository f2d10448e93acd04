package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	svg2img "github.com/alnah/go-svg2img"
)

// defaultDebounce is how long watch waits after the last event on a file
// before rendering it.
const defaultDebounce = 200 * time.Millisecond

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// imageFlags holds per-conversion image options.
type imageFlags struct {
	typ        string
	width      int
	height     int
	quality    int
	background string
	clip       string // "x,y,w,h"
	encoding   string
}

// browserFlags holds browser lifecycle flags.
type browserFlags struct {
	timeout     string
	idleTimeout string
	bin         string
	noSandbox   bool
}

// convertFlags holds all flags for the convert and watch commands.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	image    imageFlags
	browser  browserFlags
	debounce time.Duration // watch only
}

// addCommonFlags adds common flags to a FlagSet.
// --quiet has no shorthand: -q is quality.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.quiet, "quiet", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show browser lifecycle and timing")
}

// addImageFlags adds image option flags to a FlagSet.
func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.StringVarP(&f.typ, "type", "t", "", "image type: png, jpeg (jpg), webp")
	fs.IntVar(&f.width, "width", 0, "output width in pixels (0 = SVG width)")
	fs.IntVar(&f.height, "height", 0, "output height in pixels (0 = SVG height)")
	fs.IntVarP(&f.quality, "quality", "q", 0, "quality for jpeg and webp (1-100, default 100)")
	fs.StringVar(&f.background, "background", "", "CSS background color")
	fs.StringVar(&f.clip, "clip", "", "clip rectangle: x,y,width,height")
	fs.StringVarP(&f.encoding, "encoding", "e", "", "print the image to stdout in this encoding (base64, hex, ...)")
}

// addBrowserFlags adds browser lifecycle flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.timeout, "timeout", "", "per-file conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.idleTimeout, "idle-timeout", "", "close the browser after this idle period (default 1s)")
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium binary (default ROD_BROWSER_BIN or managed download)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers)")
}

// newConvertFlagSet builds the flag set shared by convert and watch.
func newConvertFlagSet(name string, f *convertFlags, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = auto)")

	addCommonFlags(fs, &f.common)
	addImageFlags(fs, &f.image)
	addBrowserFlags(fs, &f.browser)

	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet("convert", f, printConvertUsage, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newWatchFlagSet builds the watch flag set: convert flags plus --debounce.
func newWatchFlagSet(f *convertFlags, stderr io.Writer) *flag.FlagSet {
	fs := newConvertFlagSet("watch", f, printWatchUsage, stderr)
	fs.DurationVar(&f.debounce, "debounce", defaultDebounce, "wait this long after the last change before rendering")
	return fs
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newWatchFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseClip parses "x,y,width,height" into a Clip. Empty input means no clip.
func parseClip(s string) (*svg2img.Clip, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: %q (want x,y,width,height)", svg2img.ErrInvalidClip, s)
	}
	var v [4]float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", svg2img.ErrInvalidClip, s, err)
		}
		v[i] = n
	}
	clip := &svg2img.Clip{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if err := clip.Validate(); err != nil {
		return nil, err
	}
	return clip, nil
}

// parseDuration parses a positive Go duration. Empty input returns 0.
func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidDuration, name, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidDuration, name, s)
	}
	return d, nil
}
