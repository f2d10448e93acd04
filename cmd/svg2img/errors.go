package main

import (
	"context"
	"errors"

	svg2img "github.com/alnah/go-svg2img"
	"github.com/alnah/go-svg2img/internal/config"
	"github.com/alnah/go-svg2img/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput                 = errors.New("no input specified")
	ErrReadSVG                 = errors.New("failed to read SVG file")
	ErrCreateOutputDir         = errors.New("failed to create output directory")
	ErrInvalidExtension        = errors.New("file must have .svg extension")
	ErrInvalidWorkerCount      = errors.New("invalid worker count")
	ErrInvalidDuration         = errors.New("invalid duration")
	ErrEncodingNeedsSingleFile = errors.New("--encoding requires a single input file")
	ErrUnknownCommand          = errors.New("unknown command")
)

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error) string {
	switch {
	case errors.Is(err, svg2img.ErrBrowserLaunch):
		return hints.ForBrowserLaunch()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, svg2img.ErrUnsupportedType):
		return hints.ForUnsupportedType(supportedTypeNames())
	case errors.Is(err, svg2img.ErrRender):
		return hints.ForRender()
	case errors.Is(err, svg2img.ErrWriteOutput), errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

func supportedTypeNames() []string {
	names := make([]string, len(svg2img.SupportedTypes))
	for i, t := range svg2img.SupportedTypes {
		names[i] = string(t)
	}
	return names
}
