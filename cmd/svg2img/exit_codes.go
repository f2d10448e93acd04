package main

import (
	"errors"
	"os"

	svg2img "github.com/alnah/go-svg2img"
	"github.com/alnah/go-svg2img/internal/config"
)

// Exit codes for svg2img CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, svg2img.ErrBrowserLaunch) ||
		errors.Is(err, svg2img.ErrPageCreate) ||
		errors.Is(err, svg2img.ErrOfflineMode) ||
		errors.Is(err, svg2img.ErrRender) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, svg2img.ErrWriteOutput) ||
		errors.Is(err, ErrReadSVG) ||
		errors.Is(err, ErrCreateOutputDir) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, svg2img.ErrUnsupportedType) ||
		errors.Is(err, svg2img.ErrInvalidQuality) ||
		errors.Is(err, svg2img.ErrInvalidDimensions) ||
		errors.Is(err, svg2img.ErrInvalidClip) ||
		errors.Is(err, svg2img.ErrUnsupportedEncoding) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrEncodingNeedsSingleFile) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	return ExitGeneral
}
