package svg2img

import "errors"

// Sentinel errors for library operations.
var (
	ErrBrowserLaunch   = errors.New("failed to launch browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrOfflineMode     = errors.New("failed to switch page offline")
	ErrRender          = errors.New("SVG rendering failed")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrConverterClosed = errors.New("converter is closed")

	// Option validation errors.
	ErrUnsupportedType     = errors.New("unsupported image type")
	ErrInvalidQuality      = errors.New("invalid quality")
	ErrInvalidDimensions   = errors.New("invalid dimensions")
	ErrInvalidClip         = errors.New("invalid clip rectangle")
	ErrUnsupportedEncoding = errors.New("unsupported output encoding")
)
