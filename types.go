package svg2img

import (
	"fmt"
	"strings"
)

// ImageType is a raster format the browser canvas can encode.
type ImageType string

// Supported image types.
const (
	TypePNG  ImageType = "png"
	TypeJPEG ImageType = "jpeg"
	TypeWebP ImageType = "webp"
)

// SupportedTypes lists the image types accepted by Options.Type, in the
// order they are reported to users.
var SupportedTypes = []ImageType{TypePNG, TypeJPEG, TypeWebP}

// IsSupported reports whether t is one of SupportedTypes.
func (t ImageType) IsSupported() bool {
	switch t {
	case TypePNG, TypeJPEG, TypeWebP:
		return true
	}
	return false
}

// MIMEType returns the media type passed to canvas.toDataURL.
func (t ImageType) MIMEType() string {
	return "image/" + string(t)
}

// Extension returns the conventional file extension, including the dot.
func (t ImageType) Extension() string {
	if t == TypeJPEG {
		return ".jpg"
	}
	return "." + string(t)
}

// Quality bounds. Zero means "unset" and resolves to DefaultQuality.
const (
	MinQuality     = 0
	MaxQuality     = 100
	DefaultQuality = 100
)

// jpegBackground fills the canvas for JPEG output when no background is given,
// since JPEG has no alpha channel.
const jpegBackground = "#fff"

// Clip restricts rendering to a rectangle of the drawn SVG, in pixels.
type Clip struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks that the rectangle is non-empty and starts inside the canvas.
// Returns nil if c is nil (nil means no clipping).
func (c *Clip) Validate() error {
	if c == nil {
		return nil
	}
	if c.X < 0 || c.Y < 0 {
		return fmt.Errorf("%w: origin (%g, %g) must not be negative", ErrInvalidClip, c.X, c.Y)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %gx%g must be positive", ErrInvalidClip, c.Width, c.Height)
	}
	return nil
}

// Options configures a single conversion.
// Zero values mean "unset": they are filled from shorthand defaults, then from
// the library defaults.
type Options struct {
	Width      int       // pixels; 0 = SVG intrinsic width
	Height     int       // pixels; 0 = SVG intrinsic height
	Type       ImageType // png, jpeg, webp; inferred from Path when empty
	Quality    int       // 1-100 for jpeg and webp; 0 = DefaultQuality (100)
	Background string    // CSS color painted under the SVG
	Clip       *Clip     // region of the drawn SVG to keep
	Path       string    // when set, the image is also written here
	Encoding   Encoding  // when set, Result.Text holds the encoded image
}

// ShorthandOptions is Options without Type, which the shorthand entry point
// (ToPNG, ToJPEG, ToWebP) implies.
type ShorthandOptions struct {
	Width      int
	Height     int
	Quality    int // 0 = DefaultQuality (100)
	Background string
	Clip       *Clip
	Path       string
	Encoding   Encoding
}

// options lifts shorthand options into a full record with Type unset.
func (s *ShorthandOptions) options() Options {
	if s == nil {
		return Options{}
	}
	return Options{
		Width:      s.Width,
		Height:     s.Height,
		Quality:    s.Quality,
		Background: s.Background,
		Clip:       s.Clip,
		Path:       s.Path,
		Encoding:   s.Encoding,
	}
}

// Validate checks resolved options before any browser work starts.
func (o *Options) Validate() error {
	if o.Type != "" && !o.Type.IsSupported() {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedType, o.Type, supportedTypeList())
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("%w: %dx%d must not be negative", ErrInvalidDimensions, o.Width, o.Height)
	}
	if o.Quality < MinQuality || o.Quality > MaxQuality {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidQuality, o.Quality, MinQuality, MaxQuality)
	}
	if err := o.Clip.Validate(); err != nil {
		return err
	}
	if !o.Encoding.IsSupported() {
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, o.Encoding)
	}
	return nil
}

// supportedTypeList formats SupportedTypes for error messages.
func supportedTypeList() string {
	names := make([]string, len(SupportedTypes))
	for i, t := range SupportedTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ParseImageType converts a user-supplied name (case-insensitive, "jpg"
// accepted) to an ImageType.
func ParseImageType(s string) (ImageType, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if name == "jpg" {
		name = string(TypeJPEG)
	}
	t := ImageType(name)
	if !t.IsSupported() {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedType, s, supportedTypeList())
	}
	return t, nil
}
