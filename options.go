package svg2img

import "github.com/alnah/go-svg2img/internal/fileutil"

// defaultOptions is the base layer every conversion is resolved against.
var defaultOptions = Options{
	Type:    TypePNG,
	Quality: DefaultQuality,
}

// Shorthand defaults, layered between defaultOptions and caller options.
var (
	defaultPNGOptions  = Options{Type: TypePNG}
	defaultJPEGOptions = Options{Type: TypeJPEG}
	defaultWebPOptions = Options{Type: TypeWebP}
)

// DefaultOptions returns the library defaults applied to every conversion.
func DefaultOptions() Options {
	return defaultOptions
}

// resolveOptions merges layers in order; a non-zero field in a later layer
// overrides the same field in earlier ones.
func resolveOptions(layers ...Options) Options {
	var out Options
	for _, l := range layers {
		if l.Width != 0 {
			out.Width = l.Width
		}
		if l.Height != 0 {
			out.Height = l.Height
		}
		if l.Type != "" {
			out.Type = l.Type
		}
		if l.Quality != 0 {
			out.Quality = l.Quality
		}
		if l.Background != "" {
			out.Background = l.Background
		}
		if l.Clip != nil {
			clip := *l.Clip
			out.Clip = &clip
		}
		if l.Path != "" {
			out.Path = l.Path
		}
		if l.Encoding != "" {
			out.Encoding = l.Encoding
		}
	}
	return out
}

// inferType returns the image type implied by path's extension, or "" when
// the extension is not a supported image type.
func inferType(path string) ImageType {
	if path == "" {
		return ""
	}
	t := ImageType(fileutil.TypeFromPath(path))
	if !t.IsSupported() {
		return ""
	}
	return t
}

// buildOptions resolves the options for one conversion. The type is inferred
// from Path only when the caller's own options leave Type empty.
func buildOptions(explicit Options) Options {
	resolved := resolveOptions(defaultOptions, explicit)
	if explicit.Type == "" {
		if t := inferType(resolved.Path); t != "" {
			resolved.Type = t
		}
	}
	return resolved
}
