package svg2img

import "sync"

var (
	defaultOnce      sync.Once
	defaultConverter *Converter
)

// Default returns the process-wide Converter used by From and FromString.
// It is created on first use with default options and is never closed; its
// browser still shuts down after DefaultIdleTimeout without conversions.
func Default() *Converter {
	defaultOnce.Do(func() {
		defaultConverter = NewConverter()
	})
	return defaultConverter
}

// From prepares a conversion of svg on the default Converter.
func From(svg []byte) *Source {
	return Default().From(svg)
}

// FromString prepares a conversion of svg on the default Converter.
func FromString(svg string) *Source {
	return Default().FromString(svg)
}
