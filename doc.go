// Package svg2img converts SVG documents to PNG, JPEG, or WebP using headless
// Chrome.
//
// # Quick Start
//
// Convert with the process-wide default converter:
//
//	res, err := svg2img.FromString(`<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64">...</svg>`).
//	    ToPNG(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("icon.png", res.Data, 0644)
//
// Or create a dedicated converter and close it when done:
//
//	conv := svg2img.NewConverter(svg2img.WithIdleTimeout(5 * time.Second))
//	defer conv.Close()
//
//	res, err := conv.From(svgBytes).To(ctx, svg2img.Options{
//	    Width:    512,
//	    Height:   512,
//	    Path:     "out/icon.webp", // type inferred from the extension
//	    Encoding: svg2img.EncodingBase64,
//	})
//
// # Browser Lifecycle
//
// A Converter starts a single browser on its first conversion and reuses it,
// and the browser's first page, for every later conversion. Concurrent first
// conversions share one launch. After the last conversion, an idle timer
// (DefaultIdleTimeout, see WithIdleTimeout) closes the browser; the next
// conversion starts a new one.
//
// Every render runs with the page's network emulated offline, so an SVG can
// not fetch remote resources.
//
// # Options
//
// Zero-valued Options fields are unset. Resolution order is: library
// defaults (PNG, quality 100), then shorthand defaults (the type implied by
// ToPNG, ToJPEG, ToWebP), then the caller's options. When Options.Type is
// empty and Options.Path ends in .png, .jpg, .jpeg or .webp, the type comes
// from the extension.
//
// # Results
//
// Result.Data always holds the image bytes. Setting Options.Encoding also
// fills Result.Text: EncodingBase64 returns the browser's base64 payload as
// is, other encodings reinterpret the bytes as text.
//
// # Browser Requirements
//
// Conversion requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package svg2img
