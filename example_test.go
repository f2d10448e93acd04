package svg2img_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alnah/go-svg2img"
)

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64">` +
	`<circle cx="32" cy="32" r="30" fill="teal"/></svg>`

// Example converts an SVG string to PNG with the default converter.
// Requires Chrome, so it is compiled but not run.
func Example() {
	res, err := svg2img.FromString(iconSVG).ToPNG(context.Background(), nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("icon.png", res.Data, 0o644); err != nil {
		log.Fatal(err)
	}
}

// ExampleNewConverter shows a dedicated converter writing a JPEG whose type
// is inferred from the output path.
func ExampleNewConverter() {
	conv := svg2img.NewConverter(
		svg2img.WithIdleTimeout(5*time.Second),
		svg2img.WithTimeout(30*time.Second),
	)
	defer conv.Close()

	_, err := conv.FromString(iconSVG).To(context.Background(), svg2img.Options{
		Width:   256,
		Height:  256,
		Quality: 85,
		Path:    "icon.jpg",
	})
	if err != nil {
		log.Fatal(err)
	}
}

// ExampleSource_ToWebP returns the image as a data URL body.
func ExampleSource_ToWebP() {
	res, err := svg2img.FromString(iconSVG).ToWebP(context.Background(), &svg2img.ShorthandOptions{
		Clip:     &svg2img.Clip{X: 16, Y: 16, Width: 32, Height: 32},
		Encoding: svg2img.EncodingBase64,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("data:image/webp;base64," + res.Text)
}

func ExampleParseImageType() {
	for _, name := range []string{"PNG", "jpg", ".webp", "gif"} {
		t, err := svg2img.ParseImageType(name)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(t, t.Extension())
	}
	// Output:
	// png .png
	// jpeg .jpg
	// webp .webp
	// error: unsupported image type: "gif" (supported: png, jpeg, webp)
}

func ExampleDefaultOptions() {
	opts := svg2img.DefaultOptions()
	fmt.Println(opts.Type, opts.Quality)
	// Output: png 100
}
