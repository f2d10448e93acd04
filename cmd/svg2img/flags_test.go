package main

import (
	"errors"
	"io"
	"testing"
	"time"

	svg2img "github.com/alnah/go-svg2img"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag binding
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"in.svg",
		"-o", "out",
		"-t", "jpg",
		"--width", "640",
		"--height", "480",
		"-q", "80",
		"--background", "#000",
		"--clip", "0,0,10,10",
		"-e", "hex",
		"-w", "4",
		"--timeout", "30s",
		"--idle-timeout", "5s",
		"--browser-bin", "/usr/bin/chromium",
		"--no-sandbox",
		"-c", "work",
		"--quiet",
		"-v",
	}

	f, positional, err := parseConvertFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	if len(positional) != 1 || positional[0] != "in.svg" {
		t.Errorf("positional = %v, want [in.svg]", positional)
	}
	want := convertFlags{
		common:  commonFlags{config: "work", quiet: true, verbose: true},
		output:  "out",
		workers: 4,
		image: imageFlags{
			typ: "jpg", width: 640, height: 480, quality: 80,
			background: "#000", clip: "0,0,10,10", encoding: "hex",
		},
		browser: browserFlags{timeout: "30s", idleTimeout: "5s", bin: "/usr/bin/chromium", noSandbox: true},
	}
	if *f != want {
		t.Errorf("flags = %+v, want %+v", *f, want)
	}
}

func TestParseConvertFlags_RejectsDebounce(t *testing.T) {
	t.Parallel()

	if _, _, err := parseConvertFlags([]string{"--debounce", "1s"}, io.Discard); err == nil {
		t.Error("--debounce is a watch flag and should be rejected by convert")
	}
}

func TestParseWatchFlags_Debounce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want time.Duration
	}{
		{"default", []string{"dir"}, defaultDebounce},
		{"explicit", []string{"dir", "--debounce", "50ms"}, 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, _, err := parseWatchFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("parseWatchFlags() error = %v", err)
			}
			if f.debounce != tt.want {
				t.Errorf("debounce = %v, want %v", f.debounce, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseClip - Clip rectangle parsing
// ---------------------------------------------------------------------------

func TestParseClip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *svg2img.Clip
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"integers", "0,0,100,50", &svg2img.Clip{Width: 100, Height: 50}, false},
		{"floats with spaces", "1.5, 2.5, 10, 20", &svg2img.Clip{X: 1.5, Y: 2.5, Width: 10, Height: 20}, false},
		{"too few parts", "1,2,3", nil, true},
		{"too many parts", "1,2,3,4,5", nil, true},
		{"not a number", "a,0,1,1", nil, true},
		{"zero width", "0,0,0,10", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseClip(tt.input)
			if tt.wantErr {
				if !errors.Is(err, svg2img.ErrInvalidClip) {
					t.Errorf("parseClip(%q) error = %v, want ErrInvalidClip", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClip(%q) unexpected error: %v", tt.input, err)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("parseClip(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseDuration - Positive Go durations
// ---------------------------------------------------------------------------

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"1s", time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"soon", 0, true},
		{"0s", 0, true},
		{"-1s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := parseDuration("--timeout", tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDuration) {
					t.Errorf("parseDuration(%q) error = %v, want ErrInvalidDuration", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDuration(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
