package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	svg2img "github.com/alnah/go-svg2img"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake browser
// ---------------------------------------------------------------------------

var (
	_ svg2img.Launcher = (*fakeLauncher)(nil)
	_ svg2img.Browser  = (*fakeBrowser)(nil)
	_ svg2img.Page     = (*fakePage)(nil)
)

// fakeImage is the image every fake render produces.
var fakeImage = []byte("\x89PNG fake image")

var errFakeLaunch = errors.New("fake launch failure")

// fakeLauncher starts in-memory browsers. Renders are counted across all of
// them.
type fakeLauncher struct {
	launchErr error
	evalErr   error

	mu       sync.Mutex
	launches int
	renders  int
	svgs     []string
}

func (l *fakeLauncher) Launch(ctx context.Context) (svg2img.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return &fakeBrowser{launcher: l}, nil
}

func (l *fakeLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

func (l *fakeLauncher) renderCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renders
}

type fakeBrowser struct {
	launcher *fakeLauncher

	mu    sync.Mutex
	pages []svg2img.Page
}

func (b *fakeBrowser) NewPage(ctx context.Context) (svg2img.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &fakePage{launcher: b.launcher}
	b.pages = append(b.pages, p)
	return p, nil
}

func (b *fakeBrowser) Pages(ctx context.Context) ([]svg2img.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]svg2img.Page(nil), b.pages...), nil
}

func (b *fakeBrowser) Close() error { return nil }

type fakePage struct {
	launcher *fakeLauncher
}

func (p *fakePage) SetOffline(ctx context.Context, offline bool) error { return nil }

func (p *fakePage) Evaluate(ctx context.Context, js string, args ...any) (string, error) {
	l := p.launcher
	l.mu.Lock()
	defer l.mu.Unlock()
	l.renders++
	if len(args) > 0 {
		if svg, ok := args[0].(string); ok {
			l.svgs = append(l.svgs, svg)
		}
	}
	if l.evalErr != nil {
		return "", l.evalErr
	}
	return base64.StdEncoding.EncodeToString(fakeImage), nil
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and files
// ---------------------------------------------------------------------------

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv returns an Environment writing to buffers and rendering through l.
func testEnv(l *fakeLauncher) (*Environment, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	return &Environment{
		Now:      func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdout:   stdout,
		Stderr:   stderr,
		Launcher: l,
	}, stdout, stderr
}

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// assertImage fails unless path holds the fake image.
func assertImage(t *testing.T, path string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected image at %s: %v", path, err)
	}
	if !bytes.Equal(got, fakeImage) {
		t.Errorf("%s = %q, want fake image", path, got)
	}
}

// waitFor polls cond until it holds or d elapses.
func waitFor(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %v waiting for %s", d, what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
