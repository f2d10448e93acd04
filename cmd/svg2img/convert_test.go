package main

// Notes:
// - runConvertCmd is exercised end to end against a fake Launcher: flags,
//   discovery, the shared Converter, batch workers and exit codes. Real
//   browser rendering is covered by the root package integration tests.
// - Tests pass --idle-timeout 1h so no teardown races the assertions;
//   Converter.Close runs at the end of every command anyway.

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunConvertCmd - Files on disk
// ---------------------------------------------------------------------------

func TestRunConvertCmd_SingleFile(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"icon.svg": testSVG})
	l := &fakeLauncher{}
	env, stdout, stderr := testEnv(l)

	code := runConvertCmd(context.Background(), []string{filepath.Join(dir, "icon.svg"), "--idle-timeout", "1h"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d; stderr: %s", code, ExitSuccess, stderr.String())
	}

	out := filepath.Join(dir, "icon.png")
	assertImage(t, out)
	if !strings.Contains(stdout.String(), "Created "+out) {
		t.Errorf("stdout = %q, want Created line", stdout.String())
	}
	if got := l.launchCount(); got != 1 {
		t.Errorf("launches = %d, want 1", got)
	}
}

func TestRunConvertCmd_OutputFileSetsType(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"icon.svg": testSVG})
	env, _, stderr := testEnv(&fakeLauncher{})
	out := filepath.Join(dir, "build", "icon.webp")

	code := runConvertCmd(context.Background(), []string{filepath.Join(dir, "icon.svg"), "-o", out}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr.String())
	}
	assertImage(t, out)
}

func TestRunConvertCmd_DirectoryMirrorsLayout(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"a.svg":             testSVG,
		"nested/b.svg":      testSVG,
		"nested/deep/c.SVG": testSVG,
		".hidden/d.svg":     testSVG,
		"notes.txt":         "skip",
	})
	outDir := filepath.Join(t.TempDir(), "out")
	l := &fakeLauncher{}
	env, stdout, stderr := testEnv(l)

	code := runConvertCmd(context.Background(), []string{dir, "-o", outDir, "-t", "jpeg", "-w", "3"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr.String())
	}

	for _, rel := range []string{"a.jpg", "nested/b.jpg", "nested/deep/c.jpg"} {
		assertImage(t, filepath.Join(outDir, rel))
	}
	if got := l.renderCount(); got != 3 {
		t.Errorf("renders = %d, want 3", got)
	}
	if got := l.launchCount(); got != 1 {
		t.Errorf("launches = %d, want 1 (one browser shared by the batch)", got)
	}
	if !strings.Contains(stdout.String(), "3 succeeded, 0 failed") {
		t.Errorf("stdout = %q, want summary", stdout.String())
	}
}

func TestRunConvertCmd_TOMLConfig(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"icon.svg":     testSVG,
		"svg2img.toml": "[output]\ntype = \"webp\"\nquality = 80\n",
	})
	env, _, stderr := testEnv(&fakeLauncher{})

	code := runConvertCmd(context.Background(), []string{
		filepath.Join(dir, "icon.svg"), "-c", filepath.Join(dir, "svg2img.toml"),
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr.String())
	}
	assertImage(t, filepath.Join(dir, "icon.webp"))
}

func TestRunConvertCmd_Quiet(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.svg": testSVG, "b.svg": testSVG})
	env, stdout, _ := testEnv(&fakeLauncher{})

	if code := runConvertCmd(context.Background(), []string{dir, "--quiet"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if stdout.String() != "" {
		t.Errorf("stdout = %q, want empty with --quiet", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunConvertCmd - Encoded output
// ---------------------------------------------------------------------------

func TestRunConvertCmd_EncodingPrintsToStdout(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"icon.svg": testSVG})
	env, stdout, stderr := testEnv(&fakeLauncher{})

	code := runConvertCmd(context.Background(), []string{filepath.Join(dir, "icon.svg"), "-e", "base64"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr.String())
	}

	want := base64.StdEncoding.EncodeToString(fakeImage) + "\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if fileExists(filepath.Join(dir, "icon.png")) {
		t.Error("no file should be written without -o in encoding mode")
	}
}

func TestRunConvertCmd_EncodingRejectsBatch(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.svg": testSVG, "b.svg": testSVG})
	l := &fakeLauncher{}
	env, _, stderr := testEnv(l)

	code := runConvertCmd(context.Background(), []string{dir, "-e", "hex"}, env)
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "single input file") {
		t.Errorf("stderr = %q, want encoding error", stderr.String())
	}
	if got := l.renderCount(); got != 0 {
		t.Errorf("renders = %d, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// TestRunConvertCmd - Exit codes
// ---------------------------------------------------------------------------

func TestRunConvertCmd_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"icon.svg": testSVG, "notes.txt": "x"})
	svg := filepath.Join(dir, "icon.svg")

	tests := []struct {
		name     string
		args     []string
		launcher *fakeLauncher
		wantCode int
		wantErr  string
	}{
		{"no input", nil, &fakeLauncher{}, ExitIO, "no input"},
		{"missing file", []string{filepath.Join(dir, "missing.svg")}, &fakeLauncher{}, ExitIO, "missing.svg"},
		{"not svg", []string{filepath.Join(dir, "notes.txt")}, &fakeLauncher{}, ExitUsage, ".svg extension"},
		{"empty directory", []string{t.TempDir()}, &fakeLauncher{}, ExitIO, "no SVG files"},
		{"bad type", []string{svg, "-t", "gif"}, &fakeLauncher{}, ExitUsage, "output.type"},
		{"bad quality", []string{svg, "-q", "101"}, &fakeLauncher{}, ExitUsage, "quality"},
		{"bad clip", []string{svg, "--clip", "1,2,3"}, &fakeLauncher{}, ExitUsage, "clip"},
		{"bad encoding", []string{svg, "-e", "rot13"}, &fakeLauncher{}, ExitUsage, "encoding"},
		{"bad timeout", []string{svg, "--timeout", "soon"}, &fakeLauncher{}, ExitUsage, "invalid duration"},
		{"negative workers", []string{svg, "-w", "-1"}, &fakeLauncher{}, ExitUsage, "worker count"},
		{"unknown flag", []string{svg, "--nope"}, &fakeLauncher{}, ExitUsage, "unknown flag"},
		{"launch failure", []string{svg}, &fakeLauncher{launchErr: errFakeLaunch}, ExitBrowser, "failed to launch browser"},
		{"render failure", []string{svg}, &fakeLauncher{evalErr: errFakeLaunch}, ExitBrowser, "rendering failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv(tt.launcher)
			code := runConvertCmd(context.Background(), tt.args, env)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d; stderr: %s", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRunConvertCmd_HelpFlag(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(&fakeLauncher{})
	if code := runConvertCmd(context.Background(), []string{"--help"}, env); code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stderr.String(), "Usage: svg2img convert") {
		t.Errorf("stderr = %q, want convert usage", stderr.String())
	}
}

func TestRunConvertCmd_BrowserHint(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"icon.svg": testSVG})
	env, _, stderr := testEnv(&fakeLauncher{launchErr: errFakeLaunch})

	runConvertCmd(context.Background(), []string{filepath.Join(dir, "icon.svg")}, env)
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want a hint", stderr.String())
	}
}

func TestRunConvertCmd_PartialFailure(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.svg": testSVG, "b.svg": testSVG})
	// Output path collides with an existing directory for b.
	outDir := setupTestDir(t, map[string]string{"b.png/keep": "x"})
	env, stdout, stderr := testEnv(&fakeLauncher{})

	code := runConvertCmd(context.Background(), []string{dir, "-o", outDir}, env)
	if code != ExitIO {
		t.Errorf("exit code = %d, want %d; stderr: %s", code, ExitIO, stderr.String())
	}
	assertImage(t, filepath.Join(outDir, "a.png"))
	if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
		t.Errorf("stdout = %q, want summary", stdout.String())
	}
	if !strings.Contains(stderr.String(), "FAILED") {
		t.Errorf("stderr = %q, want FAILED line", stderr.String())
	}
}

func TestRunConvertCmd_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.svg": testSVG, "b.svg": testSVG})
	l := &fakeLauncher{}
	env, _, _ := testEnv(l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := runConvertCmd(ctx, []string{dir}, env); code == ExitSuccess {
		t.Error("canceled run should not succeed")
	}
	if got := l.renderCount(); got != 0 {
		t.Errorf("renders = %d, want 0", got)
	}
}
