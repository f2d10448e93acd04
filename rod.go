package svg2img

import (
	"context"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-svg2img/internal/process"
)

// Compile-time interface checks
var (
	_ Launcher = (*rodLauncher)(nil)
	_ Browser  = (*rodBrowser)(nil)
	_ Page     = (*rodPage)(nil)
)

// rodLauncher implements Launcher using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodLauncher struct {
	bin       string
	noSandbox bool
}

// newRodLauncher creates a launcher configured from the environment:
// ROD_BROWSER_BIN selects a pre-installed browser, and ROD_NO_SANDBOX=1 or
// CI=true disables the Chrome sandbox.
func newRodLauncher() *rodLauncher {
	bin := os.Getenv("ROD_BROWSER_BIN")
	return &rodLauncher{
		bin:       bin,
		noSandbox: os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true",
	}
}

// Launch starts a headless browser and connects to it.
func (l *rodLauncher) Launch(ctx context.Context) (Browser, error) {
	ln := launcher.New().Context(ctx).Headless(true)

	if l.bin != "" {
		ln = ln.Bin(l.bin)
	}
	if l.noSandbox {
		ln = ln.NoSandbox(true)
	}

	u, err := ln.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("connecting: %w", err)
	}

	return &rodBrowser{browser: browser, launcher: ln}, nil
}

// rodBrowser implements Browser over a connected rod.Browser.
type rodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewPage opens a blank page.
func (b *rodBrowser) NewPage(ctx context.Context) (Page, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	return &rodPage{page: page}, nil
}

// Pages lists the open pages.
func (b *rodBrowser) Pages(ctx context.Context) ([]Page, error) {
	pages, err := b.browser.Context(ctx).Pages()
	if err != nil {
		return nil, err
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = &rodPage{page: p}
	}
	return out, nil
}

// Close disconnects from the browser, then kills its process tree and
// removes its user data directory.
func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	if pid := b.launcher.PID(); pid > 0 {
		process.KillGroup(pid)
	}
	b.launcher.Kill()
	b.launcher.Cleanup()
	return err
}

// rodPage implements Page over a rod.Page.
type rodPage struct {
	page *rod.Page
}

// SetOffline toggles network emulation so the page cannot reach the network.
func (p *rodPage) SetOffline(ctx context.Context, offline bool) error {
	page := p.page.Context(ctx)
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return err
	}
	return proto.NetworkEmulateNetworkConditions{
		Offline:            offline,
		Latency:            0,
		DownloadThroughput: -1,
		UploadThroughput:   -1,
	}.Call(page)
}

// Evaluate runs a JavaScript function in the page and returns its string
// result, awaiting it when it returns a promise.
func (p *rodPage) Evaluate(ctx context.Context, js string, args ...any) (string, error) {
	res, err := p.page.Context(ctx).Evaluate(rod.Eval(js, args...).ByPromise())
	if err != nil {
		return "", err
	}
	if res.Type != proto.RuntimeRemoteObjectTypeString {
		return "", fmt.Errorf("expected string result, got %s", res.Type)
	}
	return res.Value.Str(), nil
}
