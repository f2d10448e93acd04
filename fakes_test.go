package svg2img

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ Launcher = (*fakeLauncher)(nil)
	_ Browser  = (*fakeBrowser)(nil)
	_ Page     = (*fakePage)(nil)
)

// fakePayload is the base64 image data fake pages return by default.
var fakePayload = base64.StdEncoding.EncodeToString([]byte("\x89PNG fake image"))

// errFake is a generic failure injected into fakes.
var errFake = errors.New("fake failure")

// fakeLauncher implements Launcher without starting a browser.
// Every browser it creates shares the page behavior configured here.
type fakeLauncher struct {
	delay      time.Duration // per launch
	failures   int           // number of leading launches that fail
	newPageErr error
	pagesErr   error
	offlineErr error
	evalErr    error
	payload    string // "" = fakePayload

	mu       sync.Mutex
	launches int
	browsers []*fakeBrowser
}

func (l *fakeLauncher) Launch(ctx context.Context) (Browser, error) {
	l.mu.Lock()
	l.launches++
	fail := l.launches <= l.failures
	l.mu.Unlock()

	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if fail {
		return nil, errFake
	}

	payload := l.payload
	if payload == "" {
		payload = fakePayload
	}
	b := &fakeBrowser{
		newPageErr: l.newPageErr,
		pagesErr:   l.pagesErr,
		offlineErr: l.offlineErr,
		evalErr:    l.evalErr,
		payload:    payload,
		closedCh:   make(chan struct{}),
	}

	l.mu.Lock()
	l.browsers = append(l.browsers, b)
	l.mu.Unlock()
	return b, nil
}

func (l *fakeLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

func (l *fakeLauncher) browserCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.browsers)
}

func (l *fakeLauncher) browser(t *testing.T, i int) *fakeBrowser {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if i >= len(l.browsers) {
		t.Fatalf("browser %d not launched (launched %d)", i, len(l.browsers))
	}
	return l.browsers[i]
}

// fakeBrowser implements Browser with in-memory pages.
type fakeBrowser struct {
	newPageErr error
	pagesErr   error
	offlineErr error
	evalErr    error
	payload    string

	mu       sync.Mutex
	pages    []*fakePage
	newPages int
	closes   int
	closedCh chan struct{}
}

func (b *fakeBrowser) NewPage(ctx context.Context) (Page, error) {
	if b.newPageErr != nil {
		return nil, b.newPageErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &fakePage{offlineErr: b.offlineErr, evalErr: b.evalErr, payload: b.payload}
	b.pages = append(b.pages, p)
	b.newPages++
	return p, nil
}

func (b *fakeBrowser) Pages(ctx context.Context) ([]Page, error) {
	if b.pagesErr != nil {
		return nil, b.pagesErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Page, len(b.pages))
	for i, p := range b.pages {
		out[i] = p
	}
	return out, nil
}

func (b *fakeBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	if b.closes == 1 {
		close(b.closedCh)
	}
	return nil
}

func (b *fakeBrowser) isClosed() bool {
	select {
	case <-b.closedCh:
		return true
	default:
		return false
	}
}

func (b *fakeBrowser) pageCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.newPages
}

// waitClosed fails the test if b is not closed within d.
func (b *fakeBrowser) waitClosed(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case <-b.closedCh:
	case <-time.After(d):
		t.Fatalf("browser not closed within %v", d)
	}
}

// fakePage implements Page, recording every call in order.
type fakePage struct {
	offlineErr error
	evalErr    error
	payload    string

	mu       sync.Mutex
	calls    []string
	offline  bool
	svgs     []string
	requests []renderRequest
}

func (p *fakePage) SetOffline(ctx context.Context, offline bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "offline")
	if p.offlineErr != nil {
		return p.offlineErr
	}
	p.offline = offline
	return nil
}

func (p *fakePage) Evaluate(ctx context.Context, js string, args ...any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.offline {
		p.calls = append(p.calls, "evaluate-online")
	} else {
		p.calls = append(p.calls, "evaluate")
	}
	if len(args) == 2 {
		if svg, ok := args[0].(string); ok {
			p.svgs = append(p.svgs, svg)
		}
		if req, ok := args[1].(renderRequest); ok {
			p.requests = append(p.requests, req)
		}
	}
	if p.evalErr != nil {
		return "", p.evalErr
	}
	return p.payload, nil
}

func (p *fakePage) callLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakePage) lastRequest(t *testing.T) renderRequest {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		t.Fatal("no render request recorded")
	}
	return p.requests[len(p.requests)-1]
}

// onlyPage returns the single page of the first launched browser.
func onlyPage(t *testing.T, l *fakeLauncher) *fakePage {
	t.Helper()
	b := l.browser(t, 0)
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pages) != 1 {
		t.Fatalf("browser has %d pages, want 1", len(b.pages))
	}
	return b.pages[0]
}
