package svg2img

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Launcher starts a browser. Implementations must return a connected browser
// or an error; a half-started browser must be cleaned up by the launcher.
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser instance.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Pages(ctx context.Context) ([]Page, error)
	Close() error
}

// Page is an execution context of a Browser where rendering runs.
type Page interface {
	SetOffline(ctx context.Context, offline bool) error
	// Evaluate runs the JavaScript function js with args and returns its
	// string result, awaiting it if it is a promise.
	Evaluate(ctx context.Context, js string, args ...any) (string, error)
}

// DefaultIdleTimeout is how long a browser stays alive after the last
// conversion finished.
const DefaultIdleTimeout = time.Second

// launchKey is the singleflight key for browser creation.
const launchKey = "browser"

// browserManager owns at most one browser and tears it down after an idle
// period. It is safe for concurrent use.
type browserManager struct {
	launcher    Launcher
	idleTimeout time.Duration
	logger      *log.Logger

	launches singleflight.Group

	mu      sync.Mutex
	browser Browser
	timer   *time.Timer
	timerID uint64 // bumped whenever the pending timer is invalidated
	active  int    // conversions holding the browser
	closed  bool
}

// newBrowserManager creates a manager. No browser is started until the first
// acquisition.
func newBrowserManager(l Launcher, idleTimeout time.Duration, logger *log.Logger) *browserManager {
	return &browserManager{
		launcher:    l,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

// acquire returns a ready page and a release func the caller must invoke once
// done with the page. Release schedules teardown.
func (m *browserManager) acquire(ctx context.Context) (Page, func(), error) {
	b, err := m.acquireBrowser(ctx)
	if err != nil {
		return nil, nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			m.active--
			m.mu.Unlock()
			m.scheduleTeardown()
		})
	}

	page, err := m.acquirePage(ctx, b)
	if err != nil {
		release()
		return nil, nil, err
	}
	return page, release, nil
}

// acquireBrowser returns the shared browser, launching it if needed.
// Concurrent callers share a single launch. The pending teardown is cancelled
// and the caller is counted as active until it releases.
func (m *browserManager) acquireBrowser(ctx context.Context) (Browser, error) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return nil, ErrConverterClosed
		}
		m.stopTimerLocked()
		if b := m.browser; b != nil {
			m.active++
			m.mu.Unlock()
			return b, nil
		}
		m.mu.Unlock()

		// Waiters loop back and pick up the stored browser; if it was torn
		// down in between, the next iteration launches a new one.
		ch := m.launches.DoChan(launchKey, m.launch)
		select {
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// launch starts a browser and opens its page. It runs inside singleflight, so
// at most one launch is in flight. On any failure nothing is stored.
func (m *browserManager) launch() (any, error) {
	m.mu.Lock()
	if b := m.browser; b != nil {
		m.mu.Unlock()
		return b, nil
	}
	m.mu.Unlock()

	// Not bound to a caller's ctx: the browser outlives the caller that
	// triggered the launch.
	ctx := context.Background()

	start := time.Now()
	m.logger.Debug("launching browser")
	b, err := m.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	if _, err := b.NewPage(ctx); err != nil {
		if closeErr := b.Close(); closeErr != nil {
			m.logger.Warn("closing browser after page failure", "err", closeErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		go m.closeBrowser(b)
		return nil, ErrConverterClosed
	}
	m.browser = b
	m.mu.Unlock()

	// Armed in case every waiter gave up; waiters cancel it on pickup.
	m.scheduleTeardown()

	m.logger.Debug("browser ready", "elapsed", time.Since(start).Round(time.Millisecond))
	return b, nil
}

// acquirePage returns the first page of b, creating one if b has none.
func (m *browserManager) acquirePage(ctx context.Context, b Browser) (Page, error) {
	pages, err := b.Pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing pages: %v", ErrPageCreate, err)
	}
	if len(pages) > 0 {
		return pages[0], nil
	}

	page, err := b.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return page, nil
}

// scheduleTeardown (re)starts the idle timer. When it fires with no
// conversion in flight, the browser reference is cleared and the browser is
// closed in the background.
func (m *browserManager) scheduleTeardown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.stopTimerLocked()

	id := m.timerID
	m.timer = time.AfterFunc(m.idleTimeout, func() {
		m.mu.Lock()
		if id != m.timerID || m.active > 0 || m.browser == nil {
			m.mu.Unlock()
			return
		}
		b := m.browser
		m.browser = nil
		m.timer = nil
		m.mu.Unlock()

		m.logger.Debug("closing idle browser", "idle", m.idleTimeout)
		go m.closeBrowser(b)
	})
}

// stopTimerLocked cancels the pending teardown. A timer that already fired
// sees a stale id and does nothing. m.mu must be held.
func (m *browserManager) stopTimerLocked() {
	m.timerID++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// closeBrowser closes b, logging failures. Used for fire-and-forget teardown.
func (m *browserManager) closeBrowser(b Browser) {
	if err := b.Close(); err != nil {
		m.logger.Warn("closing browser", "err", err)
	}
}

// alive reports whether a browser is currently held.
func (m *browserManager) alive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// close stops the timer and closes the browser synchronously. Further
// acquisitions fail with ErrConverterClosed.
func (m *browserManager) close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.stopTimerLocked()
	b := m.browser
	m.browser = nil
	m.mu.Unlock()

	if b == nil {
		return nil
	}
	m.logger.Debug("closing browser")
	return b.Close()
}
