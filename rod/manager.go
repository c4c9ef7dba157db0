package rod

import (
	"sync"

	"github.com/fwojciec/deliver"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages a browser serves before it is
// replaced.
const DefaultMaxPages = 50

// BrowserManager owns the headless browser shared by fetchers and hidden
// surfaces. Chrome's memory baseline only grows over a long session, so the
// browser is relaunched after maxPages pages, but never while a page is open.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool

	pages    int64 // pages served by the current browser
	maxPages int64
	open     int // pages currently in use
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser serves before it is replaced.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome. Close must be called when the
// manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Browser returns the current browser, relaunching it first when it has
// served maxPages pages and nothing is open. Returns nil after Close.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.maybeRelaunch()
	return bm.browser
}

// CountPage records one page served by the current browser.
func (bm *BrowserManager) CountPage() {
	bm.mu.Lock()
	bm.pages++
	bm.mu.Unlock()
}

// acquire marks a page open and returns the browser to open it in. Each
// acquire is paired with a release.
func (bm *BrowserManager) acquire() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.maybeRelaunch()
	bm.open++
	return bm.browser
}

// release marks a page started with acquire as done.
func (bm *BrowserManager) release() {
	bm.mu.Lock()
	bm.open--
	bm.pages++
	bm.mu.Unlock()
}

// maybeRelaunch swaps in a fresh browser. A failed launch keeps the old one.
// Must be called with mu held.
func (bm *BrowserManager) maybeRelaunch() {
	if bm.open > 0 || bm.pages < bm.maxPages {
		return
	}
	browser, l, err := launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.pages = 0
}

// Close shuts the browser down. Calling Close again is a no-op.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	err := shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, deliver.Errorf(deliver.EINTERNAL, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, deliver.Errorf(deliver.EINTERNAL, "connecting to browser: %v", err)
	}
	return browser, l, nil
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
