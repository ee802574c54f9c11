// Package rod implements locsearch.Fetcher with headless Chrome so that
// pages rendered by JavaScript can be extracted.
package rod

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements locsearch.Fetcher at compile time.
var _ locsearch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless Chrome browser and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
//
// Returns EUNAVAILABLE if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to the URL, waits for the load event, and returns the
// rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	browser, err := f.current()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", locsearch.Errorf(locsearch.ETRANSPORT, "fetch %s: %v", url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", locsearch.Errorf(locsearch.ETRANSPORT, "opening page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", locsearch.Errorf(locsearch.ETRANSPORT, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", locsearch.Errorf(locsearch.ETRANSPORT, "loading %s: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", locsearch.Errorf(locsearch.ETRANSPORT, "reading %s: %v", url, err)
	}
	return html, nil
}

// Close shuts down the browser and its process. Close is safe to call
// multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var err error
	if f.browser != nil {
		err = f.browser.Close()
	}
	if f.launcher != nil {
		f.launcher.Kill()
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

func (f *Fetcher) current() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, locsearch.Errorf(locsearch.EINVALID, "fetcher closed")
	}
	return f.browser, nil
}
