// Package browser provides the chromedp-backed implementation of the
// scanner's PageController capability, plus browser lifecycle management.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// Browser owns a shared headless-browser allocator. Individual scans open
// tabs off it; a single tab is never driven concurrently.
type Browser struct {
	headless  bool
	userAgent string
	timeout   time.Duration

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
}

// Option configures a Browser.
type Option func(*Browser)

// WithHeadless sets whether Chrome runs headless.
func WithHeadless(b bool) Option { return func(c *Browser) { c.headless = b } }

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option { return func(c *Browser) { c.userAgent = ua } }

// WithTimeout bounds every page-level operation. Non-positive values keep
// the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Browser) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New launches a shared browser context.
func New(opts ...Option) (*Browser, error) {
	b := &Browser{
		headless:  true,
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.UserAgent(b.userAgent),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	b.browserCtx, b.cancel = chromedp.NewContext(b.allocCtx)
	return b, nil
}

// Close tears down the shared browser.
func (b *Browser) Close() {
	b.cancel()
	b.allocCancel()
}

// OpenPage navigates a fresh tab to the URL and returns its controller. The
// caller must invoke the cancel function when done with the tab.
func (b *Browser) OpenPage(url string) (*Page, context.CancelFunc, error) {
	tabCtx, cancel := chromedp.NewContext(b.browserCtx)

	navCtx, navCancel := context.WithTimeout(tabCtx, b.timeout)
	defer navCancel()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		cancel()
		return nil, nil, err
	}
	return &Page{ctx: tabCtx, timeout: b.timeout}, cancel, nil
}
