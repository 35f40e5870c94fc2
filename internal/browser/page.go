package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Page drives a single browser tab. It implements scanner.PageController.
type Page struct {
	ctx     context.Context
	timeout time.Duration
}

func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()
	return chromedp.Run(runCtx, actions...)
}

// Exists reports whether any element matches the selector.
func (p *Page) Exists(ctx context.Context, selector string) (bool, error) {
	var ok bool
	script := fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	if err := p.run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

// IsVisible reports whether the first match takes up layout space.
func (p *Page) IsVisible(ctx context.Context, selector string) (bool, error) {
	var visible bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') return false;
		return el.offsetParent !== null || style.position === 'fixed';
	})()`, selector)
	if err := p.run(ctx, chromedp.Evaluate(script, &visible)); err != nil {
		return false, err
	}
	return visible, nil
}

// IsDisabled reports whether the first match is disabled, either natively or
// via aria/class markers.
func (p *Page) IsDisabled(ctx context.Context, selector string) (bool, error) {
	var disabled bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return true;
		if (el.disabled) return true;
		if (el.getAttribute('aria-disabled') === 'true') return true;
		return el.classList.contains('disabled');
	})()`, selector)
	if err := p.run(ctx, chromedp.Evaluate(script, &disabled)); err != nil {
		return false, err
	}
	return disabled, nil
}

// Click clicks the first visible element matching the selector.
func (p *Page) Click(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// Evaluate runs a script in page context and unmarshals the result into out.
func (p *Page) Evaluate(ctx context.Context, script string, out any) error {
	return p.run(ctx, chromedp.Evaluate(script, out))
}

// CurrentURL returns the tab's current location.
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// Wait blocks for a fixed settle duration, honoring cancellation.
func (p *Page) Wait(ctx context.Context, d time.Duration) error {
	return p.run(ctx, chromedp.Sleep(d))
}

// WaitForNavigation blocks until the document body is ready again after a
// click-triggered navigation.
func (p *Page) WaitForNavigation(ctx context.Context) error {
	return p.run(ctx, chromedp.WaitReady("body"))
}

// HTML returns the tab's full rendered markup.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}
