package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// PageController is the capability surface the pagination handler needs from
// a live browser page. Any headless-browser driver can satisfy it, and tests
// drive the handler against an in-memory fake.
type PageController interface {
	// Exists reports whether any element matches the selector.
	Exists(ctx context.Context, selector string) (bool, error)
	// IsVisible reports whether the first match is rendered and visible.
	IsVisible(ctx context.Context, selector string) (bool, error)
	// IsDisabled reports whether the first match is disabled.
	IsDisabled(ctx context.Context, selector string) (bool, error)
	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error
	// Evaluate runs a script in page context and unmarshals the result.
	Evaluate(ctx context.Context, script string, out any) error
	// CurrentURL returns the page's current location.
	CurrentURL(ctx context.Context) (string, error)
	// Wait blocks for a fixed settle duration.
	Wait(ctx context.Context, d time.Duration) error
	// WaitForNavigation blocks until a started navigation reaches load state.
	WaitForNavigation(ctx context.Context) error
}

// PaginationOptions bounds how far each strategy is driven.
type PaginationOptions struct {
	MaxClicks  int
	MaxPages   int
	MaxScrolls int
	Wait       time.Duration
	Logger     *log.Logger
}

func (o PaginationOptions) withDefaults() PaginationOptions {
	if o.MaxClicks <= 0 {
		o.MaxClicks = 20
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 10
	}
	if o.MaxScrolls <= 0 {
		o.MaxScrolls = 10
	}
	if o.Wait <= 0 {
		o.Wait = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// listingKeywords gate pagination handling to URLs that plausibly enumerate
// sub-entities.
var listingKeywords = []string{
	"/programme",
	"/course",
	"/facult",
	"/undergraduate",
	"/postgraduate",
	"/catalog",
	"/search",
}

// IsListingURL reports whether a URL looks like a listing page worth driving
// pagination on.
func IsListingURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, kw := range listingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Selector sets tried during detection, in priority order. Text-based lookup
// happens in page context: the probe scripts tag the first matching control
// with a data attribute so later interaction can address it by selector.
const (
	loadMoreTagSel = `[data-campusscan-load-more]`
	nextTagSel     = `[data-campusscan-next]`
)

var loadMoreSelectors = []string{
	"button.load-more", ".load-more", "[data-load-more]",
	"button.show-more", ".show-more", "a.load-more",
}

var nextSelectors = []string{
	`a[rel="next"]`, ".pagination .next", ".pagination a.next", "li.next a",
}

const tagLoadMoreByTextJS = `(() => {
	const els = document.querySelectorAll('button, a');
	for (const el of els) {
		const t = (el.textContent || '').trim().toLowerCase();
		if (t === 'load more' || t === 'show more' || t === 'view more') {
			el.setAttribute('data-campusscan-load-more', '1');
			return true;
		}
	}
	return false;
})()`

const tagNextByTextJS = `(() => {
	const container = document.querySelector('.pagination, nav.pager, .pager');
	const scope = container || document;
	const els = scope.querySelectorAll('a');
	for (const el of els) {
		const t = (el.textContent || '').trim().toLowerCase();
		if (t === 'next' || t === '›' || t === '»' || t === 'next page') {
			el.setAttribute('data-campusscan-next', '1');
			return true;
		}
	}
	return false;
})()`

const hasNumberedPaginationJS = `(() => {
	if (document.querySelector('.pagination, ul.pagination, nav[aria-label="pagination"]')) return true;
	const anchors = document.querySelectorAll('a[href]');
	for (const a of anchors) {
		if (a.getAttribute('href').includes('?page=') || a.getAttribute('href').includes('&page=')) return true;
	}
	return false;
})()`

const hasInfiniteScrollJS = `(() => {
	if (document.querySelector('[data-infinite-scroll], .infinite-scroll, .infinite-loader')) return true;
	const html = document.documentElement.outerHTML.toLowerCase();
	return html.includes('infinitescroll') || html.includes('infinite-scroll');
})()`

const itemCountJS = `document.querySelectorAll('article, .card, .item, li, tr').length`

const scrollHeightJS = `document.body.scrollHeight`

const scrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight); true`

const hrefOfJS = `(() => {
	const el = document.querySelector(%q);
	return el ? (el.href || '') : '';
})()`

// HandlePagination detects and drives whatever pagination mechanism a
// listing page uses so that additional content is present before extraction.
// It never returns an error: browser failures are logged and treated as the
// strategy being exhausted, and the returned info describes whatever content
// was actually loaded.
func HandlePagination(ctx context.Context, pc PageController, pageURL string, opts PaginationOptions) PaginationInfo {
	if !IsListingURL(pageURL) {
		return PaginationInfo{Type: PaginationNone, Detected: false}
	}
	opts = opts.withDefaults()

	ptype, selector := detectPaginationType(ctx, pc, opts)
	opts.Logger.Debug("pagination detected", "url", pageURL, "type", ptype)

	switch ptype {
	case PaginationLoadMore:
		return handleLoadMore(ctx, pc, selector, opts)
	case PaginationNumbered:
		return handleNumberedPagination(ctx, pc, pageURL, selector, opts)
	case PaginationInfinite:
		return handleInfiniteScroll(ctx, pc, opts.MaxScrolls, opts)
	}

	// Nothing conclusive: short scroll probe. Only report pagination when it
	// actually surfaced more than one page-equivalent of content.
	probe := handleInfiniteScroll(ctx, pc, 5, opts)
	if probe.PagesLoaded > 1 {
		probe.Detected = true
		return probe
	}
	return PaginationInfo{Type: PaginationNone, Detected: false}
}

// detectPaginationType checks for pagination mechanisms in priority order:
// load-more control, numbered controls, infinite-scroll markers.
func detectPaginationType(ctx context.Context, pc PageController, opts PaginationOptions) (PaginationType, string) {
	for _, sel := range loadMoreSelectors {
		if ok, err := pc.Exists(ctx, sel); err == nil && ok {
			return PaginationLoadMore, sel
		}
	}
	var tagged bool
	if err := pc.Evaluate(ctx, tagLoadMoreByTextJS, &tagged); err == nil && tagged {
		return PaginationLoadMore, loadMoreTagSel
	}

	for _, sel := range nextSelectors {
		if ok, err := pc.Exists(ctx, sel); err == nil && ok {
			return PaginationNumbered, sel
		}
	}
	var numbered bool
	if err := pc.Evaluate(ctx, hasNumberedPaginationJS, &numbered); err == nil && numbered {
		tagged = false
		if err := pc.Evaluate(ctx, tagNextByTextJS, &tagged); err == nil && tagged {
			return PaginationNumbered, nextTagSel
		}
	}

	var infinite bool
	if err := pc.Evaluate(ctx, hasInfiniteScrollJS, &infinite); err == nil && infinite {
		return PaginationInfinite, ""
	}

	return PaginationNone, ""
}

// handleLoadMore clicks the load-more control until it disappears, becomes
// disabled, errors, or the click cap is reached. Items loaded is the delta
// in a coarse DOM element count before vs after.
func handleLoadMore(ctx context.Context, pc PageController, selector string, opts PaginationOptions) PaginationInfo {
	info := PaginationInfo{Type: PaginationLoadMore, Detected: true}

	before := domItemCount(ctx, pc)
	for i := 0; i < opts.MaxClicks; i++ {
		exists, err := pc.Exists(ctx, selector)
		if err != nil || !exists {
			break
		}
		visible, err := pc.IsVisible(ctx, selector)
		if err != nil || !visible {
			break
		}
		disabled, err := pc.IsDisabled(ctx, selector)
		if err != nil || disabled {
			break
		}
		if err := pc.Click(ctx, selector); err != nil {
			opts.Logger.Debug("load-more click failed", "err", err)
			break
		}
		if err := pc.Wait(ctx, opts.Wait); err != nil {
			break
		}
	}
	after := domItemCount(ctx, pc)

	if after > before {
		info.ItemsLoaded = after - before
	}
	return info
}

// handleNumberedPagination walks Next controls page by page. A target URL
// seen earlier in this run aborts the walk so misconfigured pagination rings
// cannot loop forever.
func handleNumberedPagination(ctx context.Context, pc PageController, startURL, selector string, opts PaginationOptions) PaginationInfo {
	info := PaginationInfo{Type: PaginationNumbered, Detected: true}

	visited := map[string]bool{startURL: true}
	for i := 0; i < opts.MaxPages; i++ {
		exists, err := pc.Exists(ctx, selector)
		if err != nil || !exists {
			break
		}
		disabled, err := pc.IsDisabled(ctx, selector)
		if err != nil || disabled {
			break
		}

		var target string
		if err := pc.Evaluate(ctx, fmt.Sprintf(hrefOfJS, selector), &target); err != nil {
			opts.Logger.Debug("next target lookup failed", "err", err)
			break
		}
		if target != "" && visited[target] {
			opts.Logger.Debug("pagination cycle detected", "url", target)
			break
		}

		if err := pc.Click(ctx, selector); err != nil {
			opts.Logger.Debug("next click failed", "err", err)
			break
		}
		if err := pc.WaitForNavigation(ctx); err != nil {
			opts.Logger.Debug("pagination navigation failed", "err", err)
			break
		}
		if err := pc.Wait(ctx, opts.Wait); err != nil {
			break
		}

		info.PagesLoaded++
		if target != "" {
			visited[target] = true
		}
		if cur, err := pc.CurrentURL(ctx); err == nil && cur != "" {
			visited[cur] = true
		}
	}
	return info
}

// handleInfiniteScroll scrolls to the document bottom until the scroll
// height stops growing for three consecutive iterations or the cap is hit.
func handleInfiniteScroll(ctx context.Context, pc PageController, maxScrolls int, opts PaginationOptions) PaginationInfo {
	info := PaginationInfo{Type: PaginationInfinite, Detected: true}

	lastHeight := scrollHeight(ctx, pc)
	noGrowth := 0
	for i := 0; i < maxScrolls; i++ {
		var ok bool
		if err := pc.Evaluate(ctx, scrollToBottomJS, &ok); err != nil {
			opts.Logger.Debug("scroll failed", "err", err)
			break
		}
		if err := pc.Wait(ctx, opts.Wait); err != nil {
			break
		}

		height := scrollHeight(ctx, pc)
		if height > lastHeight {
			info.PagesLoaded++
			noGrowth = 0
		} else {
			noGrowth++
			if noGrowth >= 3 {
				break
			}
		}
		lastHeight = height
	}
	return info
}

func domItemCount(ctx context.Context, pc PageController) int {
	var n int
	if err := pc.Evaluate(ctx, itemCountJS, &n); err != nil {
		return 0
	}
	return n
}

func scrollHeight(ctx context.Context, pc PageController) int {
	var h int
	if err := pc.Evaluate(ctx, scrollHeightJS, &h); err != nil {
		return 0
	}
	return h
}
