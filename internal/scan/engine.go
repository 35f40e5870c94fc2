// Package scan drives a full site scan: traversal of an institution's
// internal academic pages, pagination-aware rendering of listing pages, and
// aggregation of extracted entities.
package scan

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"campusscan/internal/scanner"
)

// PageRenderer loads a URL in a scriptable browser, drives whatever
// pagination the listing page uses, and returns the fully rendered markup.
// Implemented by the browser package; nil disables pagination handling.
type PageRenderer interface {
	RenderListing(ctx context.Context, url string, opts scanner.PaginationOptions) (string, scanner.PaginationInfo, error)
}

// PageCallback is invoked after each page is parsed, for progress reporting.
type PageCallback func(page scanner.ScrapedPage, pagination scanner.PaginationInfo)

// Engine runs scan jobs. A job is sequential: pages are visited one at a
// time and each job owns its visited set, so no locking is needed around the
// pure parsing and extraction functions.
type Engine struct {
	maxDepth   int
	maxPages   int
	pagination scanner.PaginationOptions
	renderer   PageRenderer
	onPage     PageCallback
	log        *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth bounds link-graph traversal depth. Non-positive values keep
// the default.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithMaxPages caps the number of pages fetched per job.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// WithPagination sets the pagination bounds used on listing pages.
func WithPagination(opts scanner.PaginationOptions) Option {
	return func(e *Engine) { e.pagination = opts }
}

// WithRenderer attaches a browser-backed renderer for listing pages.
func WithRenderer(r PageRenderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithPageCallback registers a progress callback.
func WithPageCallback(cb PageCallback) Option {
	return func(e *Engine) { e.onPage = cb }
}

// WithLogger sets the structured logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine constructs an Engine with the provided options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxDepth: 3,
		maxPages: 50,
		log:      log.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Result is the outcome of one scan job.
type Result struct {
	StartURL   string                             `json:"start_url"`
	Pages      []scanner.ScrapedPage              `json:"pages"`
	Entities   scanner.ScanResult                 `json:"entities"`
	Hierarchy  []scanner.Campus                   `json:"hierarchy"`
	Pagination map[string]scanner.PaginationInfo  `json:"pagination,omitempty"`
	FetchErrs  int                                `json:"fetch_errors"`
	Duration   time.Duration                      `json:"duration"`
}

// Scan crawls the institution site rooted at startURL, following only
// academically relevant internal links, and returns the extracted entities.
// Individual page failures are logged and skipped; Scan itself only fails on
// an unusable start URL or when not a single page could be fetched.
func (e *Engine) Scan(ctx context.Context, startURL string) (*Result, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Hostname() == "" {
		return nil, fmt.Errorf("invalid start URL %q: %w", startURL, err)
	}

	result := &Result{
		StartURL:   startURL,
		Pagination: map[string]scanner.PaginationInfo{},
	}
	began := time.Now()

	c := colly.NewCollector(
		colly.AllowedDomains(start.Hostname()),
		colly.MaxDepth(e.maxDepth),
	)
	extensions.RandomUserAgent(c)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil || len(result.Pages) >= e.maxPages {
			r.Abort()
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		result.FetchErrs++
		e.log.Warn("fetch failed", "url", r.Request.URL, "err", err)
	})

	c.OnResponse(func(r *colly.Response) {
		contentType := strings.ToLower(r.Headers.Get("Content-Type"))
		if contentType != "" && !strings.Contains(contentType, "html") {
			return
		}

		pageURL := r.Request.URL.String()
		rawHTML := string(r.Body)
		pagination := scanner.PaginationInfo{Type: scanner.PaginationNone}

		if e.renderer != nil && scanner.IsListingURL(pageURL) {
			rendered, info, err := e.renderer.RenderListing(ctx, pageURL, e.pagination)
			if err != nil {
				e.log.Warn("listing render failed, using static markup", "url", pageURL, "err", err)
			} else {
				pagination = info
				if info.Detected && rendered != "" {
					rawHTML = rendered
				}
			}
		}

		page := scanner.ParsePage(pageURL, rawHTML, pageURL)
		result.Pages = append(result.Pages, page)
		if pagination.Detected {
			result.Pagination[pageURL] = pagination
		}
		e.log.Info("page scanned", "url", pageURL, "type", page.PageType, "links", len(page.Links))

		if e.onPage != nil {
			e.onPage(page, pagination)
		}

		for _, link := range scanner.FindAcademicLinks(page) {
			if err := r.Request.Visit(link.Href); err != nil {
				// Already visited, depth cap, or off-domain; all expected.
				continue
			}
		}
	})

	if err := c.Visit(startURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", startURL, err)
	}
	c.Wait()

	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("no pages scanned from %s after %d fetch errors", startURL, result.FetchErrs)
	}

	result.Entities = scanner.ExtractAll(result.Pages)
	result.Hierarchy = scanner.BuildHierarchy(result.Entities)
	result.Duration = time.Since(began)

	e.log.Info("scan complete",
		"url", startURL,
		"pages", len(result.Pages),
		"campuses", len(result.Entities.Campuses),
		"faculties", len(result.Entities.Faculties),
		"courses", len(result.Entities.Courses),
		"duration", result.Duration)
	return result, nil
}
