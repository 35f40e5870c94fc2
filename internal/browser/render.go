package browser

import (
	"context"

	"campusscan/internal/scanner"
)

// RenderListing opens the URL in a fresh tab, drives any pagination it
// detects, and returns the fully rendered markup plus what was found.
func (b *Browser) RenderListing(ctx context.Context, url string, opts scanner.PaginationOptions) (string, scanner.PaginationInfo, error) {
	page, cancel, err := b.OpenPage(url)
	if err != nil {
		return "", scanner.PaginationInfo{Type: scanner.PaginationNone}, err
	}
	defer cancel()

	info := scanner.HandlePagination(ctx, page, url, opts)

	html, err := page.HTML(ctx)
	if err != nil {
		return "", info, err
	}
	return html, info, nil
}
