package scanner

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ParsePage turns a raw HTML document into a typed ScrapedPage. It never
// fails: malformed or empty markup yields a record with best-effort fields
// and the page type falls back to unknown.
func ParsePage(pageURL, rawHTML, baseURL string) ScrapedPage {
	page := ScrapedPage{
		URL:       pageURL,
		HTML:      rawHTML,
		PageType:  PageTypeUnknown,
		Metadata:  PageMetadata{OpenGraph: map[string]string{}},
		ScrapedAt: time.Now(),
	}

	// html.Parse is error-tolerant; it only fails on reader errors, which a
	// strings.Reader never produces. Guard anyway.
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return page
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var (
		title      string
		firstH1    string
		text       strings.Builder
		breadcrumb *html.Node
	)

	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				collectMeta(n, &page.Metadata)
			case "h1", "h2":
				if h := strings.TrimSpace(nodeText(n)); h != "" {
					page.Headings = append(page.Headings, h)
					if n.Data == "h1" && firstH1 == "" {
						firstH1 = h
					}
				}
			case "p":
				if p := strings.TrimSpace(nodeText(n)); p != "" {
					page.Paragraphs = append(page.Paragraphs, p)
				}
			case "a":
				if link, ok := linkFromAnchor(n, base); ok {
					page.Links = append(page.Links, link)
				}
			case "script", "style", "noscript":
				return
			}
			if breadcrumb == nil && isBreadcrumbContainer(n) {
				breadcrumb = n
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				text.WriteString(t)
				text.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walker(c)
		}
	}
	walker(doc)

	// The title fallback is the first h1 only; an h2-led page stays untitled.
	page.Title = title
	if page.Title == "" {
		page.Title = firstH1
	}
	page.Text = strings.TrimSpace(text.String())
	if breadcrumb != nil {
		page.Metadata.Breadcrumbs = anchorTexts(breadcrumb)
	}
	page.PageType = ClassifyPage(pageURL, &page)
	return page
}

// collectMeta reads description, keywords and og:* tags into the metadata.
func collectMeta(n *html.Node, meta *PageMetadata) {
	name := attrValue(n, "name")
	property := attrValue(n, "property")
	content := strings.TrimSpace(attrValue(n, "content"))
	if content == "" {
		return
	}

	switch strings.ToLower(name) {
	case "description":
		meta.Description = content
	case "keywords":
		for _, kw := range strings.Split(content, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}

	if strings.HasPrefix(strings.ToLower(property), "og:") {
		meta.OpenGraph[strings.ToLower(property[len("og:"):])] = content
	}
}

func linkFromAnchor(n *html.Node, base *url.URL) (Link, bool) {
	href := strings.TrimSpace(attrValue(n, "href"))
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") {
		return Link{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return Link{}, false
	}

	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}
	if resolved.Scheme != "" && resolved.Scheme != "http" && resolved.Scheme != "https" {
		return Link{}, false
	}

	text := strings.TrimSpace(nodeText(n))
	link := Link{
		Href:          resolved.String(),
		Text:          text,
		IsInternal:    base == nil || resolved.Hostname() == base.Hostname(),
		SuggestedType: suggestLinkType(resolved.Path, text),
	}
	return link, true
}

// isBreadcrumbContainer matches nav[aria-label="breadcrumb"] or any element
// carrying a breadcrumb class.
func isBreadcrumbContainer(n *html.Node) bool {
	if n.Data == "nav" && strings.EqualFold(attrValue(n, "aria-label"), "breadcrumb") {
		return true
	}
	for _, class := range strings.Fields(attrValue(n, "class")) {
		if strings.Contains(strings.ToLower(class), "breadcrumb") {
			return true
		}
	}
	return false
}

// anchorTexts returns the trimmed text of every anchor under n, in document
// order.
func anchorTexts(n *html.Node) []string {
	var texts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			if t := strings.TrimSpace(nodeText(node)); t != "" {
				texts = append(texts, t)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return texts
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
