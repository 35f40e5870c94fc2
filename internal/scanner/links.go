package scanner

import (
	"net/url"
	"strings"
)

// academicPathKeywords is the URL vocabulary shared with the page classifier,
// plus the listing-specific segments.
var academicPathKeywords = []string{
	"/campus",
	"/facult",
	"/school",
	"/department",
	"/course",
	"/programme",
	"/program",
	"/undergraduate",
	"/postgraduate",
	"/qualification",
	"/study",
}

// academicTextKeywords match against anchor text.
var academicTextKeywords = []string{
	"programme",
	"program",
	"course",
	"faculty",
	"faculties",
	"school of",
	"department",
	"undergraduate",
	"postgraduate",
	"qualification",
	"degree",
	"campus",
	"study",
}

// FindAcademicLinks filters a page's outbound links down to internal links
// likely to lead to further academic content. Input order is preserved and
// no deduplication is applied.
func FindAcademicLinks(page ScrapedPage) []Link {
	var academic []Link
	for _, link := range page.Links {
		if !link.IsInternal {
			continue
		}
		if isAcademicHref(link.Href) || isAcademicText(link.Text) {
			academic = append(academic, link)
		}
	}
	return academic
}

func isAcademicHref(href string) bool {
	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}
	path = strings.ToLower(path)
	for _, kw := range academicPathKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

func isAcademicText(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range academicTextKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
