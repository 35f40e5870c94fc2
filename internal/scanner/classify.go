package scanner

import (
	"net/url"
	"strings"
)

// classifyRule pairs a predicate with the page type it implies. Rules are
// evaluated in priority order and the first match wins, which keeps the
// heuristics inspectable and testable in isolation.
type classifyRule struct {
	name  string
	match func(path string, page *ScrapedPage) bool
	typ   PageType
}

// pathKeywords maps URL path vocabulary to page types. School and department
// are treated as faculty synonyms.
var pathKeywords = []struct {
	keyword string
	typ     PageType
}{
	{"/campus", PageTypeCampus},
	{"/faculty", PageTypeFaculty},
	{"/facult", PageTypeFaculty}, // catches /faculties/
	{"/school", PageTypeFaculty},
	{"/department", PageTypeFaculty},
	{"/course", PageTypeCourse},
	{"/programme", PageTypeCourse},
	{"/program", PageTypeCourse},
	{"/about", PageTypeAbout},
	{"/contact", PageTypeContact},
}

var admissionPhrases = []string{
	"admission requirement",
	"entry requirement",
	"aps score",
	"minimum aps",
	"qualification code",
}

var classifyRules = []classifyRule{
	{
		name: "url-path-keyword",
		match: func(path string, _ *ScrapedPage) bool {
			return pageTypeFromPath(path) != PageTypeUnknown
		},
		typ: PageTypeUnknown, // resolved by pageTypeFromPath, see ClassifyPage
	},
	{
		name: "admission-phrasing",
		match: func(_ string, page *ScrapedPage) bool {
			text := strings.ToLower(page.Text)
			for _, phrase := range admissionPhrases {
				if strings.Contains(text, phrase) {
					return true
				}
			}
			return false
		},
		typ: PageTypeCourse,
	},
	{
		name: "faculty-heading",
		match: func(_ string, page *ScrapedPage) bool {
			return facultyHeading(page) != ""
		},
		typ: PageTypeFaculty,
	},
}

// ClassifyPage infers the page type from the URL path vocabulary first, then
// from content heuristics. It defaults to unknown.
func ClassifyPage(rawURL string, page *ScrapedPage) PageType {
	path := ""
	if u, err := url.Parse(rawURL); err == nil {
		path = strings.ToLower(u.Path)
	}

	for _, rule := range classifyRules {
		if !rule.match(path, page) {
			continue
		}
		if rule.name == "url-path-keyword" {
			return pageTypeFromPath(path)
		}
		return rule.typ
	}
	return PageTypeUnknown
}

// pageTypeFromPath matches the path against the fixed keyword vocabulary.
func pageTypeFromPath(path string) PageType {
	for _, kw := range pathKeywords {
		if strings.Contains(path, kw.keyword) {
			return kw.typ
		}
	}
	return PageTypeUnknown
}

// facultyHeading returns the first heading that names a faculty, school or
// department, or the title if it does.
func facultyHeading(page *ScrapedPage) string {
	candidates := append([]string{}, page.Headings...)
	if page.Title != "" {
		candidates = append(candidates, page.Title)
	}
	for _, h := range candidates {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "faculty of") ||
			strings.Contains(lower, "school of") ||
			strings.Contains(lower, "department of") {
			return h
		}
	}
	return ""
}

// suggestLinkType guesses the page type a link points at from its href path
// and anchor text.
func suggestLinkType(path, text string) PageType {
	if t := pageTypeFromPath(strings.ToLower(path)); t != PageTypeUnknown {
		return t
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "campus"):
		return PageTypeCampus
	case strings.Contains(lower, "faculty"), strings.Contains(lower, "school of"),
		strings.Contains(lower, "department"):
		return PageTypeFaculty
	case strings.Contains(lower, "course"), strings.Contains(lower, "programme"),
		strings.Contains(lower, "program"), strings.Contains(lower, "degree"),
		strings.Contains(lower, "qualification"):
		return PageTypeCourse
	}
	return PageTypeUnknown
}
