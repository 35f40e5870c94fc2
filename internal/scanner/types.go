package scanner

import "time"

// PageType classifies what kind of institutional page a document is.
type PageType string

const (
	PageTypeCampus  PageType = "campus"
	PageTypeFaculty PageType = "faculty"
	PageTypeCourse  PageType = "course"
	PageTypeAbout   PageType = "about"
	PageTypeContact PageType = "contact"
	PageTypeUnknown PageType = "unknown"
)

// PageTypes lists every valid classification.
var PageTypes = []PageType{
	PageTypeCampus,
	PageTypeFaculty,
	PageTypeCourse,
	PageTypeAbout,
	PageTypeContact,
	PageTypeUnknown,
}

// PageMetadata holds the document metadata pulled out of head tags and
// breadcrumb markup.
type PageMetadata struct {
	Description string            `json:"description,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	OpenGraph   map[string]string `json:"open_graph,omitempty"`
	Breadcrumbs []string          `json:"breadcrumbs,omitempty"`
}

// ScrapedPage is the typed record produced by ParsePage. It is immutable
// once returned; extractors and the link classifier only read from it.
type ScrapedPage struct {
	URL        string       `json:"url"`
	Title      string       `json:"title"`
	PageType   PageType     `json:"page_type"`
	HTML       string       `json:"html,omitempty"`
	Text       string       `json:"text,omitempty"`
	Headings   []string     `json:"headings,omitempty"`
	Paragraphs []string     `json:"paragraphs,omitempty"`
	Links      []Link       `json:"links,omitempty"`
	Metadata   PageMetadata `json:"metadata"`
	ScrapedAt  time.Time    `json:"scraped_at"`
}

// Link is a candidate outbound link with a guessed target page type.
type Link struct {
	Href          string   `json:"href"`
	Text          string   `json:"text"`
	IsInternal    bool     `json:"is_internal"`
	SuggestedType PageType `json:"suggested_type"`
}

// Campus is a physical campus extracted from a campus page.
type Campus struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	SourceURL   string    `json:"source_url"`
	Confidence  float64   `json:"confidence"`
	Faculties   []Faculty `json:"faculties,omitempty"`
}

// Faculty is an academic faculty (or school/department) extracted from a
// faculty page. Courses is always empty at extraction time; it is populated
// only during hierarchy assembly.
type Faculty struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Code        string   `json:"code,omitempty"`
	Description string   `json:"description,omitempty"`
	SourceURL   string   `json:"source_url"`
	Confidence  float64  `json:"confidence"`
	Courses     []Course `json:"courses"`
}

// CourseRequirements captures admission requirements parsed from course text.
type CourseRequirements struct {
	MinimumAPS       int      `json:"minimum_aps,omitempty"`
	RequiredSubjects []string `json:"required_subjects,omitempty"`
}

// Course is a course or programme extracted from a course page.
type Course struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Code          string             `json:"code,omitempty"`
	DurationYears int                `json:"duration_years,omitempty"`
	Requirements  CourseRequirements `json:"requirements"`
	SourceURL     string             `json:"source_url"`
	Confidence    float64            `json:"confidence"`
}

// PaginationType names the pagination mechanism found on a listing page.
type PaginationType string

const (
	PaginationNone     PaginationType = "none"
	PaginationLoadMore PaginationType = "load_more"
	PaginationNumbered PaginationType = "numbered"
	PaginationInfinite PaginationType = "infinite_scroll"
)

// PaginationInfo describes what pagination strategy was found on one listing
// page and how much additional content it surfaced. Scoped to a single visit.
type PaginationInfo struct {
	Type        PaginationType `json:"type"`
	Detected    bool           `json:"detected"`
	ItemsLoaded int            `json:"items_loaded,omitempty"`
	PagesLoaded int            `json:"pages_loaded,omitempty"`
}

// ScanResult folds extraction output across all visited pages into flat,
// per-type collections.
type ScanResult struct {
	Campuses  []Campus  `json:"campuses"`
	Faculties []Faculty `json:"faculties"`
	Courses   []Course  `json:"courses"`
}
