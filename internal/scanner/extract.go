package scanner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Extraction patterns. All matching is best-effort: a pattern that fails to
// match simply leaves the corresponding field unset.
var (
	explicitCodeRe = regexp.MustCompile(`(?i)(?:qualification|course|programme|campus)\s+code\s*:?\s*([A-Za-z][A-Za-z0-9-]{1,15})`)
	durationRe     = regexp.MustCompile(`(?i)duration\s*:?\s*(\d+)\s*(?:year|yr)`)
	apsRe          = regexp.MustCompile(`(?i)\bAPS(?:\s+score)?\s*:?\s*(\d+)`)
	subjectsRe     = regexp.MustCompile(`(?i)(?:required subjects?|subjects? required|subject requirements?)\s*:?\s*([^.\n]+)`)
	locationHintRe = regexp.MustCompile(`(?i:located in|situated in|address\s*:|find us in)\s+([A-Z][\w']*(?: [A-Z][\w']*)*,\s*[A-Z][\w']*(?: [A-Z][\w']*)*)`)
	locationRe     = regexp.MustCompile(`\b([A-Z][a-z][\w']*(?: [A-Z][\w']*)*),\s+([A-Z][a-z][\w']*(?: [A-Z][\w']*)*)\b`)
)

// ExtractCampus derives a Campus record from a campus page. It returns nil
// for any other page type and for pages with no usable name signal.
func ExtractCampus(page ScrapedPage) *Campus {
	if page.PageType != PageTypeCampus {
		return nil
	}

	name := entityName(page)
	if name == "" {
		return nil
	}

	code := explicitCode(page.Text)
	if code == "" {
		code = acronym(name)
	}
	location := campusLocation(page.Text)
	description := pageDescription(page)

	return &Campus{
		ID:          uuid.NewString(),
		Name:        name,
		Code:        code,
		Location:    location,
		Description: description,
		SourceURL:   page.URL,
		Confidence: FieldConfidence(map[string]bool{
			"name":        true,
			"code":        code != "",
			"location":    location != "",
			"description": description != "",
		}),
	}
}

// ExtractFaculty derives a Faculty record from a faculty page. Headings in
// the form "School of X" or "Department of X" count as faculty synonyms.
// Courses is always initialized empty; hierarchy assembly fills it later.
func ExtractFaculty(page ScrapedPage) *Faculty {
	if page.PageType != PageTypeFaculty {
		return nil
	}

	name := facultyHeading(&page)
	if name == "" {
		name = entityName(page)
	}
	if name == "" {
		return nil
	}

	code := acronym(name)
	description := pageDescription(page)

	return &Faculty{
		ID:          uuid.NewString(),
		Name:        name,
		Code:        code,
		Description: description,
		SourceURL:   page.URL,
		Confidence: FieldConfidence(map[string]bool{
			"name":        true,
			"code":        code != "",
			"description": description != "",
		}),
		Courses: []Course{},
	}
}

// ExtractCourse derives a Course record from a course or programme page.
func ExtractCourse(page ScrapedPage) *Course {
	if page.PageType != PageTypeCourse {
		return nil
	}

	name := entityName(page)
	if name == "" {
		return nil
	}

	code := explicitCode(page.Text)
	if code == "" {
		code = acronym(name)
	}

	duration := parseIntMatch(durationRe, page.Text)
	aps := parseIntMatch(apsRe, page.Text)
	subjects := requiredSubjects(page.Text)

	return &Course{
		ID:            uuid.NewString(),
		Name:          name,
		Code:          code,
		DurationYears: duration,
		Requirements: CourseRequirements{
			MinimumAPS:       aps,
			RequiredSubjects: subjects,
		},
		SourceURL: page.URL,
		Confidence: FieldConfidence(map[string]bool{
			"name":     true,
			"code":     code != "",
			"duration": duration > 0,
			"aps":      aps > 0,
			"subjects": len(subjects) > 0,
		}),
	}
}

// entityName prefers the first heading over the document title and strips
// common title-tag suffixes ("X | University of Y").
func entityName(page ScrapedPage) string {
	name := ""
	if len(page.Headings) > 0 {
		name = page.Headings[0]
	} else {
		name = page.Title
	}
	for _, sep := range []string{"|", " - ", " – ", "::"} {
		if i := strings.Index(name, sep); i > 0 {
			name = name[:i]
		}
	}
	return strings.TrimSpace(name)
}

// explicitCode looks for a "Qualification Code: X" style declaration.
func explicitCode(text string) string {
	if m := explicitCodeRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// acronym builds a code from the initials of the significant words of a
// name. Codes shorter than two letters are not usable.
func acronym(name string) string {
	stop := map[string]bool{"of": true, "the": true, "and": true, "for": true, "in": true, "at": true}
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		if stop[strings.ToLower(word)] {
			continue
		}
		r := []rune(word)[0]
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() < 2 {
		return ""
	}
	return b.String()
}

// campusLocation finds an address-like "City, Province" fragment, preferring
// fragments introduced by an explicit location phrase.
func campusLocation(text string) string {
	if m := locationHintRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := locationRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[0])
	}
	return ""
}

// pageDescription prefers the meta description and falls back to the first
// substantive paragraph.
func pageDescription(page ScrapedPage) string {
	if page.Metadata.Description != "" {
		return page.Metadata.Description
	}
	for _, p := range page.Paragraphs {
		if len(p) >= 60 {
			return p
		}
	}
	return ""
}

// parseIntMatch returns the first captured integer, or 0 when the pattern
// does not match or the number is unparseable. Parse failures never raise.
func parseIntMatch(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// requiredSubjects parses a subject-enumeration sentence into title-cased
// subject entries.
func requiredSubjects(text string) []string {
	m := subjectsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	list := strings.ReplaceAll(m[1], " and ", ",")
	var subjects []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		subjects = append(subjects, titleCase(item))
	}
	return subjects
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
