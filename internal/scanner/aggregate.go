package scanner

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ExtractAll runs every extractor over every page and folds the non-nil
// results into per-type collections. At most one entity per source URL per
// type is kept; pages yielding nothing from every extractor contribute
// nothing. Empty input yields three empty, non-nil slices.
func ExtractAll(pages []ScrapedPage) ScanResult {
	result := ScanResult{
		Campuses:  []Campus{},
		Faculties: []Faculty{},
		Courses:   []Course{},
	}

	seenCampus := map[string]bool{}
	seenFaculty := map[string]bool{}
	seenCourse := map[string]bool{}

	for _, page := range pages {
		if c := ExtractCampus(page); c != nil && !seenCampus[c.SourceURL] {
			seenCampus[c.SourceURL] = true
			result.Campuses = append(result.Campuses, *c)
		}
		if f := ExtractFaculty(page); f != nil && !seenFaculty[f.SourceURL] {
			seenFaculty[f.SourceURL] = true
			result.Faculties = append(result.Faculties, *f)
		}
		if c := ExtractCourse(page); c != nil && !seenCourse[c.SourceURL] {
			seenCourse[c.SourceURL] = true
			result.Courses = append(result.Courses, *c)
		}
	}
	return result
}

// BuildHierarchy nests the flat scan result into Campus -> Faculty -> Course
// form. Affinity is decided by URL path-prefix containment first, then by
// name mentions, falling back to the first entity of the parent type. When a
// parent type is missing entirely a synthetic container is created so no
// extracted entity is dropped from the output.
func BuildHierarchy(result ScanResult) []Campus {
	faculties := make([]Faculty, len(result.Faculties))
	copy(faculties, result.Faculties)

	if len(faculties) == 0 && len(result.Courses) > 0 {
		faculties = append(faculties, Faculty{
			ID:         uuid.NewString(),
			Name:       "General Studies",
			Confidence: baseConfidence,
			Courses:    []Course{},
		})
	}

	for i := range faculties {
		faculties[i].Courses = []Course{}
	}
	for _, course := range result.Courses {
		idx := bestParent(course.SourceURL, course.Name, facultyKeys(faculties))
		faculties[idx].Courses = append(faculties[idx].Courses, course)
	}

	campuses := make([]Campus, len(result.Campuses))
	copy(campuses, result.Campuses)

	if len(campuses) == 0 && len(faculties) > 0 {
		campuses = append(campuses, Campus{
			ID:         uuid.NewString(),
			Name:       "Main Campus",
			Confidence: baseConfidence,
		})
	}

	for i := range campuses {
		campuses[i].Faculties = []Faculty{}
	}
	for _, faculty := range faculties {
		idx := bestParent(faculty.SourceURL, faculty.Name, campusKeys(campuses))
		campuses[idx].Faculties = append(campuses[idx].Faculties, faculty)
	}
	return campuses
}

type parentKey struct {
	sourceURL string
	name      string
}

func facultyKeys(faculties []Faculty) []parentKey {
	keys := make([]parentKey, len(faculties))
	for i, f := range faculties {
		keys[i] = parentKey{sourceURL: f.SourceURL, name: f.Name}
	}
	return keys
}

func campusKeys(campuses []Campus) []parentKey {
	keys := make([]parentKey, len(campuses))
	for i, c := range campuses {
		keys[i] = parentKey{sourceURL: c.SourceURL, name: c.Name}
	}
	return keys
}

// bestParent picks the parent whose URL path is the longest prefix of the
// child's path; failing that, a parent whose name appears in the child name;
// failing that, the first parent.
func bestParent(childURL, childName string, parents []parentKey) int {
	if len(parents) == 0 {
		return 0
	}

	childPath := urlPath(childURL)
	best, bestLen := -1, 0
	for i, p := range parents {
		path := urlPath(p.sourceURL)
		if path == "" || path == "/" {
			continue
		}
		if strings.HasPrefix(childPath, path) && len(path) > bestLen {
			best, bestLen = i, len(path)
		}
	}
	if best >= 0 {
		return best
	}

	lowerChild := strings.ToLower(childName)
	for i, p := range parents {
		if p.name != "" && strings.Contains(lowerChild, strings.ToLower(p.name)) {
			return i
		}
	}
	return 0
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := u.Path
	if i := strings.LastIndex(path, "/"); i > 0 {
		path = path[:i+1]
	}
	return strings.ToLower(path)
}
