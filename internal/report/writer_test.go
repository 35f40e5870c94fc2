package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusscan/internal/scan"
	"campusscan/internal/scanner"
)

func TestWriteResultRoundTrip(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	result := &scan.Result{
		StartURL: "https://uni.ac.za/faculties",
		Pages: []scanner.ScrapedPage{
			{URL: "https://uni.ac.za/faculties", PageType: scanner.PageTypeFaculty},
		},
		Hierarchy: []scanner.Campus{{Name: "Main Campus"}},
	}

	path, err := w.WriteResult(result)
	require.NoError(t, err)
	assert.Equal(t, "uni.ac.za_faculties.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got scan.Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, result.StartURL, got.StartURL)
	require.Len(t, got.Pages, 1)
	assert.Equal(t, scanner.PageTypeFaculty, got.Pages[0].PageType)
}

func TestWriteHierarchy(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	hierarchy := []scanner.Campus{{
		Name: "Main Campus",
		Faculties: []scanner.Faculty{{
			Name:    "Faculty of Engineering",
			Courses: []scanner.Course{{Name: "BEng Civil Engineering"}},
		}},
	}}

	path, err := w.WriteHierarchy("https://uni.ac.za", hierarchy)
	require.NoError(t, err)
	assert.Equal(t, "uni.ac.za_entities.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []scanner.Campus
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Faculties, 1)
	assert.Equal(t, "BEng Civil Engineering", got[0].Faculties[0].Courses[0].Name)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://uni.ac.za/faculties/engineering", "uni.ac.za_faculties_engineering"},
		{"https://uni.ac.za", "uni.ac.za"},
		{"https://uni.ac.za/search?q=law", "uni.ac.za_search"},
		{"", "scan"},
		{"not a url at all", "not_a_url_at_all"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
