package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPageByURL(t *testing.T) {
	tests := []struct {
		url  string
		want PageType
	}{
		{"https://uni.ac.za/campus/soweto", PageTypeCampus},
		{"https://uni.ac.za/campuses/apk", PageTypeCampus},
		{"https://uni.ac.za/faculty/science", PageTypeFaculty},
		{"https://uni.ac.za/faculties", PageTypeFaculty},
		{"https://uni.ac.za/school/business", PageTypeFaculty},
		{"https://uni.ac.za/department/physics", PageTypeFaculty},
		{"https://uni.ac.za/course/beng", PageTypeCourse},
		{"https://uni.ac.za/programme/llb", PageTypeCourse},
		{"https://uni.ac.za/programs/mba", PageTypeCourse},
		{"https://uni.ac.za/about/history", PageTypeAbout},
		{"https://uni.ac.za/contact", PageTypeContact},
		{"https://uni.ac.za/news/2024", PageTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			page := &ScrapedPage{URL: tt.url}
			assert.Equal(t, tt.want, ClassifyPage(tt.url, page))
		})
	}
}

func TestClassifyPageContentHeuristics(t *testing.T) {
	tests := []struct {
		name string
		page ScrapedPage
		want PageType
	}{
		{
			name: "admission phrasing implies course",
			page: ScrapedPage{Text: "Admission requirements: a minimum APS score of 30 is needed."},
			want: PageTypeCourse,
		},
		{
			name: "faculty-of heading implies faculty",
			page: ScrapedPage{Headings: []string{"Faculty of Humanities"}},
			want: PageTypeFaculty,
		},
		{
			name: "school-of heading implies faculty",
			page: ScrapedPage{Headings: []string{"School of Business"}},
			want: PageTypeFaculty,
		},
		{
			name: "no signal stays unknown",
			page: ScrapedPage{Text: "Latest campus news and events.", Headings: []string{"News"}},
			want: PageTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPage("https://uni.ac.za/page", &tt.page))
		})
	}
}

func TestURLKeywordBeatsContent(t *testing.T) {
	// A campus URL mentioning admission requirements stays a campus page.
	page := &ScrapedPage{Text: "See admission requirements for our programmes."}
	assert.Equal(t, PageTypeCampus, ClassifyPage("https://uni.ac.za/campus/main", page))
}
