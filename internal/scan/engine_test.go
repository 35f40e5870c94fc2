package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusscan/internal/scanner"
)

// testSite serves a small institution site and records which paths were
// requested.
type testSite struct {
	mu      sync.Mutex
	visited map[string]int
	srv     *httptest.Server
}

func newTestSite(t *testing.T, pages map[string]string) *testSite {
	t.Helper()
	site := &testSite{visited: map[string]int{}}

	site.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.visited[r.URL.Path]++
		site.mu.Unlock()

		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(site.srv.Close)
	return site
}

func (s *testSite) hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visited[path]
}

var fixturePages = map[string]string{
	"/": `<html><head><title>Gauteng Institute of Technology</title></head><body>
		<h1>Welcome</h1>
		<a href="/campuses/main">Main Campus</a>
		<a href="/faculties/engineering">Faculty of Engineering</a>
		<a href="/courses/beng-civil">BEng Civil Engineering</a>
		<a href="/courses/missing">Retired programme</a>
		<a href="/about">About us</a>
		<a href="https://twitter.com/git">Twitter</a>
	</body></html>`,
	"/campuses/main": `<html><head><title>Main Campus | GIT</title></head><body>
		<h1>Main Campus</h1>
		<p>Our flagship campus is located in Soweto, Gauteng and hosts four faculties.</p>
	</body></html>`,
	"/faculties/engineering": `<html><head><title>Faculty of Engineering | GIT</title></head><body>
		<h1>Faculty of Engineering</h1>
		<p>The faculty offers accredited engineering qualifications.</p>
	</body></html>`,
	"/courses/beng-civil": `<html><head><title>BEng Civil | GIT</title></head><body>
		<h1>Bachelor of Engineering in Civil Engineering</h1>
		<p>Entry requirements and admission criteria apply to this qualification.</p>
		<p>Qualification Code: BENG-CIV. Duration: 4 years full-time. APS Score: 34 points minimum.</p>
	</body></html>`,
	"/about": `<html><head><title>About</title></head><body><h1>About</h1></body></html>`,
}

func TestScanCrawlsAcademicPages(t *testing.T) {
	site := newTestSite(t, fixturePages)

	var cbPages []scanner.ScrapedPage
	engine := NewEngine(
		WithPageCallback(func(p scanner.ScrapedPage, _ scanner.PaginationInfo) {
			cbPages = append(cbPages, p)
		}),
	)

	result, err := engine.Scan(context.Background(), site.srv.URL+"/")
	require.NoError(t, err)

	// Home plus the three academic pages; the 404 link counts as a fetch
	// error and about/off-site links are never followed.
	assert.Len(t, result.Pages, 4)
	assert.Len(t, cbPages, 4)
	assert.Equal(t, 1, result.FetchErrs)
	assert.Zero(t, site.hits("/about"), "non-academic internal links must not be followed")

	types := map[scanner.PageType]int{}
	for _, p := range result.Pages {
		types[p.PageType]++
	}
	assert.Equal(t, 1, types[scanner.PageTypeCampus])
	assert.Equal(t, 1, types[scanner.PageTypeFaculty])
	assert.Equal(t, 1, types[scanner.PageTypeCourse])

	require.Len(t, result.Entities.Campuses, 1)
	require.Len(t, result.Entities.Faculties, 1)
	require.Len(t, result.Entities.Courses, 1)
	assert.Equal(t, "Main Campus", result.Entities.Campuses[0].Name)
	assert.Equal(t, "BENG-CIV", result.Entities.Courses[0].Code)

	require.Len(t, result.Hierarchy, 1)
	require.Len(t, result.Hierarchy[0].Faculties, 1)
	require.Len(t, result.Hierarchy[0].Faculties[0].Courses, 1)

	assert.Positive(t, result.Duration)
	assert.Empty(t, result.Pagination)
}

func TestScanInvalidStartURL(t *testing.T) {
	engine := NewEngine()

	for _, bad := range []string{"", "not a url", "/relative/only"} {
		_, err := engine.Scan(context.Background(), bad)
		assert.Error(t, err, bad)
	}
}

func TestScanNoPagesFetched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewEngine().Scan(context.Background(), srv.URL+"/")
	assert.Error(t, err)
}

func TestScanMaxPagesCap(t *testing.T) {
	site := newTestSite(t, fixturePages)

	result, err := NewEngine(WithMaxPages(1)).Scan(context.Background(), site.srv.URL+"/")
	require.NoError(t, err)
	assert.Len(t, result.Pages, 1)
}

func TestScanCanceledContext(t *testing.T) {
	site := newTestSite(t, fixturePages)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Scan(ctx, site.srv.URL+"/")
	assert.Error(t, err)
}

// fakeRenderer stands in for the browser: it reports load-more pagination on
// every listing page and returns markup with a link the static page lacks.
type fakeRenderer struct {
	mu       sync.Mutex
	rendered []string
	markup   string
}

func (f *fakeRenderer) RenderListing(_ context.Context, url string, _ scanner.PaginationOptions) (string, scanner.PaginationInfo, error) {
	f.mu.Lock()
	f.rendered = append(f.rendered, url)
	f.mu.Unlock()
	return f.markup, scanner.PaginationInfo{
		Type:        scanner.PaginationLoadMore,
		Detected:    true,
		ItemsLoaded: 12,
	}, nil
}

func TestScanUsesRenderedListingMarkup(t *testing.T) {
	pages := map[string]string{
		"/courses": `<html><head><title>Courses</title></head><body>
			<h1>Course Catalogue</h1>
		</body></html>`,
		"/courses/advanced-diploma": `<html><head><title>Advanced Diploma</title></head><body>
			<h1>Advanced Diploma in Logistics</h1>
			<p>Admission requirements apply.</p>
		</body></html>`,
	}
	site := newTestSite(t, pages)

	renderer := &fakeRenderer{markup: `<html><head><title>Courses</title></head><body>
		<h1>Course Catalogue</h1>
		<a href="/courses/advanced-diploma">Advanced Diploma in Logistics</a>
	</body></html>`}

	start := site.srv.URL + "/courses"
	result, err := NewEngine(WithRenderer(renderer)).Scan(context.Background(), start)
	require.NoError(t, err)

	// The extra link only exists in the rendered markup, so reaching the
	// detail page proves the rendered version was parsed.
	assert.Len(t, result.Pages, 2)
	assert.Equal(t, 1, site.hits("/courses/advanced-diploma"))

	info, ok := result.Pagination[start]
	require.True(t, ok)
	assert.Equal(t, scanner.PaginationLoadMore, info.Type)
	assert.Equal(t, 12, info.ItemsLoaded)

	// Both pages match listing keywords, so the renderer ran for each.
	assert.Len(t, renderer.rendered, 2)
}
