package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusscan/internal/scan"
	"campusscan/internal/scanner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeScanner struct {
	result *scan.Result
	err    error
}

func (f *fakeScanner) Scan(_ context.Context, _ string) (*scan.Result, error) {
	return f.result, f.err
}

type fakePersister struct {
	scanID string
	err    error
	saved  int
}

func (f *fakePersister) SaveScan(_ context.Context, _ string, _ scanner.ScanResult) (string, error) {
	f.saved++
	return f.scanID, f.err
}

func testResult() *scan.Result {
	return &scan.Result{
		StartURL: "https://uni.ac.za",
		Pages:    make([]scanner.ScrapedPage, 3),
		Hierarchy: []scanner.Campus{
			{Name: "Main Campus", Faculties: []scanner.Faculty{}},
		},
	}
}

func postScan(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(h)
	req := httptest.NewRequest(http.MethodPost, "/api/scans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func TestHandleScanSuccess(t *testing.T) {
	h := &Handler{Scanner: &fakeScanner{result: testResult()}, Log: log.Default()}

	w := postScan(t, h, `{"url":"https://uni.ac.za"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w.Body)
	assert.Equal(t, "https://uni.ac.za", body["url"])
	assert.Equal(t, float64(3), body["pages_scanned"])
	assert.Empty(t, body["scan_id"])

	campuses, ok := body["campuses"].([]any)
	require.True(t, ok)
	assert.Len(t, campuses, 1)
}

func TestHandleScanBadRequest(t *testing.T) {
	h := &Handler{Scanner: &fakeScanner{result: testResult()}, Log: log.Default()}

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"missing url", `{"persist":true}`},
		{"not a url", `{"url":"::nope"}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postScan(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleScanFailure(t *testing.T) {
	h := &Handler{Scanner: &fakeScanner{err: errors.New("host unreachable")}, Log: log.Default()}

	w := postScan(t, h, `{"url":"https://uni.ac.za"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleScanPersist(t *testing.T) {
	p := &fakePersister{scanID: "scan-123"}
	h := &Handler{Scanner: &fakeScanner{result: testResult()}, Persister: p, Log: log.Default()}

	w := postScan(t, h, `{"url":"https://uni.ac.za","persist":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, p.saved)
	assert.Equal(t, "scan-123", decodeBody(t, w.Body)["scan_id"])
}

func TestHandleScanPersistFailure(t *testing.T) {
	p := &fakePersister{err: errors.New("connection refused")}
	h := &Handler{Scanner: &fakeScanner{result: testResult()}, Persister: p, Log: log.Default()}

	w := postScan(t, h, `{"url":"https://uni.ac.za","persist":true}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleScanPersistWithoutStore(t *testing.T) {
	// persist=true with no store configured still succeeds, without an id.
	h := &Handler{Scanner: &fakeScanner{result: testResult()}, Log: log.Default()}

	w := postScan(t, h, `{"url":"https://uni.ac.za","persist":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w.Body)["scan_id"])
}

func TestHandleHealth(t *testing.T) {
	router := NewRouter(&Handler{Log: log.Default()})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w.Body)["status"])
}
