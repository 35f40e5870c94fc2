package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"campusscan/internal/scan"
)

// Quitting the monitor while the scan is still fetching must join the scan
// goroutine before its outcome is read, instead of racing on it.
func TestRunWithMonitorQuitJoinsScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Slow page so the quit keypress lands mid-scan.
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Courses</title></head><body>
			<h1>Course Catalogue</h1>
		</body></html>`))
	}))
	defer srv.Close()

	cmd := &ScanCmd{URL: srv.URL + "/courses"}

	type outcome struct {
		result *scan.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := cmd.runWithMonitor(nil, log.New(io.Discard),
			tea.WithInput(strings.NewReader("q")),
			tea.WithOutput(io.Discard),
			tea.WithoutRenderer(),
		)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		// Depending on how far the fetch got, the quit yields either the
		// pages scanned so far or an abort error, never both.
		if out.err == nil {
			assert.NotNil(t, out.result)
		} else {
			assert.Nil(t, out.result)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("monitor quit did not join the scan goroutine")
	}
}
