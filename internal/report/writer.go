// Package report writes scan output to disk as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"campusscan/internal/scan"
	"campusscan/internal/scanner"
)

// Writer persists scan results under an output directory.
type Writer struct {
	outputDir string
}

// New creates the output directory if needed.
func New(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// WriteResult writes the full scan result, named after the scanned host.
func (w *Writer) WriteResult(result *scan.Result) (string, error) {
	path := filepath.Join(w.outputDir, sanitizeFilename(result.StartURL)+".json")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return path, nil
}

// WriteHierarchy writes only the nested Campus -> Faculty -> Course output.
func (w *Writer) WriteHierarchy(startURL string, hierarchy []scanner.Campus) (string, error) {
	path := filepath.Join(w.outputDir, sanitizeFilename(startURL)+"_entities.json")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create entities file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(hierarchy); err != nil {
		return "", fmt.Errorf("encode entities: %w", err)
	}
	return path, nil
}

// sanitizeFilename derives a safe filename from a URL.
func sanitizeFilename(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		name = u.Hostname() + "_" + strings.Trim(u.Path, "/")
		name = strings.TrimSuffix(name, "_")
	}
	for _, c := range []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "} {
		name = strings.ReplaceAll(name, c, "_")
	}
	if name == "" {
		name = "scan"
	}
	return name
}
