package api

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"campusscan/internal/scan"
	"campusscan/internal/scanner"
)

// Scanner runs scan jobs. Satisfied by *scan.Engine; tests inject a fake.
type Scanner interface {
	Scan(ctx context.Context, startURL string) (*scan.Result, error)
}

// Persister saves scan entities. Satisfied by *store.DB; optional.
type Persister interface {
	SaveScan(ctx context.Context, startURL string, result scanner.ScanResult) (string, error)
}

type Handler struct {
	Scanner   Scanner
	Persister Persister
	Log       *log.Logger
}

// ScanRequest triggers a scan of an institution website.
type ScanRequest struct {
	URL     string `json:"url" binding:"required,url"`
	Persist bool   `json:"persist"`
}

// HandleScan runs a scan synchronously and returns the nested hierarchy.
func (h *Handler) HandleScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid 'url' field is required"})
		return
	}

	result, err := h.Scanner.Scan(c.Request.Context(), req.URL)
	if err != nil {
		h.Log.Error("scan failed", "url", req.URL, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "scan failed: " + err.Error()})
		return
	}

	scanID := ""
	if req.Persist && h.Persister != nil {
		scanID, err = h.Persister.SaveScan(c.Request.Context(), req.URL, result.Entities)
		if err != nil {
			h.Log.Error("persist failed", "url", req.URL, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scan succeeded but persistence failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"url":           req.URL,
		"scan_id":       scanID,
		"pages_scanned": len(result.Pages),
		"fetch_errors":  result.FetchErrs,
		"duration_ms":   result.Duration.Milliseconds(),
		"campuses":      result.Hierarchy,
		"pagination":    result.Pagination,
	})
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
