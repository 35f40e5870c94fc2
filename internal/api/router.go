// Package api exposes the scanner's HTTP invocation surface.
package api

import "github.com/gin-gonic/gin"

// NewRouter wires the scan endpoints onto a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Next()
	})

	r.GET("/health", h.HandleHealth)
	r.POST("/api/scans", h.HandleScan)

	return r
}
