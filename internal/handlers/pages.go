package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

const fallbackPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>MonkeyBets</title></head>
<body><div id="root"></div></body>
</html>
`

// PageHandler serves the single-page app shell for browser routes
type PageHandler struct {
	indexPath string
}

// NewPageHandler creates a PageHandler serving index.html from staticDir
func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{indexPath: filepath.Join(staticDir, "index.html")}
}

// Index writes the app shell. Guarded routes reach it only with a session.
func (h *PageHandler) Index(c *gin.Context) {
	if _, err := os.Stat(h.indexPath); err == nil {
		c.File(h.indexPath)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fallbackPage))
}

// Health reports liveness
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
