package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the task board frontend from the configured directory.
// Unknown /api paths always answer with JSON.
func (s *Server) mountStatic() {
	indexPath := ""
	if s.staticDir == "" {
		s.logger.Warn("static directory not configured; API only mode")
	} else if info, err := os.Stat(s.staticDir); err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing; API only mode", "path", s.staticDir, "error", err)
	} else {
		candidate := filepath.Join(s.staticDir, "index.html")
		if _, err := os.Stat(candidate); err != nil {
			s.logger.Warn("index.html not found", "path", candidate, "error", err)
		} else {
			indexPath = candidate
			s.engine.GET("/", func(c *gin.Context) {
				c.File(indexPath)
			})
		}

		assetsDir := filepath.Join(s.staticDir, "assets")
		if _, err := os.Stat(assetsDir); err == nil {
			s.engine.StaticFS("/assets", gin.Dir(assetsDir, false))
		}
		favicon := filepath.Join(s.staticDir, "favicon.ico")
		if _, err := os.Stat(favicon); err == nil {
			s.engine.StaticFile("/favicon.ico", favicon)
		}
	}

	s.engine.NoRoute(func(c *gin.Context) {
		if indexPath == "" || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.File(indexPath)
	})
}
