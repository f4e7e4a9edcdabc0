package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCompletionStats(c *gin.Context) {
	stats, err := s.tasks.CompletionStats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}

// handleProductivityMetrics accepts ?period= but reports over all tasks.
func (s *Server) handleProductivityMetrics(c *gin.Context) {
	metrics, err := s.tasks.ProductivityMetrics(c.Request.Context(), c.Query("period"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, metrics)
}
