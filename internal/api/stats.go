package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geoscope/geoscope/internal/stats"
)

// WithStats attaches the archive statistics service. Stats endpoints return
// 503 until one is attached, which happens only when the archive backend is
// MongoDB.
func (s *Server) WithStats(svc *stats.Service) *Server {
	s.stats = svc
	return s
}

// getArchiveStats handles GET /api/v1/stats/archive
func (s *Server) getArchiveStats(c *gin.Context) {
	if s.stats == nil {
		s.errorResponse(c, http.StatusServiceUnavailable, "Archive statistics unavailable")
		return
	}

	archiveStats, err := s.stats.GetArchiveStats(c.Request.Context())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to compute archive stats: "+err.Error())
		return
	}
	s.successResponse(c, archiveStats)
}

// getScoreTrend handles GET /api/v1/stats/trend?brand=X&limit=N
func (s *Server) getScoreTrend(c *gin.Context) {
	if s.stats == nil {
		s.errorResponse(c, http.StatusServiceUnavailable, "Archive statistics unavailable")
		return
	}

	brand := c.Query("brand")
	if brand == "" {
		s.errorResponse(c, http.StatusBadRequest, "brand query parameter is required")
		return
	}

	limit := 30
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	trend, err := s.stats.GetScoreTrend(c.Request.Context(), brand, limit)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to compute score trend: "+err.Error())
		return
	}
	s.successResponse(c, trend)
}
