package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Dashboard metric endpoints. All of them derive from the live snapshot and
// return empty-state values when none is loaded, so the frontend never has to
// special-case a fresh install.

// getOverview handles GET /api/v1/metrics/overview
func (s *Server) getOverview(c *gin.Context) {
	s.successResponse(c, s.insights.Overview())
}

// getCompetitors handles GET /api/v1/metrics/competitors
func (s *Server) getCompetitors(c *gin.Context) {
	s.successResponse(c, s.insights.Competitors())
}

// getKeywordInsights handles GET /api/v1/metrics/keywords
func (s *Server) getKeywordInsights(c *gin.Context) {
	s.successResponse(c, s.insights.KeywordInsights())
}

// getSourceInsights handles GET /api/v1/metrics/sources
func (s *Server) getSourceInsights(c *gin.Context) {
	s.successResponse(c, s.insights.SourceInsights())
}

// getPositionBreakdown handles GET /api/v1/metrics/position-breakdown
func (s *Server) getPositionBreakdown(c *gin.Context) {
	s.successResponse(c, s.insights.PositionBreakdown())
}

// getResponseRates handles GET /api/v1/metrics/response-rates?limit=N
func (s *Server) getResponseRates(c *gin.Context) {
	limit := 2
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	s.successResponse(c, s.insights.ResponseRates(limit))
}
