package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// Tracked keyword request structures
type CreateKeywordRequest struct {
	Name    string   `json:"name" binding:"required"`
	Prompts []string `json:"prompts" binding:"required"`
	Enabled bool     `json:"enabled"`
}

type UpdateKeywordRequest struct {
	Name    string   `json:"name,omitempty"`
	Prompts []string `json:"prompts,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// listKeywords handles GET /api/v1/keywords
func (s *Server) listKeywords(c *gin.Context) {
	keywords, err := s.db.ListKeywords(c.Request.Context(), shared.ParseEnabledFilter(c))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list keywords: "+err.Error())
		return
	}
	s.successResponse(c, keywords)
}

// getKeyword handles GET /api/v1/keywords/:id
func (s *Server) getKeyword(c *gin.Context) {
	keyword, err := s.db.GetKeyword(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Keyword not found: "+err.Error())
		return
	}
	s.successResponse(c, keyword)
}

// createKeyword handles POST /api/v1/keywords
func (s *Server) createKeyword(c *gin.Context) {
	var req CreateKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if len(req.Prompts) == 0 {
		s.errorResponse(c, http.StatusBadRequest, "At least one prompt is required")
		return
	}

	keyword := &models.TrackedKeyword{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Prompts: req.Prompts,
		Enabled: req.Enabled,
	}

	if err := s.db.CreateKeyword(c.Request.Context(), keyword); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create keyword: "+err.Error())
		return
	}
	s.createdResponse(c, keyword, "Keyword created successfully")
}

// updateKeyword handles PUT /api/v1/keywords/:id
func (s *Server) updateKeyword(c *gin.Context) {
	var req UpdateKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	keyword, err := s.db.GetKeyword(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Keyword not found: "+err.Error())
		return
	}

	if req.Name != "" {
		keyword.Name = req.Name
	}
	if req.Prompts != nil {
		if len(req.Prompts) == 0 {
			s.errorResponse(c, http.StatusBadRequest, "At least one prompt is required")
			return
		}
		keyword.Prompts = req.Prompts
	}
	if req.Enabled != nil {
		keyword.Enabled = *req.Enabled
	}

	if err := s.db.UpdateKeyword(c.Request.Context(), keyword); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update keyword: "+err.Error())
		return
	}
	s.successResponse(c, keyword)
}

// deleteKeyword handles DELETE /api/v1/keywords/:id
func (s *Server) deleteKeyword(c *gin.Context) {
	if err := s.db.DeleteKeyword(c.Request.Context(), c.Param("id")); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Keyword not found: "+err.Error())
		return
	}
	s.messageResponse(c, "Keyword deleted successfully")
}
