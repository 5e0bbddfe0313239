package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// Tracked brand request structures
type CreateBrandRequest struct {
	Name    string   `json:"name" binding:"required"`
	Aliases []string `json:"aliases,omitempty"`
	Logo    string   `json:"logo,omitempty"`
	Subject bool     `json:"subject"`
	Enabled bool     `json:"enabled"`
}

type UpdateBrandRequest struct {
	Name    string   `json:"name,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
	Logo    string   `json:"logo,omitempty"`
	Subject *bool    `json:"subject,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// listBrands handles GET /api/v1/brands
func (s *Server) listBrands(c *gin.Context) {
	brands, err := s.db.ListBrands(c.Request.Context(), shared.ParseEnabledFilter(c))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list brands: "+err.Error())
		return
	}
	s.successResponse(c, brands)
}

// getBrand handles GET /api/v1/brands/:id
func (s *Server) getBrand(c *gin.Context) {
	brand, err := s.db.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Brand not found: "+err.Error())
		return
	}
	s.successResponse(c, brand)
}

// createBrand handles POST /api/v1/brands
func (s *Server) createBrand(c *gin.Context) {
	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if existing, err := s.db.GetBrandByName(c.Request.Context(), req.Name); err == nil && existing != nil {
		s.errorResponse(c, http.StatusConflict, "Brand already tracked: "+req.Name)
		return
	}

	brand := &models.TrackedBrand{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Aliases: req.Aliases,
		Logo:    req.Logo,
		Subject: req.Subject,
		Enabled: req.Enabled,
	}

	if err := s.db.CreateBrand(c.Request.Context(), brand); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create brand: "+err.Error())
		return
	}
	s.createdResponse(c, brand, "Brand created successfully")
}

// updateBrand handles PUT /api/v1/brands/:id
func (s *Server) updateBrand(c *gin.Context) {
	var req UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	brand, err := s.db.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Brand not found: "+err.Error())
		return
	}

	if req.Name != "" {
		brand.Name = req.Name
	}
	if req.Aliases != nil {
		brand.Aliases = req.Aliases
	}
	if req.Logo != "" {
		brand.Logo = req.Logo
	}
	if req.Subject != nil {
		brand.Subject = *req.Subject
	}
	if req.Enabled != nil {
		brand.Enabled = *req.Enabled
	}

	if err := s.db.UpdateBrand(c.Request.Context(), brand); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update brand: "+err.Error())
		return
	}
	s.successResponse(c, brand)
}

// deleteBrand handles DELETE /api/v1/brands/:id
func (s *Server) deleteBrand(c *gin.Context) {
	if err := s.db.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Brand not found: "+err.Error())
		return
	}
	s.messageResponse(c, "Brand deleted successfully")
}
