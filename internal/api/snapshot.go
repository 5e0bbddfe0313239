package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// ingestSnapshot handles POST /api/v1/snapshot: a complete snapshot replaces
// the live one wholesale and is archived
func (s *Server) ingestSnapshot(c *gin.Context) {
	var snap models.AnalyticsSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid snapshot payload: "+err.Error())
		return
	}

	if snap.BrandName == "" {
		s.errorResponse(c, http.StatusBadRequest, "brand_name is required")
		return
	}
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	now := time.Now()
	if snap.CollectedAt.IsZero() {
		snap.CollectedAt = now
	}
	snap.CreatedAt = now

	// Set normalizes before publishing
	s.store.Set(&snap)

	if s.db != nil {
		if err := s.db.SaveSnapshot(c.Request.Context(), &snap); err != nil {
			s.errorResponse(c, http.StatusInternalServerError, "Snapshot published but archiving failed: "+err.Error())
			return
		}
	}

	s.createdResponse(c, gin.H{"id": snap.ID}, "Snapshot published")
}

// getCurrentSnapshot handles GET /api/v1/snapshot
func (s *Server) getCurrentSnapshot(c *gin.Context) {
	snap := s.store.Get()
	if snap == nil {
		s.errorResponse(c, http.StatusNotFound, "No snapshot loaded")
		return
	}
	s.successResponse(c, snap)
}

// clearCurrentSnapshot handles DELETE /api/v1/snapshot. Only the live
// snapshot is dropped; the archive is untouched.
func (s *Server) clearCurrentSnapshot(c *gin.Context) {
	s.store.Clear()
	s.messageResponse(c, "Live snapshot cleared")
}

// listSnapshots handles GET /api/v1/snapshots
func (s *Server) listSnapshots(c *gin.Context) {
	filter := shared.SnapshotFilter{
		BrandName: c.Query("brand"),
		Limit:     50,
	}

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.errorResponse(c, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filter.Offset = parsed
	}
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.errorResponse(c, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		filter.StartTime = &parsed
	}
	if raw := c.Query("until"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.errorResponse(c, http.StatusBadRequest, "until must be RFC3339")
			return
		}
		filter.EndTime = &parsed
	}

	summaries, err := s.db.ListSnapshots(c.Request.Context(), filter)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list snapshots: "+err.Error())
		return
	}
	s.successResponse(c, summaries)
}

// getArchivedSnapshot handles GET /api/v1/snapshots/:id
func (s *Server) getArchivedSnapshot(c *gin.Context) {
	snap, err := s.db.GetSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Snapshot not found: "+err.Error())
		return
	}
	s.successResponse(c, snap)
}

// activateSnapshot handles POST /api/v1/snapshots/:id/activate: loads an
// archived snapshot as the live one
func (s *Server) activateSnapshot(c *gin.Context) {
	snap, err := s.db.GetSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Snapshot not found: "+err.Error())
		return
	}

	s.store.Set(snap)
	s.messageResponse(c, "Snapshot activated")
}

// deleteArchivedSnapshot handles DELETE /api/v1/snapshots/:id
func (s *Server) deleteArchivedSnapshot(c *gin.Context) {
	if err := s.db.DeleteSnapshot(c.Request.Context(), c.Param("id")); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Snapshot not found: "+err.Error())
		return
	}
	s.messageResponse(c, "Snapshot deleted")
}
