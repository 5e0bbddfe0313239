package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/geoscope/geoscope/internal/logger"
	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// Collection schedule request structures
type CreateScheduleRequest struct {
	Name        string   `json:"name" binding:"required"`
	LLMIDs      []string `json:"llm_ids,omitempty"` // empty means all enabled LLMs
	CronExpr    string   `json:"cron_expr" binding:"required"`
	Temperature float64  `json:"temperature,omitempty"`
	Enabled     bool     `json:"enabled"`
}

type UpdateScheduleRequest struct {
	Name        string   `json:"name,omitempty"`
	LLMIDs      []string `json:"llm_ids,omitempty"`
	CronExpr    string   `json:"cron_expr,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
}

// listSchedules handles GET /api/v1/schedules
func (s *Server) listSchedules(c *gin.Context) {
	schedules, err := s.db.ListSchedules(c.Request.Context(), shared.ParseEnabledFilter(c))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list schedules: "+err.Error())
		return
	}
	s.successResponse(c, schedules)
}

// getSchedule handles GET /api/v1/schedules/:id
func (s *Server) getSchedule(c *gin.Context) {
	schedule, err := s.db.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}
	s.successResponse(c, schedule)
}

// createSchedule handles POST /api/v1/schedules
func (s *Server) createSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := validateCronExpr(req.CronExpr); err != nil {
		s.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Temperature < 0.0 || req.Temperature > 1.0 {
		s.errorResponse(c, http.StatusBadRequest, "Temperature must be between 0.0 and 1.0")
		return
	}
	if err := s.validateLLMReferences(c.Request.Context(), req.LLMIDs); err != nil {
		s.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	schedule := &models.CollectionSchedule{
		ID:          uuid.New().String(),
		Name:        req.Name,
		LLMIDs:      req.LLMIDs,
		CronExpr:    req.CronExpr,
		Temperature: req.Temperature,
		Enabled:     req.Enabled,
	}

	if err := s.db.CreateSchedule(c.Request.Context(), schedule); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create schedule: "+err.Error())
		return
	}

	s.reloadScheduler(c)
	s.createdResponse(c, schedule, "Schedule created successfully")
}

// updateSchedule handles PUT /api/v1/schedules/:id
func (s *Server) updateSchedule(c *gin.Context) {
	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	schedule, err := s.db.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	if req.Name != "" {
		schedule.Name = req.Name
	}
	if req.LLMIDs != nil {
		if err := s.validateLLMReferences(c.Request.Context(), req.LLMIDs); err != nil {
			s.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		schedule.LLMIDs = req.LLMIDs
	}
	if req.CronExpr != "" {
		if err := validateCronExpr(req.CronExpr); err != nil {
			s.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		schedule.CronExpr = req.CronExpr
	}
	if req.Temperature != nil {
		if *req.Temperature < 0.0 || *req.Temperature > 1.0 {
			s.errorResponse(c, http.StatusBadRequest, "Temperature must be between 0.0 and 1.0")
			return
		}
		schedule.Temperature = *req.Temperature
	}
	if req.Enabled != nil {
		schedule.Enabled = *req.Enabled
	}

	if err := s.db.UpdateSchedule(c.Request.Context(), schedule); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update schedule: "+err.Error())
		return
	}

	s.reloadScheduler(c)
	s.successResponse(c, schedule)
}

// deleteSchedule handles DELETE /api/v1/schedules/:id
func (s *Server) deleteSchedule(c *gin.Context) {
	if err := s.db.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	s.reloadScheduler(c)
	s.messageResponse(c, "Schedule deleted successfully")
}

// runSchedule handles POST /api/v1/schedules/:id/run: triggers a collection
// run immediately, outside the cron expression
func (s *Server) runSchedule(c *gin.Context) {
	if s.scheduler == nil {
		s.errorResponse(c, http.StatusServiceUnavailable, "Scheduler not running")
		return
	}
	if err := s.scheduler.ExecuteNow(c.Request.Context(), c.Param("id")); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to run schedule: "+err.Error())
		return
	}
	s.messageResponse(c, "Schedule executed")
}

func (s *Server) reloadScheduler(c *gin.Context) {
	if s.scheduler == nil || !s.scheduler.Running() {
		return
	}
	if err := s.scheduler.Reload(c.Request.Context()); err != nil {
		// the schedule change is persisted; a reload failure only delays pickup
		logger.Warning("Scheduler reload failed: %v", err)
	}
}

func (s *Server) validateLLMReferences(ctx context.Context, llmIDs []string) error {
	for _, llmID := range llmIDs {
		if _, err := s.db.GetLLM(ctx, llmID); err != nil {
			return fmt.Errorf("LLM not found: %s", llmID)
		}
	}
	return nil
}

func validateCronExpr(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
