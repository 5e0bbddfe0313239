// Package api exposes the dashboard and registry over REST
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geoscope/geoscope/internal/config"
	"github.com/geoscope/geoscope/internal/db"
	"github.com/geoscope/geoscope/internal/logger"
	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/scheduler"
	"github.com/geoscope/geoscope/internal/services"
	"github.com/geoscope/geoscope/internal/snapshot"
	"github.com/geoscope/geoscope/internal/stats"
)

// Server is the REST API server
type Server struct {
	router     *gin.Engine
	db         db.Database
	store      *snapshot.Store
	insights   *services.InsightService
	scheduler  *scheduler.Scheduler
	stats      *stats.Service
	corsOrigin string
}

// NewServer creates the API server and registers all routes. The scheduler is
// optional; schedule reload endpoints return an error when it is absent.
func NewServer(database db.Database, store *snapshot.Store, sched *scheduler.Scheduler, cfg config.APIConfig) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:     gin.New(),
		db:         database,
		store:      store,
		insights:   services.NewInsightService(store),
		scheduler:  sched,
		corsOrigin: cfg.CORSOrigin,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.corsMiddleware())
	s.registerRoutes()
	return s
}

// Router exposes the underlying gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server on host:port
func (s *Server) Run(host, port string) error {
	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("API server listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.health)

	v1 := s.router.Group("/api/v1")
	{
		// dashboard views over the live snapshot
		metrics := v1.Group("/metrics")
		{
			metrics.GET("/overview", s.getOverview)
			metrics.GET("/competitors", s.getCompetitors)
			metrics.GET("/keywords", s.getKeywordInsights)
			metrics.GET("/sources", s.getSourceInsights)
			metrics.GET("/position-breakdown", s.getPositionBreakdown)
			metrics.GET("/response-rates", s.getResponseRates)
		}

		// live snapshot and archive
		v1.POST("/snapshot", s.ingestSnapshot)
		v1.GET("/snapshot", s.getCurrentSnapshot)
		v1.DELETE("/snapshot", s.clearCurrentSnapshot)
		v1.GET("/snapshots", s.listSnapshots)
		v1.GET("/snapshots/:id", s.getArchivedSnapshot)
		v1.POST("/snapshots/:id/activate", s.activateSnapshot)
		v1.DELETE("/snapshots/:id", s.deleteArchivedSnapshot)

		// registry
		v1.GET("/llms", s.listLLMs)
		v1.GET("/llms/:id", s.getLLM)
		v1.POST("/llms", s.createLLM)
		v1.PUT("/llms/:id", s.updateLLM)
		v1.DELETE("/llms/:id", s.deleteLLM)

		v1.GET("/brands", s.listBrands)
		v1.GET("/brands/:id", s.getBrand)
		v1.POST("/brands", s.createBrand)
		v1.PUT("/brands/:id", s.updateBrand)
		v1.DELETE("/brands/:id", s.deleteBrand)

		v1.GET("/keywords", s.listKeywords)
		v1.GET("/keywords/:id", s.getKeyword)
		v1.POST("/keywords", s.createKeyword)
		v1.PUT("/keywords/:id", s.updateKeyword)
		v1.DELETE("/keywords/:id", s.deleteKeyword)

		v1.GET("/schedules", s.listSchedules)
		v1.GET("/schedules/:id", s.getSchedule)
		v1.POST("/schedules", s.createSchedule)
		v1.PUT("/schedules/:id", s.updateSchedule)
		v1.DELETE("/schedules/:id", s.deleteSchedule)
		v1.POST("/schedules/:id/run", s.runSchedule)

		// archive statistics (MongoDB backend only)
		v1.GET("/stats/archive", s.getArchiveStats)
		v1.GET("/stats/trend", s.getScoreTrend)
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := s.corsOrigin
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	status := gin.H{"status": "ok", "snapshot_loaded": s.store.Get() != nil}
	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

func (s *Server) createdResponse(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func (s *Server) messageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
	})
}

func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func maskAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
}
