package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// LLM request/response structures
type CreateLLMRequest struct {
	Name     string            `json:"name" binding:"required"`
	Provider string            `json:"provider" binding:"required"`
	Model    string            `json:"model" binding:"required"`
	APIKey   string            `json:"api_key,omitempty"`
	BaseURL  string            `json:"base_url,omitempty"`
	Config   map[string]string `json:"config,omitempty"`
	Enabled  bool              `json:"enabled"`
}

type UpdateLLMRequest struct {
	Name     string            `json:"name,omitempty"`
	Provider string            `json:"provider,omitempty"`
	Model    string            `json:"model,omitempty"`
	APIKey   string            `json:"api_key,omitempty"`
	BaseURL  string            `json:"base_url,omitempty"`
	Config   map[string]string `json:"config,omitempty"`
	Enabled  *bool             `json:"enabled,omitempty"`
}

type LLMResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	APIKey    string            `json:"api_key,omitempty"`
	BaseURL   string            `json:"base_url,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
	Enabled   bool              `json:"enabled"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// toLLMResponse converts a config to the response shape, masking the API key
func toLLMResponse(llm *models.LLMConfig) LLMResponse {
	return LLMResponse{
		ID:        llm.ID,
		Name:      llm.Name,
		Provider:  llm.Provider,
		Model:     llm.Model,
		APIKey:    maskAPIKey(llm.APIKey),
		BaseURL:   llm.BaseURL,
		Config:    llm.Config,
		Enabled:   llm.Enabled,
		CreatedAt: llm.CreatedAt,
		UpdatedAt: llm.UpdatedAt,
	}
}

// listLLMs handles GET /api/v1/llms
func (s *Server) listLLMs(c *gin.Context) {
	llms, err := s.db.ListLLMs(c.Request.Context(), shared.ParseEnabledFilter(c))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list LLMs: "+err.Error())
		return
	}

	responses := make([]LLMResponse, len(llms))
	for i, llm := range llms {
		responses[i] = toLLMResponse(llm)
	}
	s.successResponse(c, responses)
}

// getLLM handles GET /api/v1/llms/:id
func (s *Server) getLLM(c *gin.Context) {
	llm, err := s.db.GetLLM(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "LLM not found: "+err.Error())
		return
	}
	s.successResponse(c, toLLMResponse(llm))
}

// createLLM handles POST /api/v1/llms
func (s *Server) createLLM(c *gin.Context) {
	var req CreateLLMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if !isValidProvider(req.Provider) {
		s.errorResponse(c, http.StatusBadRequest, "Invalid provider. Must be one of: openai, anthropic, ollama, google, perplexity")
		return
	}

	llm := &models.LLMConfig{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Provider: req.Provider,
		Model:    req.Model,
		APIKey:   req.APIKey,
		BaseURL:  req.BaseURL,
		Config:   req.Config,
		Enabled:  req.Enabled,
	}

	if err := s.db.CreateLLM(c.Request.Context(), llm); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create LLM: "+err.Error())
		return
	}
	s.createdResponse(c, toLLMResponse(llm), "LLM created successfully")
}

// updateLLM handles PUT /api/v1/llms/:id
func (s *Server) updateLLM(c *gin.Context) {
	var req UpdateLLMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	llm, err := s.db.GetLLM(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "LLM not found: "+err.Error())
		return
	}

	if req.Name != "" {
		llm.Name = req.Name
	}
	if req.Provider != "" {
		if !isValidProvider(req.Provider) {
			s.errorResponse(c, http.StatusBadRequest, "Invalid provider. Must be one of: openai, anthropic, ollama, google, perplexity")
			return
		}
		llm.Provider = req.Provider
	}
	if req.Model != "" {
		llm.Model = req.Model
	}
	if req.APIKey != "" {
		llm.APIKey = req.APIKey
	}
	if req.BaseURL != "" {
		llm.BaseURL = req.BaseURL
	}
	if req.Config != nil {
		llm.Config = req.Config
	}
	if req.Enabled != nil {
		llm.Enabled = *req.Enabled
	}

	if err := s.db.UpdateLLM(c.Request.Context(), llm); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update LLM: "+err.Error())
		return
	}
	s.successResponse(c, toLLMResponse(llm))
}

// deleteLLM handles DELETE /api/v1/llms/:id
func (s *Server) deleteLLM(c *gin.Context) {
	if err := s.db.DeleteLLM(c.Request.Context(), c.Param("id")); err != nil {
		s.errorResponse(c, http.StatusNotFound, "LLM not found: "+err.Error())
		return
	}
	s.messageResponse(c, "LLM deleted successfully")
}

func isValidProvider(provider string) bool {
	switch provider {
	case "openai", "anthropic", "google", "ollama", "perplexity":
		return true
	}
	return false
}
