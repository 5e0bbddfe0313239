package perplexity

import (
	"context"
	"fmt"
	"time"

	"github.com/sgaunet/perplexity-go/v2"

	"github.com/geoscope/geoscope/internal/llm"
	"github.com/geoscope/geoscope/internal/models"
)

// Provider implements the LLM Provider interface for Perplexity
type Provider struct {
	apiKey string
}

// New creates a new Perplexity provider
func New(apiKey string) *Provider {
	return &Provider{
		apiKey: apiKey,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "perplexity"
}

// Validate validates the provider configuration
func (p *Provider) Validate(config map[string]string) error {
	if config["api_key"] == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}

// Generate sends a prompt to Perplexity and returns the response
func (p *Provider) Generate(ctx context.Context, prompt string, config map[string]interface{}) (*llm.Response, error) {
	startTime := time.Now()

	model := "sonar"
	if m, ok := config["model"].(string); ok && m != "" {
		model = m
	}

	temperature := 0.7
	if t, ok := config["temperature"].(float64); ok {
		temperature = t
	}

	apiKey := p.apiKey
	if k, ok := config["api_key"].(string); ok && k != "" {
		apiKey = k
	}

	client := perplexity.NewClient(apiKey)

	messages := []perplexity.Message{
		{
			Role:    "user",
			Content: prompt,
		},
	}

	req := perplexity.NewCompletionRequest(
		perplexity.WithMessages(messages),
		perplexity.WithModel(model),
		perplexity.WithTemperature(temperature),
	)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid completion request: %w", err)
	}

	res, err := client.SendCompletionRequest(req)
	if err != nil {
		return &llm.Response{
			Error:     err.Error(),
			LatencyMs: time.Since(startTime).Milliseconds(),
		}, nil
	}

	text := res.GetLastContent()
	if text == "" {
		return &llm.Response{
			Error:     "no content returned from API",
			LatencyMs: time.Since(startTime).Milliseconds(),
		}, nil
	}

	return &llm.Response{
		Text:       text,
		TokensUsed: res.Usage.TotalTokens,
		LatencyMs:  time.Since(startTime).Milliseconds(),
		Model:      model,
		Provider:   "perplexity",
	}, nil
}

// ListModels lists text-to-text Sonar models. Perplexity has no public models
// API, so this is a curated list.
func (p *Provider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	return []models.ModelInfo{
		{
			ID:          "sonar",
			Name:        "Sonar",
			Description: "Lightweight search-grounded model",
		},
		{
			ID:          "sonar-pro",
			Name:        "Sonar Pro",
			Description: "Advanced search-grounded model for complex queries",
		},
		{
			ID:          "sonar-reasoning",
			Name:        "Sonar Reasoning",
			Description: "Search-grounded reasoning model",
		},
	}, nil
}
