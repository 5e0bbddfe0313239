package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/geoscope/geoscope/internal/llm"
	"github.com/geoscope/geoscope/internal/models"
)

// Provider implements the LLM Provider interface for Google Gemini
type Provider struct {
	apiKey  string
	baseURL string
	client  *genai.Client
}

// New creates a new Google provider. A client is only built when an API key
// is available; per-LLM keys passed at generation time get their own client.
func New(apiKey, baseURL string) *Provider {
	var client *genai.Client
	if apiKey != "" {
		var err error
		client, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			client = nil
		}
	}

	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "google"
}

// Validate validates the provider configuration
func (p *Provider) Validate(config map[string]string) error {
	if config["api_key"] == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}

func (p *Provider) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	if p.client != nil && (apiKey == "" || apiKey == p.apiKey) {
		return p.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}
	return client, nil
}

// Generate sends a prompt to Gemini and returns the response
func (p *Provider) Generate(ctx context.Context, prompt string, config map[string]interface{}) (*llm.Response, error) {
	startTime := time.Now()

	model := "gemini-1.5-flash"
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

	client, err := p.clientFor(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	content := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	generationConfig := &genai.GenerateContentConfig{
		Temperature: float32Ptr(float32(temperature)),
	}

	result, err := client.Models.GenerateContent(ctx, model, content, generationConfig)
	if err != nil {
		return &llm.Response{
			Error:     fmt.Sprintf("Google AI API error: %v", err),
			LatencyMs: time.Since(startTime).Milliseconds(),
		}, nil
	}

	var generatedText string
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
		generatedText = text.String()
	}
	if generatedText == "" {
		return &llm.Response{
			Error:     "no candidates returned from API",
			LatencyMs: time.Since(startTime).Milliseconds(),
		}, nil
	}

	tokensUsed := 0
	if result.UsageMetadata != nil {
		tokensUsed = int(result.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Text:       generatedText,
		TokensUsed: tokensUsed,
		LatencyMs:  time.Since(startTime).Milliseconds(),
		Model:      model,
		Provider:   "google",
	}, nil
}

// ListModels lists available Gemini text models
func (p *Provider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	client, err := p.clientFor(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	modelPage, err := client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var textModels []models.ModelInfo
	for _, model := range modelPage.Items {
		lower := strings.ToLower(model.Name)

		// embedding and multimodal-only models cannot answer visibility prompts
		if strings.Contains(lower, "embed") ||
			strings.Contains(lower, "vision") ||
			strings.Contains(lower, "image") {
			continue
		}
		if !strings.Contains(lower, "gemini") {
			continue
		}

		textModels = append(textModels, models.ModelInfo{
			ID:          model.Name,
			Name:        strings.TrimPrefix(model.Name, "models/"),
			Description: model.Description,
		})
	}

	return textModels, nil
}

func float32Ptr(f float32) *float32 {
	return &f
}
