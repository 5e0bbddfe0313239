package llm

import (
	"context"
	"sync"

	"github.com/geoscope/geoscope/internal/models"
)

// Response represents a provider answer to a prompt
type Response struct {
	Text       string `json:"text"`
	TokensUsed int    `json:"tokens_used,omitempty"`
	LatencyMs  int64  `json:"latency_ms,omitempty"`
	Model      string `json:"model,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Provider is implemented by each LLM backend
type Provider interface {
	// Name returns the provider identifier (openai, anthropic, google, ollama, perplexity)
	Name() string
	// Validate checks the provider configuration
	Validate(config map[string]string) error
	// Generate sends a prompt and returns the response. Transport failures
	// are reported in Response.Error so a collection run can record them
	// without aborting.
	Generate(ctx context.Context, prompt string, config map[string]interface{}) (*Response, error)
	// ListModels lists available text models
	ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error)
}

// Registry holds the available providers by name
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds or replaces a provider
func (r *Registry) Register(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// Get returns the provider with the given name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[name]
	return provider, ok
}

// Names lists the registered provider names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
