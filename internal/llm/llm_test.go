package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoscope/geoscope/internal/llm"
	"github.com/geoscope/geoscope/internal/llm/anthropic"
	"github.com/geoscope/geoscope/internal/llm/google"
	"github.com/geoscope/geoscope/internal/llm/ollama"
	"github.com/geoscope/geoscope/internal/llm/openai"
	"github.com/geoscope/geoscope/internal/llm/perplexity"
)

func TestRegistryCarriesAllProviders(t *testing.T) {
	registry := llm.NewRegistry()
	registry.Register(openai.New("", ""))
	registry.Register(anthropic.New("", ""))
	registry.Register(google.New("", ""))
	registry.Register(ollama.New(""))
	registry.Register(perplexity.New(""))

	for _, name := range []string{"openai", "anthropic", "google", "ollama", "perplexity"} {
		provider, ok := registry.Get(name)
		require.True(t, ok, "provider %s not registered", name)
		assert.Equal(t, name, provider.Name())
	}
}

func TestHostedProvidersRequireAPIKey(t *testing.T) {
	providers := []llm.Provider{
		openai.New("", ""),
		anthropic.New("", ""),
		google.New("", ""),
		perplexity.New(""),
	}

	for _, provider := range providers {
		assert.Error(t, provider.Validate(map[string]string{}), "provider %s", provider.Name())
		assert.NoError(t, provider.Validate(map[string]string{"api_key": "sk-test"}), "provider %s", provider.Name())
	}
}
