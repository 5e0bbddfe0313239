package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoscope/geoscope/internal/llm"
	"github.com/geoscope/geoscope/internal/models"
)

// fakeProvider replays canned answers and records the prompts it received
type fakeProvider struct {
	mu       sync.Mutex
	prompts  []string
	reply    string
	failures int // number of initial calls that return an error response
	calls    int
}

func (f *fakeProvider) Name() string                            { return "fake" }
func (f *fakeProvider) Validate(config map[string]string) error { return nil }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, config map[string]interface{}) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.calls <= f.failures {
		return &llm.Response{Error: "rate limited"}, nil
	}
	return &llm.Response{Text: f.reply, Provider: "fake"}, nil
}

func (f *fakeProvider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	return nil, nil
}

func newTestCollector(provider llm.Provider) *Collector {
	registry := llm.NewRegistry()
	registry.Register(provider)
	return New(nil, registry, Config{
		RequestsPerMinute: 60000,
		MaxRetries:        3,
		RetryDelay:        time.Millisecond,
	})
}

func TestGatherAnswersSubstitutesKeywordPlaceholder(t *testing.T) {
	provider := &fakeProvider{reply: "nothing notable"}
	c := newTestCollector(provider)

	keywords := []*models.TrackedKeyword{
		{ID: "kw1", Name: "widgets", Prompts: []string{"What are the best {keyword}?"}},
	}
	llms := []*models.LLMConfig{
		{ID: "l1", Name: "fake-model", Provider: "fake", Model: "m", Enabled: true},
	}

	answers := c.gatherAnswers(context.Background(), keywords, llms, 0.7)

	require.Len(t, answers, 1)
	assert.Equal(t, "kw1", answers[0].keywordID)
	assert.Equal(t, "fake-model", answers[0].model)
	assert.Equal(t, []string{"What are the best widgets?"}, provider.prompts)
}

func TestGatherAnswersRetriesTransientErrors(t *testing.T) {
	provider := &fakeProvider{reply: "ok", failures: 2}
	c := newTestCollector(provider)

	keywords := []*models.TrackedKeyword{
		{ID: "kw1", Name: "widgets", Prompts: []string{"p"}},
	}
	llms := []*models.LLMConfig{
		{ID: "l1", Name: "fake-model", Provider: "fake", Enabled: true},
	}

	answers := c.gatherAnswers(context.Background(), keywords, llms, 0.7)

	require.Len(t, answers, 1)
	assert.Equal(t, "ok", answers[0].text)
	assert.Equal(t, 3, provider.calls)
}

func TestGatherAnswersDropsExhaustedPrompts(t *testing.T) {
	provider := &fakeProvider{reply: "never", failures: 100}
	c := newTestCollector(provider)

	keywords := []*models.TrackedKeyword{
		{ID: "kw1", Name: "widgets", Prompts: []string{"p"}},
	}
	llms := []*models.LLMConfig{
		{ID: "l1", Name: "fake-model", Provider: "fake", Enabled: true},
	}

	answers := c.gatherAnswers(context.Background(), keywords, llms, 0.7)

	assert.Empty(t, answers)
	assert.Equal(t, 3, provider.calls)
}

func TestSubjectName(t *testing.T) {
	brands := []*models.TrackedBrand{
		{Name: "Beta"},
		{Name: "Acme", Subject: true},
	}
	assert.Equal(t, "Acme", subjectName(brands))

	assert.Equal(t, "Beta", subjectName([]*models.TrackedBrand{{Name: "Beta"}}))
}

func TestBuildSnapshot(t *testing.T) {
	tracked := []*models.TrackedBrand{
		{Name: "Acme", Subject: true},
		{Name: "Beta"},
	}
	keywords := []*models.TrackedKeyword{
		{ID: "kw1", Name: "widgets", Prompts: []string{"best widgets", "top widgets"}},
	}
	answers := []answer{
		{
			keywordID: "kw1",
			model:     "gpt",
			text:      "Acme is great. Beta is okay. Source: https://reddit.com/r/w",
		},
		{
			keywordID: "kw1",
			model:     "gpt",
			text:      "Beta leads. See https://www.reddit.com/r/w and https://beta.com/x",
		},
	}

	snap := buildSnapshot("Acme", tracked, keywords, answers)
	require.NotNil(t, snap)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "Acme", snap.BrandName)
	assert.False(t, snap.CollectedAt.IsZero())

	require.Len(t, snap.Brands, 2)
	acme, beta := snap.Brands[0], snap.Brands[1]
	require.Equal(t, "Acme", acme.Brand)
	require.Equal(t, "Beta", beta.Brand)

	// Acme: 1 of 2 prompts, always first -> 100*(0.7*0.5 + 0.3*1)
	assert.InDelta(t, 65.0, acme.GeoScore, 0.001)
	assert.Equal(t, 1, acme.MentionCount)
	assert.Equal(t, float64(50), acme.MentionScore)
	assert.Equal(t, map[string]int{"kw1": 1}, acme.MentionBreakdown)

	// Beta: 2 of 2 prompts, average rank 1.5 -> 100*(0.7 + 0.3/1.5)
	assert.InDelta(t, 90.0, beta.GeoScore, 0.001)
	assert.Equal(t, 2, beta.MentionCount)
	assert.Equal(t, float64(100), beta.MentionScore)

	// tiers come from the two-brand cohort
	assert.Equal(t, models.TierLow, acme.GeoTier)
	assert.Equal(t, models.TierMedium, beta.GeoTier)
	assert.Equal(t, models.OutlookNegative, acme.Outlook)
	assert.Equal(t, models.OutlookNeutral, beta.Outlook)

	gpt, ok := snap.LLMWiseData["gpt"]
	require.True(t, ok)
	assert.Equal(t, 2, gpt.Prompts)
	assert.Equal(t, 1, gpt.QueriesWithBrand)
	assert.InDelta(t, 1.0, gpt.AverageBrandRank, 0.001)
	assert.Equal(t, 2, gpt.Sources) // reddit.com and beta.com

	assert.Equal(t, []string{"reddit.com", "beta.com"}, snap.SourceOrder)

	reddit := snap.Sources["reddit.com"]
	assert.Equal(t, []string{"Acme", "Beta"}, reddit.MentionOrder)
	assert.Equal(t, 1, reddit.Mentions["Acme"].Count)
	assert.Equal(t, 2, reddit.Mentions["Beta"].Count)
	assert.InDelta(t, 0.5, reddit.Mentions["Acme"].Score, 0.001)
	assert.InDelta(t, 1.0, reddit.Mentions["Beta"].Score, 0.001)
	assert.Len(t, reddit.PagesUsed, 2)

	betaSite := snap.Sources["beta.com"]
	assert.Equal(t, []string{"Beta"}, betaSite.MentionOrder)
	assert.Equal(t, []string{"https://beta.com/x"}, betaSite.PagesUsed)
}

func TestBuildSnapshotNoAnswers(t *testing.T) {
	tracked := []*models.TrackedBrand{{Name: "Acme", Subject: true}}
	keywords := []*models.TrackedKeyword{
		{ID: "kw1", Name: "widgets", Prompts: []string{"p"}},
	}

	snap := buildSnapshot("Acme", tracked, keywords, nil)
	require.NotNil(t, snap)

	require.Len(t, snap.Brands, 1)
	assert.Zero(t, snap.Brands[0].GeoScore)
	assert.Zero(t, snap.Brands[0].MentionScore)
	assert.Empty(t, snap.Sources)
	assert.Empty(t, snap.LLMWiseData)
}
