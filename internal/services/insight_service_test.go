package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/snapshot"
)

func testSnapshot() *models.AnalyticsSnapshot {
	return &models.AnalyticsSnapshot{
		ID:        "snap-1",
		BrandName: "Acme",
		Brands: []models.BrandRecord{
			{
				Brand:            "Acme",
				GeoScore:         65,
				GeoTier:          models.TierMedium,
				MentionScore:     50,
				MentionTier:      models.TierMedium,
				MentionCount:     5,
				MentionBreakdown: map[string]int{"kw1": 3, "kw2": 2},
				Summary:          "Acme appeared in 5 of 10 prompts",
				Outlook:          models.OutlookNeutral,
			},
			{
				Brand:            "Beta",
				GeoScore:         90,
				GeoTier:          models.TierHigh,
				MentionScore:     80,
				MentionTier:      models.TierHigh,
				MentionCount:     8,
				MentionBreakdown: map[string]int{"kw1": 6, "kw2": 2},
				Outlook:          models.OutlookPositive,
			},
			{
				Brand:            "Gamma",
				GeoScore:         30,
				GeoTier:          models.TierLow,
				MentionScore:     20,
				MentionTier:      models.TierLow,
				MentionCount:     2,
				MentionBreakdown: map[string]int{"kw2": 2},
				Outlook:          models.OutlookNegative,
			},
		},
		SearchKeywords: map[string]models.KeywordRecord{
			"kw1": {Name: "widgets", Prompts: []string{"p1", "p2", "p3", "p4", "p5", "p6"}},
			"kw2": {Name: "anvils", Prompts: []string{"p1", "p2", "p3", "p4"}},
		},
		Sources: map[string]models.SourceRecord{
			"reddit.com": {
				Mentions: map[string]models.SourceMention{
					"Acme": {Count: 2, Score: 0.2},
					"Beta": {Count: 4, Score: 0.4},
				},
				MentionOrder: []string{"Acme", "Beta"},
				PagesUsed:    []string{"https://reddit.com/r/w", "https://reddit.com/r/a"},
			},
		},
		SourceOrder: []string{"reddit.com"},
		LLMWiseData: map[string]models.LLMRecord{
			"gpt": {Prompts: 10, QueriesWithBrand: 5, AverageBrandRank: 2.0},
		},
		CollectedAt: time.Now(),
		CreatedAt:   time.Now(),
	}
}

func newTestService(snap *models.AnalyticsSnapshot) *InsightService {
	store := snapshot.NewStore()
	if snap != nil {
		store.Set(snap)
	}
	return NewInsightService(store)
}

func TestOverview(t *testing.T) {
	svc := newTestService(testSnapshot())

	overview := svc.Overview()

	assert.Equal(t, "Acme", overview.Brand)
	assert.Equal(t, float64(65), overview.GeoScore)
	assert.Equal(t, models.TierMedium, overview.GeoTier)
	assert.Equal(t, 10, overview.TotalPrompts)
	assert.Equal(t, 3, overview.TotalBrands)

	// Acme beats Gamma only: 1 of 3 strictly below -> 33rd percentile
	assert.Equal(t, 33, overview.GeoPercentile)
	assert.Equal(t, 33, overview.MentionPercentile)
	assert.Equal(t, 2, overview.GeoPosition)
	assert.Equal(t, 2, overview.MentionPosition)
	assert.Equal(t, models.OutlookNeutral, overview.Outlook)
}

func TestOverviewWithoutSnapshot(t *testing.T) {
	svc := newTestService(nil)

	assert.Equal(t, models.BrandOverview{}, svc.Overview())
}

func TestCompetitors(t *testing.T) {
	svc := newTestService(testSnapshot())

	rows := svc.Competitors()

	require.Len(t, rows, 3)
	assert.Equal(t, "Beta", rows[0].Brand)
	assert.Equal(t, 1, rows[0].Position)
	assert.False(t, rows[0].Subject)

	assert.Equal(t, "Acme", rows[1].Brand)
	assert.Equal(t, 2, rows[1].Position)
	assert.True(t, rows[1].Subject)

	assert.Equal(t, "Gamma", rows[2].Brand)
}

func TestKeywordInsights(t *testing.T) {
	svc := newTestService(testSnapshot())

	insights := svc.KeywordInsights()

	require.Len(t, insights, 2)
	// sorted by keyword name: anvils before widgets
	assert.Equal(t, "anvils", insights[0].Name)
	assert.Equal(t, 4, insights[0].PromptCount)
	assert.Equal(t, 2, insights[0].SubjectCount)
	// kw2 tie between Acme, Beta and Gamma at 2 goes to the first in
	// snapshot order
	assert.Equal(t, "Acme", insights[0].TopCompetitor.Brand)

	assert.Equal(t, "widgets", insights[1].Name)
	assert.Equal(t, 3, insights[1].SubjectCount)
	assert.Equal(t, "Beta", insights[1].TopCompetitor.Brand)
	assert.Equal(t, float64(6), insights[1].TopCompetitor.Score)
}

func TestSourceInsights(t *testing.T) {
	svc := newTestService(testSnapshot())

	insights := svc.SourceInsights()

	require.Len(t, insights, 1)
	assert.Equal(t, "reddit.com", insights[0].Source)
	assert.Equal(t, 2, insights[0].PagesUsed)
	assert.Equal(t, 2, insights[0].SubjectCount)
	assert.InDelta(t, 0.2, insights[0].SubjectScore, 0.001)
	assert.Equal(t, "Beta", insights[0].TopCompetitor.Brand)
}

func TestPositionBreakdownView(t *testing.T) {
	svc := newTestService(testSnapshot())

	breakdown := svc.PositionBreakdown()

	// single model with average rank 2.0: everything lands in the mid band
	assert.Equal(t, 0, breakdown.TopPercent)
	assert.Equal(t, 100, breakdown.MidPercent)
	assert.Equal(t, 0, breakdown.LowPercent)
}

func TestResponseRates(t *testing.T) {
	svc := newTestService(testSnapshot())

	rows := svc.ResponseRates(2)

	require.Len(t, rows, 3)
	assert.Equal(t, models.ResponseRateRow{Brand: "Beta", ResponseRate: 80}, rows[0])
	assert.Equal(t, models.ResponseRateRow{Brand: "Acme", ResponseRate: 50}, rows[1])
	assert.Equal(t, models.ResponseRateRow{Brand: "Gamma", ResponseRate: 20}, rows[2])
}

func TestEmptyStateViews(t *testing.T) {
	svc := newTestService(nil)

	assert.Empty(t, svc.Competitors())
	assert.Empty(t, svc.KeywordInsights())
	assert.Empty(t, svc.SourceInsights())
	assert.Equal(t, models.PositionBreakdown{}, svc.PositionBreakdown())
	assert.Empty(t, svc.ResponseRates(2))
}
