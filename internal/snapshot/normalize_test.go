package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoscope/geoscope/internal/models"
)

func TestNormalizeDefaultsMapsAndOutlook(t *testing.T) {
	snap := &models.AnalyticsSnapshot{
		BrandName: "Acme",
		Brands: []models.BrandRecord{
			{Brand: "Acme", GeoScore: 80, MentionScore: 60, Outlook: "great!"},
			{Brand: "Beta", GeoScore: -3, MentionScore: 20, Outlook: models.OutlookPositive},
		},
	}

	Normalize(snap)

	assert.NotNil(t, snap.SearchKeywords)
	assert.NotNil(t, snap.Sources)
	assert.NotNil(t, snap.LLMWiseData)

	// free-form outlook falls back to Neutral, valid values survive
	assert.Equal(t, models.OutlookNeutral, snap.Brands[0].Outlook)
	assert.Equal(t, models.OutlookPositive, snap.Brands[1].Outlook)

	// negative score clamped before tiering
	assert.Equal(t, 0.0, snap.Brands[1].GeoScore)
}

func TestNormalizeRecomputesMissingTiers(t *testing.T) {
	snap := &models.AnalyticsSnapshot{
		Brands: []models.BrandRecord{
			{Brand: "A", GeoScore: 90},
			{Brand: "B", GeoScore: 50, GeoTier: models.TierHigh}, // explicit tier kept
			{Brand: "C", GeoScore: 10},
		},
	}

	Normalize(snap)

	// A is above 2 of 3 -> percentile 67 -> Medium
	assert.Equal(t, models.TierMedium, snap.Brands[0].GeoTier)
	assert.Equal(t, models.TierHigh, snap.Brands[1].GeoTier)
	// C is above none -> percentile 0 -> Low
	assert.Equal(t, models.TierLow, snap.Brands[2].GeoTier)
}

func TestNormalizeRecomputesMalformedTiers(t *testing.T) {
	snap := &models.AnalyticsSnapshot{
		Brands: []models.BrandRecord{
			{Brand: "A", GeoScore: 90, GeoTier: "HIGH", MentionScore: 90, MentionTier: "great"},
			{Brand: "B", GeoScore: 50, MentionScore: 50},
			{Brand: "C", GeoScore: 10, MentionScore: 10},
		},
	}

	Normalize(snap)

	// casing and free-form tier strings are treated like missing ones
	assert.Equal(t, models.TierMedium, snap.Brands[0].GeoTier)
	assert.Equal(t, models.TierMedium, snap.Brands[0].MentionTier)
}

func TestNormalizeSources(t *testing.T) {
	snap := &models.AnalyticsSnapshot{
		Sources: map[string]models.SourceRecord{
			"reddit.com": {
				Mentions: map[string]models.SourceMention{
					"Acme": {Count: 3, Score: 1.7},
					"Beta": {Count: -1, Score: -0.2},
				},
				MentionOrder: []string{"Beta", "Ghost", "Acme"},
			},
			"g2.com": {}, // nil mentions map
		},
	}

	Normalize(snap)

	src := snap.Sources["reddit.com"]
	assert.Equal(t, 1.0, src.Mentions["Acme"].Score)
	assert.Equal(t, 0.0, src.Mentions["Beta"].Score)
	assert.Equal(t, 0, src.Mentions["Beta"].Count)
	// unknown brands pruned from the order, known order preserved
	assert.Equal(t, []string{"Beta", "Acme"}, src.MentionOrder)

	assert.NotNil(t, snap.Sources["g2.com"].Mentions)
	assert.Equal(t, []string{"g2.com", "reddit.com"}, snap.SourceOrder)
}

func TestNormalizeNilSnapshot(t *testing.T) {
	assert.NotPanics(t, func() { Normalize(nil) })
}
