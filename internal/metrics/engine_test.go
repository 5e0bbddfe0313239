package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoscope/geoscope/internal/models"
)

func TestPercentileRank(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		population []float64
		want       int
	}{
		{"empty population", 50, nil, 0},
		{"above all", 100, []float64{10, 20, 30}, 100},
		{"minimum of population", 10, []float64{10, 20, 30}, 0},
		{"median", 20, []float64{10, 20, 30}, 33},
		{"ties do not advance rank", 20, []float64{20, 20, 20}, 0},
		{"half below", 15, []float64{10, 20}, 50},
		{"single member below", 5, []float64{1}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentileRank(tt.value, tt.population))
		})
	}
}

func TestTierFromPercentile_Boundaries(t *testing.T) {
	assert.Equal(t, models.TierHigh, TierFromPercentile(70))
	assert.Equal(t, models.TierMedium, TierFromPercentile(69))
	assert.Equal(t, models.TierMedium, TierFromPercentile(40))
	assert.Equal(t, models.TierLow, TierFromPercentile(39))
	assert.Equal(t, models.TierHigh, TierFromPercentile(100))
	assert.Equal(t, models.TierLow, TierFromPercentile(0))
}

func TestTierFromPercentile_TotalCoverage(t *testing.T) {
	valid := map[models.Tier]bool{
		models.TierHigh:   true,
		models.TierMedium: true,
		models.TierLow:    true,
	}
	for p := 0; p <= 100; p++ {
		assert.True(t, valid[TierFromPercentile(p)], "percentile %d", p)
	}
}

func TestMentionScorePercentage(t *testing.T) {
	tests := []struct {
		name      string
		breakdown map[string]int
		total     int
		want      int
	}{
		{"nil breakdown", nil, 10, 0},
		{"zero total", map[string]int{"k1": 3}, 0, 0},
		{"negative total", map[string]int{"k1": 3}, -5, 0},
		{"half", map[string]int{"k1": 3, "k2": 2}, 10, 50},
		{"capped at 100", map[string]int{"k1": 20}, 5, 100},
		{"exact full", map[string]int{"k1": 10}, 10, 100},
		{"rounding", map[string]int{"k1": 1}, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MentionScorePercentage(tt.breakdown, tt.total)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestTotalPromptCount(t *testing.T) {
	keywords := map[string]models.KeywordRecord{
		"k1": {Name: "crm software", Prompts: []string{"a", "b", "c"}},
		"k2": {Name: "sales tools", Prompts: []string{"d"}},
		"k3": {Name: "empty", Prompts: nil},
	}
	assert.Equal(t, 4, TotalPromptCount(keywords))
	assert.Equal(t, 0, TotalPromptCount(nil))
}

func TestCompetitorRanking_StableAndNonMutating(t *testing.T) {
	brands := []models.BrandRecord{
		{Brand: "Acme", MentionScore: 50},
		{Brand: "Beta", MentionScore: 80},
		{Brand: "Gamma", MentionScore: 50},
	}

	ranked := CompetitorRanking(brands, MentionScoreOf)

	assert.Equal(t, "Beta", ranked[0].Brand)
	// Acme precedes Gamma: equal scores keep input order
	assert.Equal(t, "Acme", ranked[1].Brand)
	assert.Equal(t, "Gamma", ranked[2].Brand)

	// input untouched
	assert.Equal(t, "Acme", brands[0].Brand)
	assert.Equal(t, "Beta", brands[1].Brand)
}

func TestBrandPosition(t *testing.T) {
	brands := []models.BrandRecord{
		{Brand: "Acme", MentionScore: 80},
		{Brand: "Beta", MentionScore: 50},
		{Brand: "Gamma", MentionScore: 50},
	}

	assert.Equal(t, 1, BrandPosition(brands, "Acme", MentionScoreOf))
	// Beta precedes Gamma at the shared score, so Gamma is third
	assert.Equal(t, 3, BrandPosition(brands, "Gamma", MentionScoreOf))
}

func TestBrandPosition_MissingBrandRanksLast(t *testing.T) {
	brands := []models.BrandRecord{{Brand: "A", GeoScore: 10}}
	assert.Equal(t, 1, BrandPosition(brands, "Z", GeoScoreOf))

	assert.Equal(t, 0, BrandPosition(nil, "Z", GeoScoreOf))
}

func TestTopCompetitorForKeyword(t *testing.T) {
	brands := []models.BrandRecord{
		{Brand: "Acme", Logo: "acme.png", MentionBreakdown: map[string]int{"k1": 4}},
		{Brand: "Beta", MentionBreakdown: map[string]int{"k1": 4, "k2": 9}},
		{Brand: "Gamma", MentionBreakdown: nil},
	}

	// first-encountered wins the tie at 4
	top := TopCompetitorForKeyword(brands, "k1")
	assert.Equal(t, "Acme", top.Brand)
	assert.Equal(t, 4.0, top.Score)
	assert.Equal(t, "acme.png", top.Logo)

	assert.Equal(t, "Beta", TopCompetitorForKeyword(brands, "k2").Brand)

	// no positive score -> empty sentinel
	assert.True(t, TopCompetitorForKeyword(brands, "k3").IsZero())
	assert.True(t, TopCompetitorForKeyword(nil, "k1").IsZero())
}

func TestTopCompetitorForSource(t *testing.T) {
	source := models.SourceRecord{
		Mentions: map[string]models.SourceMention{
			"Acme": {Count: 3, Score: 0.3},
			"Beta": {Count: 3, Score: 0.5},
		},
		MentionOrder: []string{"Beta", "Acme"},
	}

	// Beta was seen first on this source, so it wins the tie
	top := TopCompetitorForSource(source)
	assert.Equal(t, "Beta", top.Brand)
	assert.Equal(t, 3.0, top.Score)

	assert.True(t, TopCompetitorForSource(models.SourceRecord{}).IsZero())
}

func TestTopCompetitorForSource_NoOrderFallsBackToSortedKeys(t *testing.T) {
	source := models.SourceRecord{
		Mentions: map[string]models.SourceMention{
			"Zeta": {Count: 2},
			"Acme": {Count: 2},
		},
	}
	assert.Equal(t, "Acme", TopCompetitorForSource(source).Brand)
}

func TestResponseRateTable(t *testing.T) {
	brands := []models.BrandRecord{
		{Brand: "Acme", MentionScore: 40},
		{Brand: "Beta", MentionScore: 90},
		{Brand: "Gamma", MentionScore: 60},
		{Brand: "Delta", MentionScore: 10},
	}

	rows := ResponseRateTable(brands, "Acme", 2)

	assert.Len(t, rows, 3)
	assert.Equal(t, models.ResponseRateRow{Brand: "Beta", ResponseRate: 90}, rows[0])
	assert.Equal(t, models.ResponseRateRow{Brand: "Gamma", ResponseRate: 60}, rows[1])
	assert.Equal(t, models.ResponseRateRow{Brand: "Acme", ResponseRate: 40}, rows[2])
}

func TestResponseRateTable_SubjectAlwaysIncluded(t *testing.T) {
	brands := []models.BrandRecord{
		{Brand: "Acme", MentionScore: 1},
		{Brand: "Beta", MentionScore: 90},
		{Brand: "Gamma", MentionScore: 60},
	}

	rows := ResponseRateTable(brands, "Acme", 2)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Acme", rows[2].Brand)
}

func TestResponseRateTable_CapsAndDefaults(t *testing.T) {
	brands := []models.BrandRecord{
		{Brand: "Acme", MentionScore: 250},
		{Brand: "Beta", MentionScore: 30},
	}

	rows := ResponseRateTable(brands, "Acme", 0) // limit defaults to 2
	assert.Equal(t, 100, rows[0].ResponseRate)

	// missing subject: competitors only
	rows = ResponseRateTable(brands, "Zeta", 2)
	assert.Len(t, rows, 2)

	assert.Empty(t, ResponseRateTable(nil, "Acme", 2))
}

func TestEngineIsStateless(t *testing.T) {
	brands := []models.BrandRecord{
		{Brand: "Acme", MentionScore: 80, MentionBreakdown: map[string]int{"k1": 3}},
		{Brand: "Beta", MentionScore: 50, MentionBreakdown: map[string]int{"k1": 7}},
	}
	pop := []float64{10, 20, 30, 40}

	for i := 0; i < 3; i++ {
		assert.Equal(t, 75, PercentileRank(35, pop))
		assert.Equal(t, 1, BrandPosition(brands, "Acme", MentionScoreOf))
		assert.Equal(t, "Beta", TopCompetitorForKeyword(brands, "k1").Brand)
	}
}
