package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoscope/geoscope/internal/models"
)

func TestPositionBreakdown(t *testing.T) {
	llms := map[string]models.LLMRecord{
		"gpt-4o":     {QueriesWithBrand: 10, AverageBrandRank: 1.0},
		"gemini-pro": {QueriesWithBrand: 6, AverageBrandRank: 3.2},
		"llama3":     {QueriesWithBrand: 4, AverageBrandRank: 6.5},
	}

	b := PositionBreakdown(llms)

	assert.Equal(t, 50, b.TopPercent)
	assert.Equal(t, 30, b.MidPercent)
	assert.Equal(t, 20, b.LowPercent)
}

func TestPositionBreakdown_Empty(t *testing.T) {
	assert.Equal(t, models.PositionBreakdown{}, PositionBreakdown(nil))
	assert.Equal(t, models.PositionBreakdown{}, PositionBreakdown(map[string]models.LLMRecord{}))

	// zero queries everywhere must not divide by zero
	llms := map[string]models.LLMRecord{
		"gpt-4o": {QueriesWithBrand: 0, AverageBrandRank: 0},
	}
	assert.Equal(t, models.PositionBreakdown{}, PositionBreakdown(llms))
}

func TestPositionBreakdown_LegacyRecordsFallBack(t *testing.T) {
	// records without queries_with_brand use mentions count and overall rank
	llms := map[string]models.LLMRecord{
		"gpt-4o": {MentionsCount: 5, AverageRank: 2.0},
	}

	b := PositionBreakdown(llms)

	assert.Equal(t, 0, b.TopPercent)
	assert.Equal(t, 100, b.MidPercent)
	assert.Equal(t, 0, b.LowPercent)
}

func TestPositionBreakdown_BandBoundaries(t *testing.T) {
	exactlyTop := map[string]models.LLMRecord{"m": {QueriesWithBrand: 1, AverageBrandRank: 1.0}}
	assert.Equal(t, 100, PositionBreakdown(exactlyTop).TopPercent)

	exactlyMid := map[string]models.LLMRecord{"m": {QueriesWithBrand: 1, AverageBrandRank: 4.0}}
	assert.Equal(t, 100, PositionBreakdown(exactlyMid).MidPercent)

	justLow := map[string]models.LLMRecord{"m": {QueriesWithBrand: 1, AverageBrandRank: 4.01}}
	assert.Equal(t, 100, PositionBreakdown(justLow).LowPercent)
}
