package metrics

import (
	"math"

	"github.com/geoscope/geoscope/internal/models"
)

// Rank bands for position bucketing
const (
	topRankCeiling = 1.0
	midRankCeiling = 4.0
)

// PositionBreakdown aggregates per-model rank data into three percentage
// buckets. Each model's queries-with-brand count lands wholly in the band of
// its average brand rank: <=1 is top, <=4 is mid, everything else low.
// Buckets are divided by the summed queries-with-brand, with the divisor
// floored to 1 so an empty snapshot yields an all-zero breakdown, never NaN.
//
// Models that predate the queries_with_brand field fall back to their
// mentions count and overall average rank.
func PositionBreakdown(llms map[string]models.LLMRecord) models.PositionBreakdown {
	var top, mid, low, total int
	for _, rec := range llms {
		queries := rec.QueriesWithBrand
		rank := rec.AverageBrandRank
		if queries == 0 {
			queries = rec.MentionsCount
		}
		if rank == 0 {
			rank = rec.AverageRank
		}
		if queries <= 0 {
			continue
		}

		total += queries
		switch {
		case rank <= topRankCeiling:
			top += queries
		case rank <= midRankCeiling:
			mid += queries
		default:
			low += queries
		}
	}

	divisor := total
	if divisor == 0 {
		divisor = 1
	}
	return models.PositionBreakdown{
		TopPercent: roundPct(top, divisor),
		MidPercent: roundPct(mid, divisor),
		LowPercent: roundPct(low, divisor),
	}
}

func roundPct(part, whole int) int {
	return int(math.Round(100 * float64(part) / float64(whole)))
}
