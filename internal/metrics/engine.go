// Package metrics derives display-ready values from an analytics snapshot.
//
// Every function here is a pure, stateless computation: identical inputs
// yield identical outputs, nothing is cached, and the snapshot is never
// mutated. Missing or malformed input degrades to a documented default
// (0, TierLow, empty) instead of returning an error, so callers on a
// rendering path never have to branch on failure.
package metrics

import (
	"math"
	"sort"

	"github.com/geoscope/geoscope/internal/models"
)

// Tier thresholds, inclusive on the upper tier.
const (
	highPercentileFloor   = 70
	mediumPercentileFloor = 40
)

// PercentileRank returns the integer percentile (0-100) of value within
// population: the rounded share of members strictly below value. Ties do not
// advance the rank. An empty population yields 0.
func PercentileRank(value float64, population []float64) int {
	if len(population) == 0 {
		return 0
	}
	below := 0
	for _, v := range population {
		if v < value {
			below++
		}
	}
	return int(math.Round(100 * float64(below) / float64(len(population))))
}

// TierFromPercentile maps a percentile rank to a tier. 70 and above is High,
// 40 and above is Medium, everything below is Low.
func TierFromPercentile(percentile int) models.Tier {
	switch {
	case percentile >= highPercentileFloor:
		return models.TierHigh
	case percentile >= mediumPercentileFloor:
		return models.TierMedium
	default:
		return models.TierLow
	}
}

// MentionScorePercentage converts a per-keyword mention breakdown into an
// integer percentage of totalPrompts, capped at 100. A nil breakdown or a
// non-positive total yields 0.
func MentionScorePercentage(breakdown map[string]int, totalPrompts int) int {
	if len(breakdown) == 0 || totalPrompts <= 0 {
		return 0
	}
	sum := 0
	for _, count := range breakdown {
		sum += count
	}
	pct := int(math.Round(100 * float64(sum) / float64(totalPrompts)))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// TotalPromptCount sums the prompt counts of all keyword records. Every
// derivation that needs "percentage of all prompts" must share one total per
// snapshot; compute it once and pass it around.
func TotalPromptCount(keywords map[string]models.KeywordRecord) int {
	total := 0
	for _, kw := range keywords {
		total += len(kw.Prompts)
	}
	return total
}

// ScoreSelector extracts the ranking score from a brand record
type ScoreSelector func(models.BrandRecord) float64

// GeoScoreOf selects a brand's geo score
func GeoScoreOf(b models.BrandRecord) float64 { return b.GeoScore }

// MentionScoreOf selects a brand's mention score
func MentionScoreOf(b models.BrandRecord) float64 { return b.MentionScore }

// CompetitorRanking returns a copy of brands sorted by score descending.
// The sort is stable: brands with equal scores keep their original relative
// order, so reported positions are deterministic. The input is not mutated.
func CompetitorRanking(brands []models.BrandRecord, score ScoreSelector) []models.BrandRecord {
	ranked := make([]models.BrandRecord, len(brands))
	copy(ranked, brands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	return ranked
}

// BrandPosition returns the 1-based rank of brandName within the stable
// ranking of brands by score. A brand that is not present ranks last
// (len(brands)) rather than producing an error, so rendering stays non-fatal.
func BrandPosition(brands []models.BrandRecord, brandName string, score ScoreSelector) int {
	ranked := CompetitorRanking(brands, score)
	for i := range ranked {
		if ranked[i].Brand == brandName {
			return i + 1
		}
	}
	return len(brands)
}

// TopCompetitorForKeyword returns the brand with the highest mention count
// for the given keyword. Ties go to the first brand encountered in snapshot
// order. When no brand has a positive count the empty sentinel is returned.
func TopCompetitorForKeyword(brands []models.BrandRecord, keywordID string) models.CompetitorHighlight {
	var top models.CompetitorHighlight
	best := 0
	for i := range brands {
		count := brands[i].MentionBreakdown[keywordID]
		if count > best {
			best = count
			top = models.CompetitorHighlight{
				Brand: brands[i].Brand,
				Score: float64(count),
				Logo:  brands[i].Logo,
			}
		}
	}
	return top
}

// TopCompetitorForSource returns the brand with the highest mention count on
// a source, scanning in the source's recorded brand order so that ties go to
// the first brand seen. Sources without an order slice are scanned in sorted
// key order to stay deterministic across calls.
func TopCompetitorForSource(source models.SourceRecord) models.CompetitorHighlight {
	var top models.CompetitorHighlight
	best := 0
	for _, brand := range sourceBrandOrder(source) {
		mention, ok := source.Mentions[brand]
		if !ok {
			continue
		}
		if mention.Count > best {
			best = mention.Count
			top = models.CompetitorHighlight{Brand: brand, Score: float64(mention.Count)}
		}
	}
	return top
}

func sourceBrandOrder(source models.SourceRecord) []string {
	if len(source.MentionOrder) > 0 {
		return source.MentionOrder
	}
	keys := make([]string, 0, len(source.Mentions))
	for brand := range source.Mentions {
		keys = append(keys, brand)
	}
	sort.Strings(keys)
	return keys
}

// ResponseRateTable builds the compact subject-vs-top-competitors table: the
// top limit competitors by mention score plus the subject brand, re-sorted
// descending for display, every rate capped at 100. A missing subject record
// yields a competitors-only table; nil brands yields an empty table.
func ResponseRateTable(brands []models.BrandRecord, brandName string, limit int) []models.ResponseRateRow {
	if limit <= 0 {
		limit = 2
	}

	competitors := make([]models.BrandRecord, 0, len(brands))
	var subject *models.BrandRecord
	for i := range brands {
		if brands[i].Brand == brandName {
			subject = &brands[i]
			continue
		}
		competitors = append(competitors, brands[i])
	}

	ranked := CompetitorRanking(competitors, MentionScoreOf)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if subject != nil {
		ranked = append(ranked, *subject)
	}

	rows := make([]models.ResponseRateRow, 0, len(ranked))
	for _, b := range CompetitorRanking(ranked, MentionScoreOf) {
		rows = append(rows, models.ResponseRateRow{
			Brand:        b.Brand,
			ResponseRate: capPercent(b.MentionScore),
		})
	}
	return rows
}

func capPercent(score float64) int {
	pct := int(math.Round(score))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
