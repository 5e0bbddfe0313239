package snapshot

import (
	"sort"

	"github.com/geoscope/geoscope/internal/metrics"
	"github.com/geoscope/geoscope/internal/models"
)

// Normalize applies all boundary defaulting in one place so downstream
// derivations can assume a validated shape: nil maps become empty, scores are
// clamped, missing or out-of-enum tiers are recomputed from the brand cohort, missing
// outlooks fall back to Neutral, and the order slices that tie-breaking scans
// depend on are rebuilt when absent. Safe on a nil snapshot.
func Normalize(snap *models.AnalyticsSnapshot) {
	if snap == nil {
		return
	}

	if snap.SearchKeywords == nil {
		snap.SearchKeywords = map[string]models.KeywordRecord{}
	}
	if snap.Sources == nil {
		snap.Sources = map[string]models.SourceRecord{}
	}
	if snap.LLMWiseData == nil {
		snap.LLMWiseData = map[string]models.LLMRecord{}
	}

	normalizeBrands(snap)
	normalizeSources(snap)
}

func normalizeBrands(snap *models.AnalyticsSnapshot) {
	geoScores := make([]float64, 0, len(snap.Brands))
	mentionScores := make([]float64, 0, len(snap.Brands))
	for i := range snap.Brands {
		b := &snap.Brands[i]
		if b.GeoScore < 0 {
			b.GeoScore = 0
		}
		if b.MentionScore < 0 {
			b.MentionScore = 0
		}
		if b.MentionCount < 0 {
			b.MentionCount = 0
		}
		geoScores = append(geoScores, b.GeoScore)
		mentionScores = append(mentionScores, b.MentionScore)
	}

	for i := range snap.Brands {
		b := &snap.Brands[i]
		if !validTier(b.GeoTier) {
			b.GeoTier = metrics.TierFromPercentile(metrics.PercentileRank(b.GeoScore, geoScores))
		}
		if !validTier(b.MentionTier) {
			b.MentionTier = metrics.TierFromPercentile(metrics.PercentileRank(b.MentionScore, mentionScores))
		}
		switch b.Outlook {
		case models.OutlookPositive, models.OutlookNeutral, models.OutlookNegative:
		default:
			b.Outlook = models.OutlookNeutral
		}
	}
}

// validTier reports whether a tier string is one of the enum values.
// Anything else, a casing mismatch included, gets recomputed from the cohort.
func validTier(tier models.Tier) bool {
	switch tier {
	case models.TierHigh, models.TierMedium, models.TierLow:
		return true
	}
	return false
}

func normalizeSources(snap *models.AnalyticsSnapshot) {
	for name, source := range snap.Sources {
		if source.Mentions == nil {
			source.Mentions = map[string]models.SourceMention{}
		}
		source.MentionOrder = validOrder(source.MentionOrder, func(brand string) bool {
			_, ok := source.Mentions[brand]
			return ok
		}, mapKeys(source.Mentions))

		for brand, mention := range source.Mentions {
			if mention.Score < 0 {
				mention.Score = 0
			}
			if mention.Score > 1 {
				mention.Score = 1
			}
			if mention.Count < 0 {
				mention.Count = 0
			}
			source.Mentions[brand] = mention
		}
		snap.Sources[name] = source
	}

	snap.SourceOrder = validOrder(snap.SourceOrder, func(name string) bool {
		_, ok := snap.Sources[name]
		return ok
	}, sourceKeys(snap.Sources))
}

// validOrder keeps an order slice if every entry resolves, otherwise falls
// back to sorted keys. Ingested JSON cannot carry map insertion order, so the
// sorted fallback is the deterministic policy for external payloads.
func validOrder(order []string, resolves func(string) bool, fallback []string) []string {
	if len(order) > 0 {
		valid := order[:0:len(order)]
		for _, key := range order {
			if resolves(key) {
				valid = append(valid, key)
			}
		}
		if len(valid) > 0 {
			return valid
		}
	}
	sort.Strings(fallback)
	return fallback
}

func mapKeys(m map[string]models.SourceMention) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func sourceKeys(m map[string]models.SourceRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
