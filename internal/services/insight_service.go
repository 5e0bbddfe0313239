// Package services composes the derivation functions in internal/metrics with
// the live snapshot into the views the API and CLI render.
package services

import (
	"sort"

	"github.com/geoscope/geoscope/internal/metrics"
	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/snapshot"
)

// InsightService derives dashboard views from the current snapshot. All
// methods are read-only and safe without a snapshot loaded: they return zero
// values and empty slices rather than errors, so the dashboard can render an
// empty state.
type InsightService struct {
	store *snapshot.Store
}

// NewInsightService creates an insight service over the snapshot store
func NewInsightService(store *snapshot.Store) *InsightService {
	return &InsightService{store: store}
}

// Overview returns the headline view for the subject brand
func (s *InsightService) Overview() models.BrandOverview {
	snap := s.store.Get()
	if snap == nil {
		return models.BrandOverview{}
	}

	overview := models.BrandOverview{
		Brand:        snap.BrandName,
		TotalPrompts: metrics.TotalPromptCount(snap.SearchKeywords),
		TotalBrands:  len(snap.Brands),
	}

	geoScores := make([]float64, 0, len(snap.Brands))
	mentionScores := make([]float64, 0, len(snap.Brands))
	for _, brand := range snap.Brands {
		geoScores = append(geoScores, brand.GeoScore)
		mentionScores = append(mentionScores, brand.MentionScore)
	}

	if subject := snap.SubjectBrand(); subject != nil {
		overview.GeoScore = subject.GeoScore
		overview.GeoTier = subject.GeoTier
		overview.MentionScore = subject.MentionScore
		overview.MentionTier = subject.MentionTier
		overview.Outlook = subject.Outlook
		overview.Summary = subject.Summary
		overview.GeoPercentile = metrics.PercentileRank(subject.GeoScore, geoScores)
		overview.MentionPercentile = metrics.PercentileRank(subject.MentionScore, mentionScores)
	}

	overview.GeoPosition = metrics.BrandPosition(snap.Brands, snap.BrandName, metrics.GeoScoreOf)
	overview.MentionPosition = metrics.BrandPosition(snap.Brands, snap.BrandName, metrics.MentionScoreOf)
	return overview
}

// Competitors returns all tracked brands ranked by geo score
func (s *InsightService) Competitors() []models.CompetitorRow {
	snap := s.store.Get()
	if snap == nil {
		return []models.CompetitorRow{}
	}

	ranked := metrics.CompetitorRanking(snap.Brands, metrics.GeoScoreOf)
	rows := make([]models.CompetitorRow, 0, len(ranked))
	for i, brand := range ranked {
		rows = append(rows, models.CompetitorRow{
			Position:     i + 1,
			Brand:        brand.Brand,
			Logo:         brand.Logo,
			GeoScore:     brand.GeoScore,
			GeoTier:      brand.GeoTier,
			MentionScore: brand.MentionScore,
			MentionTier:  brand.MentionTier,
			MentionCount: brand.MentionCount,
			Subject:      brand.Brand == snap.BrandName,
		})
	}
	return rows
}

// KeywordInsights returns every tracked keyword with its dominating brand,
// sorted by keyword name
func (s *InsightService) KeywordInsights() []models.KeywordInsight {
	snap := s.store.Get()
	if snap == nil {
		return []models.KeywordInsight{}
	}

	subject := snap.SubjectBrand()

	insights := make([]models.KeywordInsight, 0, len(snap.SearchKeywords))
	for id, keyword := range snap.SearchKeywords {
		insight := models.KeywordInsight{
			KeywordID:     id,
			Name:          keyword.Name,
			PromptCount:   len(keyword.Prompts),
			TopCompetitor: metrics.TopCompetitorForKeyword(snap.Brands, id),
		}
		if subject != nil {
			insight.SubjectCount = subject.MentionBreakdown[id]
		}
		insights = append(insights, insight)
	}

	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Name != insights[j].Name {
			return insights[i].Name < insights[j].Name
		}
		return insights[i].KeywordID < insights[j].KeywordID
	})
	return insights
}

// SourceInsights returns every cited source with its dominating brand, in the
// snapshot's source order
func (s *InsightService) SourceInsights() []models.SourceInsight {
	snap := s.store.Get()
	if snap == nil {
		return []models.SourceInsight{}
	}

	insights := make([]models.SourceInsight, 0, len(snap.SourceOrder))
	for _, name := range snap.SourceOrder {
		source, ok := snap.Sources[name]
		if !ok {
			continue
		}
		insight := models.SourceInsight{
			Source:        name,
			PagesUsed:     len(source.PagesUsed),
			TopCompetitor: metrics.TopCompetitorForSource(source),
		}
		if mention, ok := source.Mentions[snap.BrandName]; ok {
			insight.SubjectCount = mention.Count
			insight.SubjectScore = mention.Score
		}
		insights = append(insights, insight)
	}
	return insights
}

// PositionBreakdown returns the subject brand's rank-band split across models
func (s *InsightService) PositionBreakdown() models.PositionBreakdown {
	snap := s.store.Get()
	if snap == nil {
		return models.PositionBreakdown{}
	}
	return metrics.PositionBreakdown(snap.LLMWiseData)
}

// ResponseRates returns the compact response-rate table: the top competitors
// plus the subject brand
func (s *InsightService) ResponseRates(limit int) []models.ResponseRateRow {
	snap := s.store.Get()
	if snap == nil {
		return []models.ResponseRateRow{}
	}
	return metrics.ResponseRateTable(snap.Brands, snap.BrandName, limit)
}
