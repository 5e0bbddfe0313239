package models

// CompetitorHighlight identifies the strongest brand for a keyword or source.
// The zero value is the empty sentinel returned when no brand has a positive
// score.
type CompetitorHighlight struct {
	Brand string  `json:"brand"`
	Score float64 `json:"score"`
	Logo  string  `json:"logo,omitempty"`
}

// IsZero reports whether the highlight is the empty sentinel
func (h CompetitorHighlight) IsZero() bool {
	return h.Brand == "" && h.Score == 0
}

// PositionBreakdown splits the subject brand's appearances into rank bands,
// expressed as integer percentages of all queries that surfaced the brand
type PositionBreakdown struct {
	TopPercent int `json:"top_percent"` // average rank <= 1
	MidPercent int `json:"mid_percent"` // average rank <= 4
	LowPercent int `json:"low_percent"` // everything else
}

// ResponseRateRow is one row of the compact response-rate table: a brand and
// the percentage of prompts it appeared in, capped at 100
type ResponseRateRow struct {
	Brand        string `json:"brand"`
	ResponseRate int    `json:"response_rate"`
}

// BrandOverview is the headline view for the subject brand
type BrandOverview struct {
	Brand             string  `json:"brand"`
	GeoScore          float64 `json:"geo_score"`
	GeoTier           Tier    `json:"geo_tier"`
	GeoPercentile     int     `json:"geo_percentile"`
	GeoPosition       int     `json:"geo_position"` // 1-based rank among all tracked brands
	MentionScore      float64 `json:"mention_score"`
	MentionTier       Tier    `json:"mention_tier"`
	MentionPercentile int     `json:"mention_percentile"`
	MentionPosition   int     `json:"mention_position"`
	Outlook           Outlook `json:"outlook"`
	Summary           string  `json:"summary,omitempty"`
	TotalPrompts      int     `json:"total_prompts"`
	TotalBrands       int     `json:"total_brands"`
}

// CompetitorRow is one entry of the ranked competitor table
type CompetitorRow struct {
	Position     int     `json:"position"`
	Brand        string  `json:"brand"`
	Logo         string  `json:"logo,omitempty"`
	GeoScore     float64 `json:"geo_score"`
	GeoTier      Tier    `json:"geo_tier"`
	MentionScore float64 `json:"mention_score"`
	MentionTier  Tier    `json:"mention_tier"`
	MentionCount int     `json:"mention_count"`
	Subject      bool    `json:"subject"`
}

// KeywordInsight pairs a keyword with the brand that dominates it
type KeywordInsight struct {
	KeywordID     string              `json:"keyword_id"`
	Name          string              `json:"name"`
	PromptCount   int                 `json:"prompt_count"`
	SubjectCount  int                 `json:"subject_count"` // prompts mentioning the subject brand
	TopCompetitor CompetitorHighlight `json:"top_competitor"`
}

// SourceInsight pairs a cited source with the brand that dominates it
type SourceInsight struct {
	Source        string              `json:"source"`
	PagesUsed     int                 `json:"pages_used"`
	SubjectCount  int                 `json:"subject_count"`
	SubjectScore  float64             `json:"subject_score"`
	TopCompetitor CompetitorHighlight `json:"top_competitor"`
}
