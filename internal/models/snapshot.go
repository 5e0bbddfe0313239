package models

import (
	"time"
)

// Tier buckets a percentile rank for display
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// Outlook classifies the sentiment of a brand's visibility trajectory
type Outlook string

const (
	OutlookPositive Outlook = "Positive"
	OutlookNeutral  Outlook = "Neutral"
	OutlookNegative Outlook = "Negative"
)

// BrandRecord holds per-brand visibility scores within a snapshot
type BrandRecord struct {
	Brand            string         `json:"brand" bson:"brand"`
	Logo             string         `json:"logo,omitempty" bson:"logo,omitempty"`
	GeoScore         float64        `json:"geo_score" bson:"geo_score"`
	GeoTier          Tier           `json:"geo_tier" bson:"geo_tier"`
	MentionScore     float64        `json:"mention_score" bson:"mention_score"` // percentage of all prompts, 0-100
	MentionTier      Tier           `json:"mention_tier" bson:"mention_tier"`
	MentionCount     int            `json:"mention_count" bson:"mention_count"`
	MentionBreakdown map[string]int `json:"mention_breakdown,omitempty" bson:"mention_breakdown,omitempty"` // keyword id -> prompts mentioning the brand
	Summary          string         `json:"summary,omitempty" bson:"summary,omitempty"`
	Outlook          Outlook        `json:"outlook,omitempty" bson:"outlook,omitempty"`
}

// KeywordRecord describes one tracked search keyword and the prompts issued for it
type KeywordRecord struct {
	Name    string   `json:"name" bson:"name"`
	Prompts []string `json:"prompts" bson:"prompts"`
}

// SourceMention holds one brand's footprint on a cited source
type SourceMention struct {
	Count   int     `json:"count" bson:"count"`
	Score   float64 `json:"score" bson:"score"` // 0-1
	Insight string  `json:"insight,omitempty" bson:"insight,omitempty"`
}

// SourceRecord describes a cited source (a content domain) and which brands it surfaced
type SourceRecord struct {
	Mentions map[string]SourceMention `json:"mentions" bson:"mentions"` // brand name -> mention
	// MentionOrder preserves the order brands were first seen on this source.
	// Go maps do not keep insertion order, so tie-breaking scans iterate this.
	MentionOrder []string `json:"mention_order,omitempty" bson:"mention_order,omitempty"`
	PagesUsed    []string `json:"pages_used,omitempty" bson:"pages_used,omitempty"`
}

// LLMRecord holds per-model aggregates for the subject brand
type LLMRecord struct {
	MentionsCount    int     `json:"mentions_count" bson:"mentions_count"`
	Prompts          int     `json:"prompts" bson:"prompts"`
	AverageRank      float64 `json:"average_rank" bson:"average_rank"` // mean appearance position, 1 = first
	Sources          int     `json:"sources" bson:"sources"`           // distinct cited sources
	QueriesWithBrand int     `json:"queries_with_brand,omitempty" bson:"queries_with_brand,omitempty"`
	AverageBrandRank float64 `json:"average_brand_rank,omitempty" bson:"average_brand_rank,omitempty"`
}

// AnalyticsSnapshot is one complete visibility measurement. Snapshots are
// replaced wholesale: a new collection run produces a new snapshot and the
// previous one is swapped out as a unit, never patched field by field.
type AnalyticsSnapshot struct {
	ID             string                   `json:"id" bson:"_id"`
	BrandName      string                   `json:"brand_name" bson:"brand_name"` // subject brand, matches one Brands entry
	Brands         []BrandRecord            `json:"brands" bson:"brands"`
	SearchKeywords map[string]KeywordRecord `json:"search_keywords" bson:"search_keywords"` // keyword id -> record
	Sources        map[string]SourceRecord  `json:"sources_and_content_impact" bson:"sources_and_content_impact"`
	SourceOrder    []string                 `json:"source_order,omitempty" bson:"source_order,omitempty"`
	LLMWiseData    map[string]LLMRecord     `json:"llm_wise_data" bson:"llm_wise_data"` // model name -> record
	CollectedAt    time.Time                `json:"collected_at" bson:"collected_at"`
	CreatedAt      time.Time                `json:"created_at" bson:"created_at"`
}

// SubjectBrand returns the snapshot's subject BrandRecord, or nil when no
// entry matches BrandName
func (s *AnalyticsSnapshot) SubjectBrand() *BrandRecord {
	if s == nil {
		return nil
	}
	for i := range s.Brands {
		if s.Brands[i].Brand == s.BrandName {
			return &s.Brands[i]
		}
	}
	return nil
}
