// Package collector runs visibility measurements: it issues every tracked
// keyword's prompts to every enabled LLM, analyzes the answers for brand
// mentions and cited sources, and assembles the result into a single
// AnalyticsSnapshot.
package collector

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/geoscope/geoscope/internal/db"
	"github.com/geoscope/geoscope/internal/llm"
	"github.com/geoscope/geoscope/internal/logger"
	"github.com/geoscope/geoscope/internal/metrics"
	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/snapshot"
)

// Retry configuration defaults
const (
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 30 * time.Second
	DefaultRequestsPerMinute = 60
)

// Config tunes a collection run
type Config struct {
	RequestsPerMinute int
	Temperature       float64
	MaxRetries        int
	RetryDelay        time.Duration
}

// Collector assembles analytics snapshots from LLM answers
type Collector struct {
	db       db.Database
	registry *llm.Registry
	limiter  *rate.Limiter
	cfg      Config
}

// New creates a collector
func New(database db.Database, registry *llm.Registry, cfg Config) *Collector {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}

	return &Collector{
		db:       database,
		registry: registry,
		limiter:  rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		cfg:      cfg,
	}
}

// answer is one provider reply to one keyword prompt
type answer struct {
	keywordID string
	model     string
	text      string
}

// Collect runs one full measurement and returns the assembled snapshot.
// LLMIDs limits the run to specific LLM configurations; empty means all
// enabled ones.
func (c *Collector) Collect(ctx context.Context, llmIDs []string) (*models.AnalyticsSnapshot, error) {
	return c.collect(ctx, llmIDs, c.cfg.Temperature)
}

// CollectWithTemperature runs a collection with a per-run temperature
// override. Zero or negative falls back to the configured default.
func (c *Collector) CollectWithTemperature(ctx context.Context, llmIDs []string, temperature float64) (*models.AnalyticsSnapshot, error) {
	if temperature <= 0 {
		temperature = c.cfg.Temperature
	}
	return c.collect(ctx, llmIDs, temperature)
}

func (c *Collector) collect(ctx context.Context, llmIDs []string, temperature float64) (*models.AnalyticsSnapshot, error) {
	enabled := true

	brands, err := c.db.ListBrands(ctx, &enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked brands: %w", err)
	}
	if len(brands) == 0 {
		return nil, fmt.Errorf("no tracked brands configured")
	}

	keywords, err := c.db.ListKeywords(ctx, &enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked keywords: %w", err)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no tracked keywords configured")
	}

	llms, err := c.selectLLMs(ctx, llmIDs)
	if err != nil {
		return nil, err
	}
	if len(llms) == 0 {
		return nil, fmt.Errorf("no enabled LLMs configured")
	}

	logger.Info("Starting collection: %d brands, %d keywords, %d LLMs",
		len(brands), len(keywords), len(llms))

	answers := c.gatherAnswers(ctx, keywords, llms, temperature)
	logger.Info("Collected %d answers", len(answers))

	snap := buildSnapshot(subjectName(brands), brands, keywords, answers)
	return snap, nil
}

func (c *Collector) selectLLMs(ctx context.Context, llmIDs []string) ([]*models.LLMConfig, error) {
	if len(llmIDs) == 0 {
		enabled := true
		llms, err := c.db.ListLLMs(ctx, &enabled)
		if err != nil {
			return nil, fmt.Errorf("failed to list LLMs: %w", err)
		}
		return llms, nil
	}

	llms := make([]*models.LLMConfig, 0, len(llmIDs))
	for _, id := range llmIDs {
		llmConfig, err := c.db.GetLLM(ctx, id)
		if err != nil {
			logger.Error("Failed to get LLM %s: %v", id, err)
			continue
		}
		if !llmConfig.Enabled {
			logger.Warning("LLM %s is disabled, skipping", llmConfig.Name)
			continue
		}
		llms = append(llms, llmConfig)
	}
	return llms, nil
}

// subjectName picks the subject brand: the first marked Subject, falling
// back to the first tracked brand
func subjectName(brands []*models.TrackedBrand) string {
	for _, brand := range brands {
		if brand.Subject {
			return brand.Name
		}
	}
	return brands[0].Name
}

// gatherAnswers fans out every (keyword prompt, LLM) pair concurrently,
// bounded by the shared rate limiter
func (c *Collector) gatherAnswers(ctx context.Context, keywords []*models.TrackedKeyword, llms []*models.LLMConfig, temperature float64) []answer {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		answers []answer
	)

	for _, keyword := range keywords {
		for _, prompt := range keyword.Prompts {
			prompt = strings.ReplaceAll(prompt, "{keyword}", keyword.Name)
			for _, llmConfig := range llms {
				wg.Add(1)
				go func(keywordID, prompt string, l *models.LLMConfig) {
					defer wg.Done()

					text, err := c.generateWithRetry(ctx, prompt, l, temperature)
					if err != nil {
						logger.Error("Prompt failed on %s after all retries: %v", l.Name, err)
						return
					}

					mu.Lock()
					answers = append(answers, answer{
						keywordID: keywordID,
						model:     l.Name,
						text:      text,
					})
					mu.Unlock()
				}(keyword.ID, prompt, llmConfig)
			}
		}
	}

	wg.Wait()
	return answers
}

func (c *Collector) generateWithRetry(ctx context.Context, prompt string, llmConfig *models.LLMConfig, temperature float64) (string, error) {
	provider, ok := c.registry.Get(llmConfig.Provider)
	if !ok {
		return "", fmt.Errorf("provider not found: %s", llmConfig.Provider)
	}

	config := map[string]interface{}{
		"model":       llmConfig.Model,
		"api_key":     llmConfig.APIKey,
		"temperature": temperature,
	}
	if llmConfig.BaseURL != "" {
		config["base_url"] = llmConfig.BaseURL
	}
	for k, v := range llmConfig.Config {
		config[k] = v
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := provider.Generate(ctx, prompt, config)
		if err == nil && resp.Error == "" {
			return resp.Text, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("%s", resp.Error)
		}

		logger.Warning("Attempt %d/%d failed on %s: %v", attempt, c.cfg.MaxRetries, llmConfig.Name, lastErr)
		if attempt < c.cfg.MaxRetries {
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts, last error: %w", c.cfg.MaxRetries, lastErr)
}

// brandTally accumulates one brand's numbers across all answers
type brandTally struct {
	mentionCount int
	breakdown    map[string]int
	rankSum      int
	rankN        int
}

// modelTally accumulates per-model aggregates for the subject brand
type modelTally struct {
	prompts     int
	withSubject int
	rankSum     int
	hosts       map[string]bool
}

// buildSnapshot turns raw answers into a complete snapshot. Pure with
// respect to its inputs, which keeps it directly testable.
func buildSnapshot(brandName string, tracked []*models.TrackedBrand, keywords []*models.TrackedKeyword, answers []answer) *models.AnalyticsSnapshot {
	matchers := make([]brandMatcher, len(tracked))
	for i, brand := range tracked {
		matchers[i] = newBrandMatcher(brand.Name, brand.Aliases)
	}

	searchKeywords := make(map[string]models.KeywordRecord, len(keywords))
	for _, keyword := range keywords {
		searchKeywords[keyword.ID] = models.KeywordRecord{
			Name:    keyword.Name,
			Prompts: keyword.Prompts,
		}
	}
	totalPrompts := metrics.TotalPromptCount(searchKeywords)

	tallies := make(map[string]*brandTally, len(tracked))
	for _, brand := range tracked {
		tallies[brand.Name] = &brandTally{breakdown: make(map[string]int)}
	}
	modelTallies := make(map[string]*modelTally)
	sources := make(map[string]models.SourceRecord)
	var sourceOrder []string
	pagesSeen := make(map[string]map[string]bool)

	for _, ans := range answers {
		mt := modelTallies[ans.model]
		if mt == nil {
			mt = &modelTally{hosts: make(map[string]bool)}
			modelTallies[ans.model] = mt
		}
		mt.prompts++

		offsets := make(map[string]int, len(matchers))
		counts := make(map[string]int, len(matchers))
		for _, matcher := range matchers {
			offsets[matcher.name] = matcher.firstMention(ans.text)
			counts[matcher.name] = matcher.mentionCount(ans.text)
		}
		ranks := appearanceRanks(offsets)
		ordered := make([]string, len(ranks))
		for brand, rank := range ranks {
			ordered[rank-1] = brand
		}

		for _, brand := range ordered {
			tally := tallies[brand]
			tally.mentionCount += counts[brand]
			tally.breakdown[ans.keywordID]++
			tally.rankSum += ranks[brand]
			tally.rankN++
		}

		if rank, ok := ranks[brandName]; ok {
			mt.withSubject++
			mt.rankSum += rank
		}

		for _, cited := range citedURLs(ans.text) {
			host := sourceHost(cited)
			if host == "" {
				continue
			}
			mt.hosts[host] = true

			source, known := sources[host]
			if !known {
				source = models.SourceRecord{Mentions: map[string]models.SourceMention{}}
				sourceOrder = append(sourceOrder, host)
				pagesSeen[host] = make(map[string]bool)
			}
			if !pagesSeen[host][cited] {
				pagesSeen[host][cited] = true
				source.PagesUsed = append(source.PagesUsed, cited)
			}
			for _, brand := range ordered {
				mention, tracked := source.Mentions[brand]
				if !tracked {
					source.MentionOrder = append(source.MentionOrder, brand)
				}
				mention.Count++
				source.Mentions[brand] = mention
			}
			sources[host] = source
		}
	}

	// source scores are the share of all prompts that cited the source for
	// the brand
	for host, source := range sources {
		for brand, mention := range source.Mentions {
			if totalPrompts > 0 {
				mention.Score = math.Min(1, float64(mention.Count)/float64(totalPrompts))
			}
			source.Mentions[brand] = mention
		}
		sources[host] = source
	}

	brandRecords := make([]models.BrandRecord, 0, len(tracked))
	for _, brand := range tracked {
		tally := tallies[brand.Name]
		record := models.BrandRecord{
			Brand:            brand.Name,
			Logo:             brand.Logo,
			MentionCount:     tally.mentionCount,
			MentionBreakdown: tally.breakdown,
			GeoScore:         geoScore(tally, totalPrompts),
			MentionScore:     float64(metrics.MentionScorePercentage(tally.breakdown, totalPrompts)),
		}
		record.Summary = fmt.Sprintf("%s appeared in %d of %d prompts",
			brand.Name, promptsWithMention(tally), totalPrompts)
		brandRecords = append(brandRecords, record)
	}

	llmWise := make(map[string]models.LLMRecord, len(modelTallies))
	for model, mt := range modelTallies {
		record := models.LLMRecord{
			MentionsCount:    mt.withSubject,
			Prompts:          mt.prompts,
			Sources:          len(mt.hosts),
			QueriesWithBrand: mt.withSubject,
		}
		if mt.withSubject > 0 {
			record.AverageRank = float64(mt.rankSum) / float64(mt.withSubject)
			record.AverageBrandRank = record.AverageRank
		}
		llmWise[model] = record
	}

	now := time.Now()
	snap := &models.AnalyticsSnapshot{
		ID:             uuid.New().String(),
		BrandName:      brandName,
		Brands:         brandRecords,
		SearchKeywords: searchKeywords,
		Sources:        sources,
		SourceOrder:    sourceOrder,
		LLMWiseData:    llmWise,
		CollectedAt:    now,
		CreatedAt:      now,
	}

	// fills tiers from the cohort and defaults outlooks
	snapshot.Normalize(snap)
	applyOutlooks(snap)
	return snap
}

func promptsWithMention(tally *brandTally) int {
	sum := 0
	for _, count := range tally.breakdown {
		sum += count
	}
	return sum
}

// geoScore blends presence (how often the brand shows up) with prominence
// (how early it appears) into a 0-100 score
func geoScore(tally *brandTally, totalPrompts int) float64 {
	if totalPrompts <= 0 || tally.rankN == 0 {
		return 0
	}
	presence := float64(promptsWithMention(tally)) / float64(totalPrompts)
	if presence > 1 {
		presence = 1
	}
	avgRank := float64(tally.rankSum) / float64(tally.rankN)
	prominence := 1 / avgRank
	return math.Round(100*(0.7*presence+0.3*prominence)*10) / 10
}

func applyOutlooks(snap *models.AnalyticsSnapshot) {
	for i := range snap.Brands {
		switch snap.Brands[i].MentionTier {
		case models.TierHigh:
			snap.Brands[i].Outlook = models.OutlookPositive
		case models.TierLow:
			snap.Brands[i].Outlook = models.OutlookNegative
		default:
			snap.Brands[i].Outlook = models.OutlookNeutral
		}
	}
}
