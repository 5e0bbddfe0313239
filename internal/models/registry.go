package models

import (
	"time"
)

// Registry entities: the tracked universe that collection runs operate on.
// These live in the SQL database; snapshots live in the NoSQL archive.

// Config holds database configuration
type Config struct {
	Provider string            // sqlite, mongodb
	URI      string            // Connection URI
	Database string            // Database name
	Options  map[string]string // Provider-specific options
}

// LLMConfig represents an LLM provider configuration
type LLMConfig struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Provider  string            `json:"provider"` // openai, anthropic, google, ollama, perplexity
	Model     string            `json:"model"`
	APIKey    string            `json:"api_key,omitempty"`
	BaseURL   string            `json:"base_url,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
	Enabled   bool              `json:"enabled"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TrackedBrand is a brand watched across collection runs. Exactly one enabled
// brand should be the subject; the rest are competitors.
type TrackedBrand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Aliases   []string  `json:"aliases,omitempty"` // alternative spellings counted as mentions
	Logo      string    `json:"logo,omitempty"`
	Subject   bool      `json:"subject"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackedKeyword is a search keyword and the prompt set issued for it on
// every collection run
type TrackedKeyword struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prompts   []string  `json:"prompts"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CollectionSchedule triggers snapshot collection on a cron expression
type CollectionSchedule struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	LLMIDs      []string   `json:"llm_ids"` // empty means all enabled LLMs
	CronExpr    string     `json:"cron_expr"`
	Temperature float64    `json:"temperature,omitempty"`
	Enabled     bool       `json:"enabled"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ModelInfo represents information about an available model from a provider
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// APIResponse is the uniform REST envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SnapshotSummary is a compact archive listing entry
type SnapshotSummary struct {
	ID           string    `json:"id" bson:"_id"`
	BrandName    string    `json:"brand_name" bson:"brand_name"`
	BrandCount   int       `json:"brand_count" bson:"brand_count"`
	KeywordCount int       `json:"keyword_count" bson:"keyword_count"`
	CollectedAt  time.Time `json:"collected_at" bson:"collected_at"`
}
