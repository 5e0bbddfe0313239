package db

import (
	"context"

	"github.com/geoscope/geoscope/internal/models"
)

// SQLDatabase defines the interface for the tracked-entity registry
// (LLMs, brands, keywords, collection schedules)
type SQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// LLM operations
	CreateLLM(ctx context.Context, llm *models.LLMConfig) error
	GetLLM(ctx context.Context, id string) (*models.LLMConfig, error)
	ListLLMs(ctx context.Context, enabled *bool) ([]*models.LLMConfig, error)
	UpdateLLM(ctx context.Context, llm *models.LLMConfig) error
	DeleteLLM(ctx context.Context, id string) error

	// Tracked brand operations
	CreateBrand(ctx context.Context, brand *models.TrackedBrand) error
	GetBrand(ctx context.Context, id string) (*models.TrackedBrand, error)
	GetBrandByName(ctx context.Context, name string) (*models.TrackedBrand, error)
	ListBrands(ctx context.Context, enabled *bool) ([]*models.TrackedBrand, error)
	UpdateBrand(ctx context.Context, brand *models.TrackedBrand) error
	DeleteBrand(ctx context.Context, id string) error

	// Tracked keyword operations
	CreateKeyword(ctx context.Context, keyword *models.TrackedKeyword) error
	GetKeyword(ctx context.Context, id string) (*models.TrackedKeyword, error)
	ListKeywords(ctx context.Context, enabled *bool) ([]*models.TrackedKeyword, error)
	UpdateKeyword(ctx context.Context, keyword *models.TrackedKeyword) error
	DeleteKeyword(ctx context.Context, id string) error

	// Collection schedule operations
	CreateSchedule(ctx context.Context, schedule *models.CollectionSchedule) error
	GetSchedule(ctx context.Context, id string) (*models.CollectionSchedule, error)
	ListSchedules(ctx context.Context, enabled *bool) ([]*models.CollectionSchedule, error)
	UpdateSchedule(ctx context.Context, schedule *models.CollectionSchedule) error
	DeleteSchedule(ctx context.Context, id string) error
}
