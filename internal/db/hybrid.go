package db

import (
	"context"
	"fmt"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// Hybrid routes registry operations to the SQL database and snapshot
// operations to the NoSQL archive
type Hybrid struct {
	sql   SQLDatabase
	nosql NoSQLDatabase
}

// NewHybrid combines a SQL registry and a NoSQL archive into one Database
func NewHybrid(sql SQLDatabase, nosql NoSQLDatabase) *Hybrid {
	return &Hybrid{sql: sql, nosql: nosql}
}

// Connect establishes both connections
func (h *Hybrid) Connect(ctx context.Context) error {
	if err := h.sql.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect SQL database: %w", err)
	}
	if err := h.nosql.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect NoSQL database: %w", err)
	}
	return nil
}

// Disconnect closes both connections
func (h *Hybrid) Disconnect(ctx context.Context) error {
	var firstErr error
	if err := h.sql.Disconnect(ctx); err != nil {
		firstErr = err
	}
	if err := h.nosql.Disconnect(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Ping checks both connections
func (h *Hybrid) Ping(ctx context.Context) error {
	if err := h.sql.Ping(ctx); err != nil {
		return fmt.Errorf("SQL database ping failed: %w", err)
	}
	if err := h.nosql.Ping(ctx); err != nil {
		return fmt.Errorf("NoSQL database ping failed: %w", err)
	}
	return nil
}

// SQL registry delegation

func (h *Hybrid) CreateLLM(ctx context.Context, llm *models.LLMConfig) error {
	return h.sql.CreateLLM(ctx, llm)
}

func (h *Hybrid) GetLLM(ctx context.Context, id string) (*models.LLMConfig, error) {
	return h.sql.GetLLM(ctx, id)
}

func (h *Hybrid) ListLLMs(ctx context.Context, enabled *bool) ([]*models.LLMConfig, error) {
	return h.sql.ListLLMs(ctx, enabled)
}

func (h *Hybrid) UpdateLLM(ctx context.Context, llm *models.LLMConfig) error {
	return h.sql.UpdateLLM(ctx, llm)
}

func (h *Hybrid) DeleteLLM(ctx context.Context, id string) error {
	return h.sql.DeleteLLM(ctx, id)
}

func (h *Hybrid) CreateBrand(ctx context.Context, brand *models.TrackedBrand) error {
	return h.sql.CreateBrand(ctx, brand)
}

func (h *Hybrid) GetBrand(ctx context.Context, id string) (*models.TrackedBrand, error) {
	return h.sql.GetBrand(ctx, id)
}

func (h *Hybrid) GetBrandByName(ctx context.Context, name string) (*models.TrackedBrand, error) {
	return h.sql.GetBrandByName(ctx, name)
}

func (h *Hybrid) ListBrands(ctx context.Context, enabled *bool) ([]*models.TrackedBrand, error) {
	return h.sql.ListBrands(ctx, enabled)
}

func (h *Hybrid) UpdateBrand(ctx context.Context, brand *models.TrackedBrand) error {
	return h.sql.UpdateBrand(ctx, brand)
}

func (h *Hybrid) DeleteBrand(ctx context.Context, id string) error {
	return h.sql.DeleteBrand(ctx, id)
}

func (h *Hybrid) CreateKeyword(ctx context.Context, keyword *models.TrackedKeyword) error {
	return h.sql.CreateKeyword(ctx, keyword)
}

func (h *Hybrid) GetKeyword(ctx context.Context, id string) (*models.TrackedKeyword, error) {
	return h.sql.GetKeyword(ctx, id)
}

func (h *Hybrid) ListKeywords(ctx context.Context, enabled *bool) ([]*models.TrackedKeyword, error) {
	return h.sql.ListKeywords(ctx, enabled)
}

func (h *Hybrid) UpdateKeyword(ctx context.Context, keyword *models.TrackedKeyword) error {
	return h.sql.UpdateKeyword(ctx, keyword)
}

func (h *Hybrid) DeleteKeyword(ctx context.Context, id string) error {
	return h.sql.DeleteKeyword(ctx, id)
}

func (h *Hybrid) CreateSchedule(ctx context.Context, schedule *models.CollectionSchedule) error {
	return h.sql.CreateSchedule(ctx, schedule)
}

func (h *Hybrid) GetSchedule(ctx context.Context, id string) (*models.CollectionSchedule, error) {
	return h.sql.GetSchedule(ctx, id)
}

func (h *Hybrid) ListSchedules(ctx context.Context, enabled *bool) ([]*models.CollectionSchedule, error) {
	return h.sql.ListSchedules(ctx, enabled)
}

func (h *Hybrid) UpdateSchedule(ctx context.Context, schedule *models.CollectionSchedule) error {
	return h.sql.UpdateSchedule(ctx, schedule)
}

func (h *Hybrid) DeleteSchedule(ctx context.Context, id string) error {
	return h.sql.DeleteSchedule(ctx, id)
}

// NoSQL archive delegation

func (h *Hybrid) SaveSnapshot(ctx context.Context, snapshot *models.AnalyticsSnapshot) error {
	return h.nosql.SaveSnapshot(ctx, snapshot)
}

func (h *Hybrid) GetSnapshot(ctx context.Context, id string) (*models.AnalyticsSnapshot, error) {
	return h.nosql.GetSnapshot(ctx, id)
}

func (h *Hybrid) LatestSnapshot(ctx context.Context, brandName string) (*models.AnalyticsSnapshot, error) {
	return h.nosql.LatestSnapshot(ctx, brandName)
}

func (h *Hybrid) ListSnapshots(ctx context.Context, filter shared.SnapshotFilter) ([]*models.SnapshotSummary, error) {
	return h.nosql.ListSnapshots(ctx, filter)
}

func (h *Hybrid) DeleteSnapshot(ctx context.Context, id string) error {
	return h.nosql.DeleteSnapshot(ctx, id)
}

func (h *Hybrid) DeleteAllSnapshots(ctx context.Context) (int, error) {
	return h.nosql.DeleteAllSnapshots(ctx)
}
