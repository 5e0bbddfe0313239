package db

import (
	"context"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// NoSQLDatabase defines the interface for the snapshot archive
type NoSQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Snapshot operations
	SaveSnapshot(ctx context.Context, snapshot *models.AnalyticsSnapshot) error
	GetSnapshot(ctx context.Context, id string) (*models.AnalyticsSnapshot, error)
	LatestSnapshot(ctx context.Context, brandName string) (*models.AnalyticsSnapshot, error)
	ListSnapshots(ctx context.Context, filter shared.SnapshotFilter) ([]*models.SnapshotSummary, error)
	DeleteSnapshot(ctx context.Context, id string) error
	DeleteAllSnapshots(ctx context.Context) (int, error)
}
