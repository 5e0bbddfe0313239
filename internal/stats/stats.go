package stats

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service provides archive statistics by consuming snapshot documents
// directly from MongoDB
type Service struct {
	database *mongo.Database
}

// New creates a new archive stats service
func New(database *mongo.Database) *Service {
	return &Service{
		database: database,
	}
}

// ArchiveStats summarizes the snapshot archive
type ArchiveStats struct {
	TotalSnapshots int       `json:"total_snapshots"`
	UniqueBrands   int       `json:"unique_brands"`
	FirstCollected time.Time `json:"first_collected"`
	LastCollected  time.Time `json:"last_collected"`
}

// ScoreTrendPoint is one snapshot's subject scores on a timeline
type ScoreTrendPoint struct {
	CollectedAt  time.Time `json:"collected_at" bson:"collected_at"`
	GeoScore     float64   `json:"geo_score" bson:"geo_score"`
	MentionScore float64   `json:"mention_score" bson:"mention_score"`
}

// GetArchiveStats aggregates totals across all archived snapshots
func (s *Service) GetArchiveStats(ctx context.Context) (*ArchiveStats, error) {
	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":             nil,
				"total_snapshots": bson.M{"$sum": 1},
				"unique_brands":   bson.M{"$addToSet": "$brand_name"},
				"first_collected": bson.M{"$min": "$collected_at"},
				"last_collected":  bson.M{"$max": "$collected_at"},
			},
		},
		{
			"$project": bson.M{
				"total_snapshots": 1,
				"first_collected": 1,
				"last_collected":  1,
				"unique_brands":   bson.M{"$size": "$unique_brands"},
			},
		},
	}

	cursor, err := s.database.Collection("snapshots").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate archive stats: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		TotalSnapshots int       `bson:"total_snapshots"`
		UniqueBrands   int       `bson:"unique_brands"`
		FirstCollected time.Time `bson:"first_collected"`
		LastCollected  time.Time `bson:"last_collected"`
	}

	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode archive stats: %w", err)
		}
	}

	return &ArchiveStats{
		TotalSnapshots: result.TotalSnapshots,
		UniqueBrands:   result.UniqueBrands,
		FirstCollected: result.FirstCollected,
		LastCollected:  result.LastCollected,
	}, nil
}

// GetScoreTrend returns the subject brand's score history, oldest first
func (s *Service) GetScoreTrend(ctx context.Context, brandName string, limit int) ([]ScoreTrendPoint, error) {
	if limit <= 0 {
		limit = 30
	}

	pipeline := []bson.M{
		{
			"$match": bson.M{
				"brand_name": brandName,
			},
		},
		{
			"$sort": bson.M{"collected_at": -1},
		},
		{
			"$limit": limit,
		},
		{
			"$unwind": "$brands",
		},
		{
			"$match": bson.M{
				"$expr": bson.M{"$eq": []string{"$brands.brand", "$brand_name"}},
			},
		},
		{
			"$project": bson.M{
				"collected_at":  1,
				"geo_score":     "$brands.geo_score",
				"mention_score": "$brands.mention_score",
			},
		},
		{
			"$sort": bson.M{"collected_at": 1},
		},
	}

	cursor, err := s.database.Collection("snapshots").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate score trend: %w", err)
	}
	defer cursor.Close(ctx)

	var points []ScoreTrendPoint
	for cursor.Next(ctx) {
		var point ScoreTrendPoint
		if err := cursor.Decode(&point); err != nil {
			continue
		}
		points = append(points, point)
	}

	return points, cursor.Err()
}
