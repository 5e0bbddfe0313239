package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/shared"
)

// MongoDB implements the snapshot archive interface for MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *models.Config
}

const collSnapshots = "snapshots"

// New creates a new MongoDB database instance
func New(config *models.Config) (*MongoDB, error) {
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.config.Database)

	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("not connected to database")
	}
	return m.client.Ping(ctx, nil)
}

// GetDatabase exposes the underlying database for aggregation services
func (m *MongoDB) GetDatabase() *mongo.Database {
	return m.database
}

// createIndexes creates necessary indexes for archive queries
func (m *MongoDB) createIndexes(ctx context.Context) error {
	snapshotIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "brand_name", Value: 1},
				{Key: "collected_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "collected_at", Value: -1},
			},
		},
	}

	_, err := m.database.Collection(collSnapshots).Indexes().CreateMany(ctx, snapshotIndexes)
	return err
}

// SaveSnapshot archives a snapshot
func (m *MongoDB) SaveSnapshot(ctx context.Context, snapshot *models.AnalyticsSnapshot) error {
	_, err := m.database.Collection(collSnapshots).InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot fetches an archived snapshot by id
func (m *MongoDB) GetSnapshot(ctx context.Context, id string) (*models.AnalyticsSnapshot, error) {
	var snapshot models.AnalyticsSnapshot
	err := m.database.Collection(collSnapshots).FindOne(ctx, bson.M{"_id": id}).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("snapshot not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snapshot, nil
}

// LatestSnapshot fetches the most recently collected snapshot, optionally
// scoped to one subject brand
func (m *MongoDB) LatestSnapshot(ctx context.Context, brandName string) (*models.AnalyticsSnapshot, error) {
	filter := bson.M{}
	if brandName != "" {
		filter["brand_name"] = brandName
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "collected_at", Value: -1}})

	var snapshot models.AnalyticsSnapshot
	err := m.database.Collection(collSnapshots).FindOne(ctx, filter, opts).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, nil // empty archive is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListSnapshots lists archive entries newest first
func (m *MongoDB) ListSnapshots(ctx context.Context, filter shared.SnapshotFilter) ([]*models.SnapshotSummary, error) {
	query := bson.M{}
	if filter.BrandName != "" {
		query["brand_name"] = filter.BrandName
	}
	timeRange := bson.M{}
	if filter.StartTime != nil {
		timeRange["$gte"] = *filter.StartTime
	}
	if filter.EndTime != nil {
		timeRange["$lte"] = *filter.EndTime
	}
	if len(timeRange) > 0 {
		query["collected_at"] = timeRange
	}

	pipeline := []bson.M{
		{"$match": query},
		{"$sort": bson.M{"collected_at": -1}},
	}
	if filter.Offset > 0 {
		pipeline = append(pipeline, bson.M{"$skip": filter.Offset})
	}
	if filter.Limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": filter.Limit})
	}
	pipeline = append(pipeline, bson.M{
		"$project": bson.M{
			"brand_name":    1,
			"collected_at":  1,
			"brand_count":   bson.M{"$size": bson.M{"$ifNull": []interface{}{"$brands", []interface{}{}}}},
			"keyword_count": bson.M{"$size": bson.M{"$objectToArray": bson.M{"$ifNull": []interface{}{"$search_keywords", bson.M{}}}}},
		},
	})

	cursor, err := m.database.Collection(collSnapshots).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*models.SnapshotSummary
	for cursor.Next(ctx) {
		var summary models.SnapshotSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}
	return summaries, cursor.Err()
}

// DeleteSnapshot removes one archived snapshot
func (m *MongoDB) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := m.database.Collection(collSnapshots).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("snapshot not found: %s", id)
	}
	return nil
}

// DeleteAllSnapshots clears the archive and returns the number removed
func (m *MongoDB) DeleteAllSnapshots(ctx context.Context) (int, error) {
	result, err := m.database.Collection(collSnapshots).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete snapshots: %w", err)
	}
	return int(result.DeletedCount), nil
}
