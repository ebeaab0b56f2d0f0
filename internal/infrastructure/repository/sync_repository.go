package repository

import (
	"context"
	"fmt"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/infrastructure/repository/entity"
	"stocksync-core-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSyncLogRepository implements SyncLogRepository using MongoDB
type MongoSyncLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSyncLogRepository creates a new MongoDB sync log repository
func NewMongoSyncLogRepository(db *mongo.Database) ports.SyncLogRepository {
	return &MongoSyncLogRepository{
		collection: db.Collection("sync_logs"),
	}
}

// Start appends a new log row with status started
func (r *MongoSyncLogRepository) Start(ctx context.Context, integrationID string, syncType domain.SyncType) (string, error) {
	doc := entity.MongoSyncLogDoc{
		IntegrationID: integrationID,
		SyncType:      string(syncType),
		Status:        string(domain.SyncLogStarted),
		StartedAt:     time.Now(),
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to start sync log: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (r *MongoSyncLogRepository) finish(ctx context.Context, id string, status domain.SyncLogStatus, records int, errMsg string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid sync log id: %w", err)
	}

	now := time.Now()
	set := bson.M{
		"status":        string(status),
		"recordsSynced": records,
		"completedAt":   now,
	}
	if errMsg != "" {
		set["errorMessage"] = errMsg
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to finish sync log: %w", err)
	}
	return nil
}

// Complete marks the log row completed with its record count
func (r *MongoSyncLogRepository) Complete(ctx context.Context, id string, recordsSynced int) error {
	return r.finish(ctx, id, domain.SyncLogCompleted, recordsSynced, "")
}

// Fail marks the log row failed, keeping the partial record count
func (r *MongoSyncLogRepository) Fail(ctx context.Context, id string, recordsSynced int, errorMessage string) error {
	return r.finish(ctx, id, domain.SyncLogFailed, recordsSynced, errorMessage)
}

// MongoSyncStateRepository implements SyncStateRepository using MongoDB
type MongoSyncStateRepository struct {
	collection *mongo.Collection
}

// NewMongoSyncStateRepository creates a new MongoDB sync state repository
func NewMongoSyncStateRepository(db *mongo.Database) ports.SyncStateRepository {
	return &MongoSyncStateRepository{
		collection: db.Collection("sync_state"),
	}
}

// Get returns the checkpoint for (integration, sync-type), or (nil, nil)
func (r *MongoSyncStateRepository) Get(ctx context.Context, integrationID string, syncType domain.SyncType) (*domain.SyncState, error) {
	var doc entity.MongoSyncStateDoc
	filter := bson.M{"integrationId": integrationID, "syncType": string(syncType)}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	return doc.ToDomain(), nil
}

// Save upserts the checkpoint cursor
func (r *MongoSyncStateRepository) Save(ctx context.Context, state *domain.SyncState) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "integrationId", Value: 1}, {Key: "syncType", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	filter := bson.M{"integrationId": state.IntegrationID, "syncType": string(state.SyncType)}
	update := bson.M{"$set": bson.M{
		"cursor":    state.Cursor,
		"updatedAt": time.Now(),
	}}

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

// Clear deletes the checkpoint; absence is a no-op
func (r *MongoSyncStateRepository) Clear(ctx context.Context, integrationID string, syncType domain.SyncType) error {
	filter := bson.M{"integrationId": integrationID, "syncType": string(syncType)}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear sync state: %w", err)
	}
	return nil
}
