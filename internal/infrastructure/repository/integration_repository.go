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

// MongoIntegrationRepository implements IntegrationRepository using MongoDB
type MongoIntegrationRepository struct {
	collection *mongo.Collection
}

// NewMongoIntegrationRepository creates a new MongoDB integration repository
func NewMongoIntegrationRepository(db *mongo.Database) ports.IntegrationRepository {
	return &MongoIntegrationRepository{
		collection: db.Collection("integrations"),
	}
}

// Create creates a new integration
func (r *MongoIntegrationRepository) Create(ctx context.Context, integration *domain.Integration) error {
	doc := entity.MongoIntegrationDocFromDomain(integration)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if doc.SyncStatus == "" {
		doc.SyncStatus = string(domain.SyncStatusIdle)
	}

	// One integration per (company, platform)
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "platform", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create integration: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		integration.ID = oid.Hex()
	}
	return nil
}

func ownerFilter(id, companyID string) (bson.M, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid integration id: %w", err)
	}
	return bson.M{"_id": objID, "companyId": companyID}, nil
}

// GetByIDAndCompany retrieves an integration scoped by id and owning company
func (r *MongoIntegrationRepository) GetByIDAndCompany(ctx context.Context, id, companyID string) (*domain.Integration, error) {
	filter, err := ownerFilter(id, companyID)
	if err != nil {
		return nil, nil
	}

	var doc entity.MongoIntegrationDoc
	err = r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetByCompanyAndPlatform retrieves the company's integration for a platform
func (r *MongoIntegrationRepository) GetByCompanyAndPlatform(ctx context.Context, companyID string, platform domain.Platform) (*domain.Integration, error) {
	var doc entity.MongoIntegrationDoc
	filter := bson.M{"companyId": companyID, "platform": string(platform)}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return doc.ToDomain(), nil
}

// ListByCompany retrieves all integrations owned by a company
func (r *MongoIntegrationRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Integration, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"companyId": companyID})
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer cursor.Close(ctx)

	var integrations []*domain.Integration
	for cursor.Next(ctx) {
		var doc entity.MongoIntegrationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode integration: %w", err)
		}
		integrations = append(integrations, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return integrations, nil
}

// BeginSync atomically claims the integration for a sync. The filter
// excludes any status prefixed "syncing" so near-simultaneous triggers
// cannot both pass; exactly one update matches.
func (r *MongoIntegrationRepository) BeginSync(ctx context.Context, id, companyID string) (bool, error) {
	filter, err := ownerFilter(id, companyID)
	if err != nil {
		return false, err
	}
	filter["syncStatus"] = bson.M{"$not": primitive.Regex{Pattern: "^syncing"}}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"syncStatus": string(domain.SyncStatusSyncing),
		"lastSyncAt": now,
		"updatedAt":  now,
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to begin sync: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// SetStatus updates the in-flight sync sub-state
func (r *MongoIntegrationRepository) SetStatus(ctx context.Context, id string, status domain.SyncStatus) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid integration id: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"syncStatus": string(status),
		"updatedAt":  time.Now(),
	}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update); err != nil {
		return fmt.Errorf("failed to set sync status: %w", err)
	}
	return nil
}

// FinishSync writes the terminal status and stamps last_sync_at
func (r *MongoIntegrationRepository) FinishSync(ctx context.Context, id string, status domain.SyncStatus) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid integration id: %w", err)
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"syncStatus": string(status),
		"lastSyncAt": now,
		"updatedAt":  now,
	}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update); err != nil {
		return fmt.Errorf("failed to finish sync: %w", err)
	}
	return nil
}

// Update persists mutable connection fields of an existing integration
func (r *MongoIntegrationRepository) Update(ctx context.Context, integration *domain.Integration) error {
	objID, err := primitive.ObjectIDFromHex(integration.ID)
	if err != nil {
		return fmt.Errorf("invalid integration id: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"shopDomain": integration.ShopDomain,
		"shopName":   integration.ShopName,
		"isActive":   integration.IsActive,
		"updatedAt":  time.Now(),
	}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID, "companyId": integration.CompanyID}, update); err != nil {
		return fmt.Errorf("failed to update integration: %w", err)
	}
	return nil
}

// Delete deletes an integration owned by the company
func (r *MongoIntegrationRepository) Delete(ctx context.Context, id, companyID string) error {
	filter, err := ownerFilter(id, companyID)
	if err != nil {
		return domain.ErrNotFoundOrForbidden
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFoundOrForbidden
	}
	return nil
}
