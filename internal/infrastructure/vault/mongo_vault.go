package vault

import (
	"context"
	"fmt"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// secretDoc is the stored shape of a vault entry. Only ciphertext ever
// reaches this collection.
type secretDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Ciphertext string             `bson:"ciphertext"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// MongoVault implements Vault on a MongoDB collection with a unique
// index on the deterministic secret name.
type MongoVault struct {
	collection *mongo.Collection
}

// NewMongoVault creates a vault backed by the "secrets" collection.
func NewMongoVault(db *mongo.Database) ports.Vault {
	if db == nil {
		return &MongoVault{}
	}
	return &MongoVault{collection: db.Collection("secrets")}
}

// Put upserts a ciphertext blob under name.
func (v *MongoVault) Put(ctx context.Context, name, ciphertext string) (string, error) {
	if v.collection == nil {
		return "", domain.ErrVaultUnavailable
	}

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = v.collection.Indexes().CreateOne(ctx, indexModel)

	now := time.Now()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	update := bson.M{
		"$set":         bson.M{"ciphertext": ciphertext, "updatedAt": now},
		"$setOnInsert": bson.M{"name": name, "createdAt": now},
	}

	var doc secretDoc
	err := v.collection.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to store secret %s: %w", name, err)
	}
	return doc.ID.Hex(), nil
}

// Get returns the ciphertext stored under name, or ("", nil) when absent.
func (v *MongoVault) Get(ctx context.Context, name string) (string, error) {
	if v.collection == nil {
		return "", domain.ErrVaultUnavailable
	}

	var doc secretDoc
	err := v.collection.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrVaultRead, name, err)
	}
	return doc.Ciphertext, nil
}

// Delete removes the blob stored under name, if any.
func (v *MongoVault) Delete(ctx context.Context, name string) error {
	if v.collection == nil {
		return domain.ErrVaultUnavailable
	}

	if _, err := v.collection.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return fmt.Errorf("failed to delete secret %s: %w", name, err)
	}
	return nil
}
