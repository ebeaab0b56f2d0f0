package repository

import (
	"context"
	"fmt"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/infrastructure/repository/entity"
	"stocksync-core-layer/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInventoryRepository implements InventoryRepository using MongoDB
type MongoInventoryRepository struct {
	collection *mongo.Collection
}

// NewMongoInventoryRepository creates a new MongoDB inventory repository
func NewMongoInventoryRepository(db *mongo.Database) ports.InventoryRepository {
	return &MongoInventoryRepository{
		collection: db.Collection("inventory"),
	}
}

// UpsertBatch writes a page of inventory items. The filter carries the
// external identity so a repeat sync replaces existing rows; _id and
// createdAt survive an update via $setOnInsert.
func (r *MongoInventoryRepository) UpsertBatch(ctx context.Context, items []*domain.InventoryItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "companyId", Value: 1},
			{Key: "sourcePlatform", Value: 1},
			{Key: "externalVariantId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		doc := entity.MongoInventoryDocFromDomain(item)
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}

		filter := bson.M{
			"companyId":         doc.CompanyID,
			"sourcePlatform":    doc.SourcePlatform,
			"externalVariantId": doc.ExternalVariantID,
		}
		update := bson.M{
			"$set": bson.M{
				"sku":               doc.SKU,
				"name":              doc.Name,
				"quantity":          doc.Quantity,
				"costCents":         doc.CostCents,
				"priceCents":        doc.PriceCents,
				"category":          doc.Category,
				"externalProductId": doc.ExternalProductID,
				"updatedAt":         now,
			},
			"$setOnInsert": bson.M{
				"_id":               doc.ID,
				"companyId":         doc.CompanyID,
				"sourcePlatform":    doc.SourcePlatform,
				"externalVariantId": doc.ExternalVariantID,
				"createdAt":         now,
			},
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models); err != nil {
		return 0, fmt.Errorf("failed to upsert inventory batch: %w", err)
	}
	return len(items), nil
}

// MongoOrderRepository implements OrderRepository using MongoDB
type MongoOrderRepository struct {
	orders    *mongo.Collection
	customers *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoDB order repository
func NewMongoOrderRepository(db *mongo.Database) ports.OrderRepository {
	return &MongoOrderRepository{
		orders:    db.Collection("orders"),
		customers: db.Collection("customers"),
	}
}

// RecordOrder writes an order as a single document upsert keyed on
// (company_id, external_order_id); the embedded line items and customer
// snapshot make the write all-or-nothing. The customers collection is
// maintained afterwards; a customer failure fails the call so it is
// retried on the next sync of the same order.
func (r *MongoOrderRepository) RecordOrder(ctx context.Context, order *domain.Order) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "externalOrderId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.orders.Indexes().CreateOne(ctx, indexModel)

	doc := entity.MongoOrderDocFromDomain(order)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now()

	filter := bson.M{"companyId": doc.CompanyID, "externalOrderId": doc.ExternalOrderID}
	update := bson.M{
		"$set": bson.M{
			"sourcePlatform": doc.SourcePlatform,
			"orderNumber":    doc.OrderNumber,
			"customerName":   doc.CustomerName,
			"customerEmail":  doc.CustomerEmail,
			"totalCents":     doc.TotalCents,
			"currency":       doc.Currency,
			"placedAt":       doc.PlacedAt,
			"lineItems":      doc.LineItems,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{
			"_id":             doc.ID,
			"companyId":       doc.CompanyID,
			"externalOrderId": doc.ExternalOrderID,
			"createdAt":       now,
		},
	}

	res, err := r.orders.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record order %s: %w", order.ExternalOrderID, err)
	}

	if order.CustomerEmail != "" {
		if err := r.upsertCustomer(ctx, order, res.UpsertedCount == 1); err != nil {
			return err
		}
	}
	return nil
}

func (r *MongoOrderRepository) upsertCustomer(ctx context.Context, order *domain.Order, newOrder bool) error {
	now := time.Now()
	filter := bson.M{"companyId": order.CompanyID, "email": order.CustomerEmail}
	update := bson.M{
		"$set": bson.M{"name": order.CustomerName, "updatedAt": now},
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"companyId": order.CompanyID,
			"email":     order.CustomerEmail,
			"createdAt": now,
		},
	}
	// Totals only move for a first-seen order; re-syncs must not double count.
	if newOrder {
		update["$inc"] = bson.M{
			"totalOrders":     1,
			"totalSpentCents": order.TotalCents,
		}
	}

	if _, err := r.customers.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert customer %s: %w", order.CustomerEmail, err)
	}
	return nil
}
