package views

import (
	"context"
	"fmt"
	"time"

	"stocksync-core-layer/internal/ports"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoViewRefresher implements ViewRefresher by re-running the
// aggregation pipelines that materialize the analytics collections.
// Downstream analytics read these, never the raw inventory/orders.
type MongoViewRefresher struct {
	inventory *mongo.Collection
	orders    *mongo.Collection
	logger    zerolog.Logger
}

// NewMongoViewRefresher creates a refresher over the destination collections.
func NewMongoViewRefresher(db *mongo.Database, logger zerolog.Logger) ports.ViewRefresher {
	return &MongoViewRefresher{
		inventory: db.Collection("inventory"),
		orders:    db.Collection("orders"),
		logger:    logger,
	}
}

// RefreshCompany rebuilds both materialized views for one company.
func (r *MongoViewRefresher) RefreshCompany(ctx context.Context, companyID string) error {
	start := time.Now()

	if err := r.refreshInventoryAnalytics(ctx, companyID); err != nil {
		return err
	}
	if err := r.refreshSalesAnalytics(ctx, companyID); err != nil {
		return err
	}

	r.logger.Info().
		Str("companyId", companyID).
		Dur("took", time.Since(start)).
		Msg("Refreshed materialized views")
	return nil
}

// refreshInventoryAnalytics merges per-category stock totals into
// inventory_analytics.
func (r *MongoViewRefresher) refreshInventoryAnalytics(ctx context.Context, companyID string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "companyId", Value: companyID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "companyId", Value: "$companyId"},
				{Key: "category", Value: "$category"},
			}},
			{Key: "skuCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "totalValueCents", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$quantity", "$costCents"}},
			}}}},
		}}},
		{{Key: "$addFields", Value: bson.D{{Key: "refreshedAt", Value: "$$NOW"}}}},
		{{Key: "$merge", Value: bson.D{
			{Key: "into", Value: "inventory_analytics"},
			{Key: "on", Value: "_id"},
			{Key: "whenMatched", Value: "replace"},
			{Key: "whenNotMatched", Value: "insert"},
		}}},
	}

	cursor, err := r.inventory.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to refresh inventory analytics: %w", err)
	}
	return cursor.Close(ctx)
}

// refreshSalesAnalytics merges per-day order totals into sales_analytics.
func (r *MongoViewRefresher) refreshSalesAnalytics(ctx context.Context, companyID string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "companyId", Value: companyID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "companyId", Value: "$companyId"},
				{Key: "day", Value: bson.D{{Key: "$dateTrunc", Value: bson.D{
					{Key: "date", Value: "$placedAt"},
					{Key: "unit", Value: "day"},
				}}}},
			}},
			{Key: "orderCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenueCents", Value: bson.D{{Key: "$sum", Value: "$totalCents"}}},
		}}},
		{{Key: "$addFields", Value: bson.D{{Key: "refreshedAt", Value: "$$NOW"}}}},
		{{Key: "$merge", Value: bson.D{
			{Key: "into", Value: "sales_analytics"},
			{Key: "on", Value: "_id"},
			{Key: "whenMatched", Value: "replace"},
			{Key: "whenNotMatched", Value: "insert"},
		}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to refresh sales analytics: %w", err)
	}
	return cursor.Close(ctx)
}
