package entity

import (
	"time"

	"stocksync-core-layer/internal/domain"
)

// MongoInventoryDoc represents an inventory row in MongoDB. The string
// id is assigned by the application (uuid), not by Mongo, because the
// upsert key is the external identity, not _id.
type MongoInventoryDoc struct {
	ID                string    `bson:"_id"`
	CompanyID         string    `bson:"companyId"`
	SourcePlatform    string    `bson:"sourcePlatform"`
	SKU               string    `bson:"sku"`
	Name              string    `bson:"name"`
	Quantity          int       `bson:"quantity"`
	CostCents         int64     `bson:"costCents"`
	PriceCents        int64     `bson:"priceCents"`
	Category          string    `bson:"category"`
	ExternalProductID string    `bson:"externalProductId"`
	ExternalVariantID string    `bson:"externalVariantId"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

// MongoInventoryDocFromDomain converts a domain entity to a MongoDB document
func MongoInventoryDocFromDomain(item *domain.InventoryItem) *MongoInventoryDoc {
	return &MongoInventoryDoc{
		ID:                item.ID,
		CompanyID:         item.CompanyID,
		SourcePlatform:    string(item.SourcePlatform),
		SKU:               item.SKU,
		Name:              item.Name,
		Quantity:          item.Quantity,
		CostCents:         item.CostCents,
		PriceCents:        item.PriceCents,
		Category:          item.Category,
		ExternalProductID: item.ExternalProductID,
		ExternalVariantID: item.ExternalVariantID,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// MongoOrderLineDoc is one embedded order line.
type MongoOrderLineDoc struct {
	SKU               string `bson:"sku"`
	Name              string `bson:"name"`
	Quantity          int    `bson:"quantity"`
	PriceCents        int64  `bson:"priceCents"`
	ExternalVariantID string `bson:"externalVariantId,omitempty"`
}

// MongoOrderDoc represents an order in MongoDB. Line items and the
// customer snapshot are embedded so the upsert is a single atomic
// document write.
type MongoOrderDoc struct {
	ID              string              `bson:"_id"`
	CompanyID       string              `bson:"companyId"`
	SourcePlatform  string              `bson:"sourcePlatform"`
	ExternalOrderID string              `bson:"externalOrderId"`
	OrderNumber     string              `bson:"orderNumber"`
	CustomerName    string              `bson:"customerName"`
	CustomerEmail   string              `bson:"customerEmail"`
	TotalCents      int64               `bson:"totalCents"`
	Currency        string              `bson:"currency"`
	PlacedAt        time.Time           `bson:"placedAt"`
	LineItems       []MongoOrderLineDoc `bson:"lineItems"`
	CreatedAt       time.Time           `bson:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt"`
}

// MongoOrderDocFromDomain converts a domain entity to a MongoDB document
func MongoOrderDocFromDomain(order *domain.Order) *MongoOrderDoc {
	lines := make([]MongoOrderLineDoc, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		lines = append(lines, MongoOrderLineDoc{
			SKU:               li.SKU,
			Name:              li.Name,
			Quantity:          li.Quantity,
			PriceCents:        li.PriceCents,
			ExternalVariantID: li.ExternalVariantID,
		})
	}

	return &MongoOrderDoc{
		ID:              order.ID,
		CompanyID:       order.CompanyID,
		SourcePlatform:  string(order.SourcePlatform),
		ExternalOrderID: order.ExternalOrderID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		TotalCents:      order.TotalCents,
		Currency:        order.Currency,
		PlacedAt:        order.PlacedAt,
		LineItems:       lines,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
