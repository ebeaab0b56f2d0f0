package entity

import (
	"time"

	"stocksync-core-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoIntegrationDoc represents an integration in MongoDB
type MongoIntegrationDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID  string             `bson:"companyId"`
	Platform   string             `bson:"platform"`
	ShopDomain string             `bson:"shopDomain"`
	ShopName   string             `bson:"shopName"`
	IsActive   bool               `bson:"isActive"`
	LastSyncAt *time.Time         `bson:"lastSyncAt,omitempty"`
	SyncStatus string             `bson:"syncStatus"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoIntegrationDoc) ToDomain() *domain.Integration {
	return &domain.Integration{
		ID:         d.ID.Hex(),
		CompanyID:  d.CompanyID,
		Platform:   domain.Platform(d.Platform),
		ShopDomain: d.ShopDomain,
		ShopName:   d.ShopName,
		IsActive:   d.IsActive,
		LastSyncAt: d.LastSyncAt,
		SyncStatus: domain.SyncStatus(d.SyncStatus),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// MongoIntegrationDocFromDomain converts a domain entity to a MongoDB document
func MongoIntegrationDocFromDomain(integration *domain.Integration) *MongoIntegrationDoc {
	doc := &MongoIntegrationDoc{
		CompanyID:  integration.CompanyID,
		Platform:   string(integration.Platform),
		ShopDomain: integration.ShopDomain,
		ShopName:   integration.ShopName,
		IsActive:   integration.IsActive,
		LastSyncAt: integration.LastSyncAt,
		SyncStatus: string(integration.SyncStatus),
		CreatedAt:  integration.CreatedAt,
		UpdatedAt:  integration.UpdatedAt,
	}

	if integration.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(integration.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
