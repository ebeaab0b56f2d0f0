package entity

import (
	"time"

	"stocksync-core-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoSyncLogDoc represents one sync attempt in MongoDB
type MongoSyncLogDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	IntegrationID string             `bson:"integrationId"`
	SyncType      string             `bson:"syncType"`
	Status        string             `bson:"status"`
	RecordsSynced int                `bson:"recordsSynced"`
	ErrorMessage  string             `bson:"errorMessage,omitempty"`
	StartedAt     time.Time          `bson:"startedAt"`
	CompletedAt   *time.Time         `bson:"completedAt,omitempty"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSyncLogDoc) ToDomain() *domain.SyncLog {
	return &domain.SyncLog{
		ID:            d.ID.Hex(),
		IntegrationID: d.IntegrationID,
		SyncType:      domain.SyncType(d.SyncType),
		Status:        domain.SyncLogStatus(d.Status),
		RecordsSynced: d.RecordsSynced,
		ErrorMessage:  d.ErrorMessage,
		StartedAt:     d.StartedAt,
		CompletedAt:   d.CompletedAt,
	}
}

// MongoSyncStateDoc represents a pagination checkpoint in MongoDB
type MongoSyncStateDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	IntegrationID string             `bson:"integrationId"`
	SyncType      string             `bson:"syncType"`
	Cursor        string             `bson:"cursor"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSyncStateDoc) ToDomain() *domain.SyncState {
	return &domain.SyncState{
		IntegrationID: d.IntegrationID,
		SyncType:      domain.SyncType(d.SyncType),
		Cursor:        d.Cursor,
		UpdatedAt:     d.UpdatedAt,
	}
}
