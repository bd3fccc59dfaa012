package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ebench-backend/internal/entities"
)

// AuditRepositoryInterface is the secondary-store boundary. Entries are
// append-only: nothing here updates or deletes.
type AuditRepositoryInterface interface {
	Insert(ctx context.Context, entry entities.AuditEntry) error
	FindByEntity(ctx context.Context, entityType, entityID string) ([]entities.AuditEntry, error)
}

type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(col *mongo.Collection) AuditRepositoryInterface {
	// Index on the partition key for fast history lookups. Best effort:
	// index creation failing must not prevent startup.
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idxModel)
	return &AuditRepository{col: col}
}

func (r *AuditRepository) Insert(ctx context.Context, entry entities.AuditEntry) error {
	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) FindByEntity(ctx context.Context, entityType, entityID string) ([]entities.AuditEntry, error) {
	filter := bson.M{"entity_type": entityType, "entity_id": entityID}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer cur.Close(ctx)

	entries := make([]entities.AuditEntry, 0)
	for cur.Next(ctx) {
		var e entities.AuditEntry
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, cur.Err()
}
