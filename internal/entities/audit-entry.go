package entities

import "time"

// AuditEntry is one append-only action record in the secondary store. It is
// keyed by the document's stable external id, not the composite uniqueKey,
// so history survives version changes and even document deletion.
type AuditEntry struct {
	EntityType string    `bson:"entity_type"`
	EntityID   string    `bson:"entity_id"`
	Action     string    `bson:"action"`
	Operator   string    `bson:"operator"`
	Comment    string    `bson:"comment,omitempty"`
	Time       time.Time `bson:"time"`
}
