package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

type auditDocument struct {
	Action     string    `bson:"action"`
	ActorID    string    `bson:"actor_id"`
	TargetID   string    `bson:"target_id,omitempty"`
	Outcome    string    `bson:"outcome"`
	Detail     string    `bson:"detail,omitempty"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func toDocument(e domain.AuditEvent, now time.Time) auditDocument {
	return auditDocument{
		Action:     string(e.Action),
		ActorID:    e.ActorID.String(),
		TargetID:   e.TargetID,
		Outcome:    string(e.Outcome),
		Detail:     e.Detail,
		At:         e.At.UTC(),
		RecordedAt: now.UTC(),
	}
}

// EnsureIndexes creates the lookup indexes used when reviewing the trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}, Options: options.Index().SetName("action_1")},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

// Insert persists a single audit event.
func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(event, time.Now())); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
