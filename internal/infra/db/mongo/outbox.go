package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "lendme/internal/app/outbox"
)

// OutboxStore persists staged event records so delivery survives restarts.
type OutboxStore struct {
	col *mongo.Collection
}

func NewOutboxStore(db *mongo.Database) *OutboxStore {
	return &OutboxStore{col: db.Collection(outboxCollection)}
}

const (
	outboxPending = "pending"
	outboxClaimed = "claimed"
	outboxSent    = "sent"
)

type outboxDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Aggregate  string            `bson:"aggregate"`
	Payload    []byte            `bson:"payload"`
	Headers    map[string]string `bson:"headers,omitempty"`
	OccurredAt int64             `bson:"occurred_at"`
	State      string            `bson:"state"`
	Attempts   int               `bson:"attempts"`
	RetryAt    int64             `bson:"retry_at"`
	LastError  string            `bson:"last_error,omitempty"`
}

func (s *OutboxStore) Add(ctx context.Context, rec appoutbox.Record) error {
	doc := outboxDocument{
		ID:         rec.ID,
		Name:       rec.Name,
		Aggregate:  rec.Aggregate,
		Payload:    rec.Payload,
		Headers:    rec.Headers,
		OccurredAt: rec.OccurredAt.UnixMilli(),
		State:      outboxPending,
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Claim atomically takes the oldest due pending record.
func (s *OutboxStore) Claim(ctx context.Context) (*appoutbox.Record, error) {
	now := time.Now().UnixMilli()
	filter := bson.M{
		"state":    outboxPending,
		"retry_at": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{"state": outboxClaimed}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurred_at", Value: 1}}).
		SetReturnDocument(options.After)
	var doc outboxDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &appoutbox.Record{
		ID:         doc.ID,
		Name:       doc.Name,
		Aggregate:  doc.Aggregate,
		Payload:    doc.Payload,
		Headers:    doc.Headers,
		OccurredAt: time.UnixMilli(doc.OccurredAt).UTC(),
	}, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"state": outboxSent}})
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"state":      outboxPending,
			"retry_at":   retryAt.UnixMilli(),
			"last_error": reason,
		},
		"$inc": bson.M{"attempts": 1},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

var _ appoutbox.Recorder = (*OutboxStore)(nil)
