package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEncoderRequired = errors.New("outbox: encoder required")

// Event is a domain fact worth publishing. Domain event types satisfy it
// structurally; this package never imports them.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Record is an encoded event staged for delivery.
type Record struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
}

// Recorder accepts records inside the request path; a worker drains them
// later.
type Recorder interface {
	Add(ctx context.Context, rec Record) error
}

type Encoder interface {
	Encode(ev Event) (Record, error)
}

// JSONEncoder marshals the event struct itself as the payload.
type JSONEncoder struct{}

func (JSONEncoder) Encode(ev Event) (Record, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:         uuid.NewString(),
		Name:       ev.EventName(),
		Aggregate:  ev.AggregateID(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
	}, nil
}

// RecordEvents encodes and stages the given events. A nil recorder is a
// no-op so services can run without an outbox wired.
func RecordEvents(ctx context.Context, rec Recorder, enc Encoder, events ...Event) error {
	if rec == nil {
		return nil
	}
	if enc == nil {
		return ErrEncoderRequired
	}
	for _, ev := range events {
		record, err := enc.Encode(ev)
		if err != nil {
			return err
		}
		if err := rec.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
