package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appoutbox "lendme/internal/app/outbox"
	"lendme/internal/infra/obs"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Store is the staging backend the worker drains. Claim returns nil when
// nothing is due.
type Store interface {
	Claim(ctx context.Context) (*appoutbox.Record, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error
}

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker polls the store and publishes staged records as CloudEvents
// envelopes. Failures reschedule the record with backoff instead of stopping
// the loop.
type Worker struct {
	Store       Store
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	Source      string
	Backoff     []time.Duration
	Logger      *slog.Logger
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				return err
			}
		}
	}
}

// drain publishes everything currently due.
func (w *Worker) drain(ctx context.Context) error {
	for {
		rec, err := w.Store.Claim(ctx)
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}
		w.processRecord(ctx, rec)
	}
}

func (w *Worker) processRecord(ctx context.Context, rec *appoutbox.Record) {
	payload, headers, err := w.envelope(rec)
	if err != nil {
		w.fail(ctx, rec, err)
		return
	}
	if err := w.Producer.Publish(ctx, w.topicFor(rec.Name), rec.Aggregate, payload, headers); err != nil {
		w.fail(ctx, rec, err)
		return
	}
	obs.IncOutboxPublished(rec.Name)
	if err := w.Store.MarkSent(ctx, rec.ID); err != nil && w.Logger != nil {
		w.Logger.Error("outbox mark sent failed", "record_id", rec.ID, "error", err)
	}
}

func (w *Worker) fail(ctx context.Context, rec *appoutbox.Record, cause error) {
	if w.Logger != nil {
		w.Logger.Warn("outbox publish failed", "record_id", rec.ID, "event", rec.Name, "error", cause)
	}
	if err := w.Store.MarkFailed(ctx, rec.ID, w.nextRetry(), cause.Error()); err != nil && w.Logger != nil {
		w.Logger.Error("outbox mark failed errored", "record_id", rec.ID, "error", err)
	}
}

func (w *Worker) envelope(rec *appoutbox.Record) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if err := json.Unmarshal(rec.Payload, &data); err != nil {
		return nil, nil, err
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            rec.Name + ".v1",
		"source":          w.source(),
		"time":            rec.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
	}
	for k, v := range rec.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if w.TopicPrefix != "" {
		topic = w.TopicPrefix + topic
	}
	return topic
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry() time.Time {
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[0])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://lendme"
}
