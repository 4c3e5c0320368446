package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "lendme/internal/app/outbox"
	"lendme/internal/infra/storage/memory"
)

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	published []published
	fail      error
}

func (p *fakeProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func stageRecord(t *testing.T, store *memory.Outbox, name, aggregate string) appoutbox.Record {
	t.Helper()
	rec := appoutbox.Record{
		ID:         name + "-" + aggregate,
		Name:       name,
		Aggregate:  aggregate,
		Payload:    []byte(`{"bookingId":7}`),
		Headers:    map[string]string{"trace": "abc"},
		OccurredAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Add(context.Background(), rec))
	return rec
}

func TestDrainPublishesCloudEvents(t *testing.T) {
	store := memory.NewOutbox()
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer}
	stageRecord(t, store, "booking.requested", "7")

	require.NoError(t, w.drain(context.Background()))
	require.Len(t, producer.published, 1)
	assert.Equal(t, 0, store.Pending())

	msg := producer.published[0]
	assert.Equal(t, "booking.events.v1", msg.topic)
	assert.Equal(t, "7", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])
	assert.Equal(t, "abc", msg.headers["trace"])

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &envelope))
	assert.Equal(t, "1.0", envelope["specversion"])
	assert.Equal(t, "booking.requested.v1", envelope["type"])
	assert.Equal(t, "app://lendme", envelope["source"])
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), data["bookingId"])
}

func TestTopicPrefix(t *testing.T) {
	store := memory.NewOutbox()
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, TopicPrefix: "staging."}
	stageRecord(t, store, "item.comment_added", "3")

	require.NoError(t, w.drain(context.Background()))
	require.Len(t, producer.published, 1)
	assert.Equal(t, "staging.item.events.v1", producer.published[0].topic)
}

func TestPublishFailureReschedules(t *testing.T) {
	store := memory.NewOutbox()
	producer := &fakeProducer{fail: errors.New("broker down")}
	w := &Worker{Store: store, Producer: producer, Backoff: []time.Duration{time.Minute}}
	stageRecord(t, store, "booking.requested", "7")

	require.NoError(t, w.drain(context.Background()))
	assert.Empty(t, producer.published)
	// The record stays pending for a later retry instead of being lost.
	assert.Equal(t, 1, store.Pending())

	// Not due yet, so an immediate drain claims nothing.
	rec, err := store.Claim(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRunRequiresDependencies(t *testing.T) {
	w := &Worker{}
	err := w.Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestDrainStopsWhenEmpty(t *testing.T) {
	store := memory.NewOutbox()
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer}

	require.NoError(t, w.drain(context.Background()))
	assert.Empty(t, producer.published)
}
