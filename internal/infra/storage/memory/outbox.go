package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "lendme/internal/app/outbox"
)

type outboxEntry struct {
	record   appoutbox.Record
	sent     bool
	claimed  bool
	attempts int
	retryAt  time.Time
	lastErr  string
}

// Outbox stages event records in memory for the worker to drain.
type Outbox struct {
	mu      sync.Mutex
	entries []*outboxEntry
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, rec appoutbox.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, &outboxEntry{record: rec})
	return nil
}

// Claim hands out the oldest pending record, or nil when nothing is due.
func (o *Outbox) Claim(ctx context.Context) (*appoutbox.Record, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for _, e := range o.entries {
		if e.sent || e.claimed {
			continue
		}
		if !e.retryAt.IsZero() && e.retryAt.After(now) {
			continue
		}
		e.claimed = true
		rec := e.record
		return &rec, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e := o.find(id); e != nil {
		e.sent = true
		e.claimed = false
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e := o.find(id); e != nil {
		e.claimed = false
		e.attempts++
		e.retryAt = retryAt
		e.lastErr = reason
	}
	return nil
}

// Pending reports how many records still await delivery.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	count := 0
	for _, e := range o.entries {
		if !e.sent {
			count++
		}
	}
	return count
}

func (o *Outbox) find(id string) *outboxEntry {
	for _, e := range o.entries {
		if e.record.ID == id {
			return e
		}
	}
	return nil
}

var _ appoutbox.Recorder = (*Outbox)(nil)
