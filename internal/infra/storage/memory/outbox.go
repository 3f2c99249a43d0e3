package memory

import (
	"context"
	"errors"
	"sync"

	appoutbox "vibestays/internal/app/outbox"
)

// Deliverer hands a flushed record to the broker.
type Deliverer interface {
	Deliver(ctx context.Context, record appoutbox.EventRecord) error
}

// Outbox buffers records until Flush, which delivers them in order. Without a
// Deliverer flushed records are dropped.
type Outbox struct {
	mu        sync.Mutex
	records   []appoutbox.EventRecord
	deliverer Deliverer
}

func NewOutbox(deliverer Deliverer) *Outbox {
	return &Outbox{deliverer: deliverer}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Flush delivers buffered records. Records that fail stay buffered for the next
// flush and the joined delivery errors are returned.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.records
	o.records = nil
	o.mu.Unlock()
	if o.deliverer == nil || len(pending) == 0 {
		return nil
	}

	var failed []appoutbox.EventRecord
	var errs []error
	for _, rec := range pending {
		if err := o.deliverer.Deliver(ctx, rec); err != nil {
			failed = append(failed, rec)
			errs = append(errs, err)
		}
	}
	if len(failed) > 0 {
		o.mu.Lock()
		o.records = append(failed, o.records...)
		o.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Pending returns a copy of the buffered records.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.records...)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
