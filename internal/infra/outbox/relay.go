package outbox

import (
	"context"
	"fmt"

	appoutbox "vibestays/internal/app/outbox"
)

// Relay publishes records straight to the broker when the in-memory outbox is
// flushed. It serves the drivers that have no persistent outbox.
type Relay struct {
	Producer Producer
	Envelope Envelope
	Observer PublishObserver
}

func (r Relay) Deliver(ctx context.Context, record appoutbox.EventRecord) error {
	if r.Producer == nil {
		return ErrWorkerNotConfigured
	}
	payload, headers, err := r.Envelope.Format(record)
	if err == nil {
		err = r.Producer.Publish(ctx, r.Envelope.TopicFor(record.Name), record.Aggregate, payload, headers)
	}
	if r.Observer != nil {
		r.Observer.ObservePublish(record.Name, err)
	}
	if err != nil {
		return fmt.Errorf("outbox: deliver %s: %w", record.Name, err)
	}
	return nil
}
