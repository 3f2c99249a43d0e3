package kafka

import (
	"context"

	"github.com/IBM/sarama"
)

// Inbox records processed event ids.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// Deduplicating skips messages whose ce_id header was already recorded.
// Messages without an id are always passed on.
type Deduplicating struct {
	Inbox Inbox
	Next  MessageHandler
}

func (d Deduplicating) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	id := headerValue(msg, "ce_id")
	if d.Inbox == nil || id == "" {
		return d.Next.Handle(ctx, msg)
	}
	seen, err := d.Inbox.Seen(ctx, id)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}
	return d.Next.Handle(ctx, msg)
}
