package kafka

import (
	"context"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"
)

// CatalogInvalidator drops the cached catalog snapshot.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogInvalidationHandler drops the catalog cache whenever a listing or review
// event is seen.
type CatalogInvalidationHandler struct {
	Cache  CatalogInvalidator
	Logger *slog.Logger
}

// CatalogTopics lists the topics the handler reacts to.
func CatalogTopics(prefix string) []string {
	return []string{prefix + "listing.events.v1", prefix + "review.events.v1"}
}

func (h CatalogInvalidationHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if h.Cache == nil || !affectsCatalog(msg) {
		return nil
	}
	if err := h.Cache.Invalidate(ctx); err != nil {
		return err
	}
	if h.Logger != nil {
		h.Logger.Debug("catalog cache invalidated", "topic", msg.Topic, "event", headerValue(msg, "ce_type"))
	}
	return nil
}

func affectsCatalog(msg *sarama.ConsumerMessage) bool {
	if msg == nil {
		return false
	}
	return strings.HasSuffix(msg.Topic, "listing.events.v1") || strings.HasSuffix(msg.Topic, "review.events.v1")
}

func headerValue(msg *sarama.ConsumerMessage, key string) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}
