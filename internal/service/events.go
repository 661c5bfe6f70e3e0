package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/bookshelf/internal/logging"
)

const (
	TopicUsers     = "user_events"
	TopicBooks     = "book_events"
	TopicFavorites = "favorite_events"
)

// Publisher delivers domain events. Delivery is best effort.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

const publishTimeout = 5 * time.Second

func publish(ctx context.Context, p Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}
