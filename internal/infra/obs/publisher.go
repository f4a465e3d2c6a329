package obs

import (
	"context"
	"log/slog"
)

// LogPublisher stands in for a broker when none is configured: every
// envelope is written to the log instead.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "event published", "topic", topic, "key", key, "bytes", len(payload), "payload", string(payload))
	return nil
}
