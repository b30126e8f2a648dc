package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// WebhookDedup implements ports.WebhookDedup using Redis SET NX. A lost
// entry only means a duplicate reaches the state machine, whose guards
// drop it anyway.
type WebhookDedup struct {
	client *goredis.Client
	prefix string
}

// NewWebhookDedup creates a new Redis-backed webhook dedup store.
func NewWebhookDedup(client *goredis.Client) *WebhookDedup {
	return &WebhookDedup{
		client: client,
		prefix: "webhook:",
	}
}

// FirstDelivery atomically records key, returning true only the first
// time it is seen within ttl.
func (s *WebhookDedup) FirstDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetArgs(ctx, s.prefix+key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — duplicate delivery
			return false, nil
		}
		return false, fmt.Errorf("redis webhook dedup: %w", err)
	}
	return result == "OK", nil
}
