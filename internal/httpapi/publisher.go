package httpapi

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes referral events over Redis pub/sub. The Gateway
// subscribes and forwards them to connected clients as SSE.
type RedisPublisher struct {
	RDB *redis.Client
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.RDB.Publish(ctx, channel, payload).Err()
}
