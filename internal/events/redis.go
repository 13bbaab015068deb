package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channel = "booking-events"

type redisPublisher struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, log *zap.Logger) Publisher {
	return &redisPublisher{
		rdb: rdb,
		log: log.With(zap.String("publisher", "redis")),
	}
}

func (p *redisPublisher) Publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event %s: %w", event.Type, err)
	}

	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		p.log.Error("Failed to publish booking event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
		)
		return fmt.Errorf("publish booking event %s: %w", event.Type, err)
	}

	p.log.Debug("Booking event published",
		zap.String("type", event.Type),
		zap.String("order_id", event.OrderID),
	)

	return nil
}
