package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedup remembers processed event ids for one consuming service.
type Dedup struct {
	rdb     *redis.Client
	service string
	ttl     time.Duration
}

func NewDedup(rdb *redis.Client, service string) *Dedup {
	return &Dedup{rdb: rdb, service: service, ttl: TTLDedup}
}

// Mark records eventID and reports whether this is its first delivery.
func (d *Dedup) Mark(ctx context.Context, eventID string) (bool, error) {
	first, err := d.rdb.SetNX(ctx, DedupKey(d.service, eventID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark event %s: %w", eventID, err)
	}
	return first, nil
}

// Forget removes the marker so a failed event is processed on redelivery.
func (d *Dedup) Forget(ctx context.Context, eventID string) error {
	if err := d.rdb.Del(ctx, DedupKey(d.service, eventID)).Err(); err != nil {
		return fmt.Errorf("forget event %s: %w", eventID, err)
	}
	return nil
}
