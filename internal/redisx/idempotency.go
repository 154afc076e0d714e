package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoredResponse is a completed HTTP response kept for replay.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore keeps cart-add responses keyed by user and client key.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: TTLIdempotency}
}

// Lookup returns the stored response, or false when none exists.
func (s *IdempotencyStore) Lookup(ctx context.Context, userID int64, key string) (StoredResponse, bool, error) {
	raw, err := s.rdb.Get(ctx, IdemCartAddKey(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return StoredResponse{}, false, nil
	}
	if err != nil {
		return StoredResponse{}, false, fmt.Errorf("get idempotency key: %w", err)
	}

	var resp StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return StoredResponse{}, false, fmt.Errorf("decode idempotency entry: %w", err)
	}
	return resp, true, nil
}

// Save stores resp unless an entry already exists; the first response wins.
func (s *IdempotencyStore) Save(ctx context.Context, userID int64, key string, resp StoredResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode idempotency entry: %w", err)
	}
	if err := s.rdb.SetNX(ctx, IdemCartAddKey(userID, key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set idempotency key: %w", err)
	}
	return nil
}
