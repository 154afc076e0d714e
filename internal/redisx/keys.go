package redisx

import (
	"fmt"
	"time"
)

const (
	// Replayable response for a cart add: idem:cart:add:{user_id}:{idempotency_key}
	KeyIdemCartAdd = "idem:cart:add:%d:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)

func IdemCartAddKey(userID int64, key string) string {
	return fmt.Sprintf(KeyIdemCartAdd, userID, key)
}

func DedupKey(service, eventID string) string {
	return fmt.Sprintf(KeyDedup, service, eventID)
}
