// Package events defines the domain events emitted after bookstore writes commit.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CategoryCreated = "CategoryCreated"
	CategoryRenamed = "CategoryRenamed"
	BookAdded       = "BookAdded"
	BookUpdated     = "BookUpdated"
	CartItemAdded   = "CartItemAdded"
	CartItemReduced = "CartItemReduced"
	CartItemRemoved = "CartItemRemoved"
	CartCheckedOut  = "CartCheckedOut"
)

// DefaultTopic carries every bookstore event.
const DefaultTopic = "bookstore.events"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // request id when available
	Key           string          `json:"key"`                      // partition key
	Payload       json.RawMessage `json:"payload"`
}

// New wraps payload in an envelope with a fresh event id.
func New(eventType, key string, payload any, at time.Time) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   at.UTC(),
		Key:          key,
		Payload:      raw,
	}, nil
}

// Decode unmarshals the envelope payload into T.
func Decode[T any](e Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(e.Payload, &t); err != nil {
		return t, fmt.Errorf("decode %s payload: %w", e.EventType, err)
	}
	return t, nil
}

// Category events are keyed by category id, book events by book id and cart
// events by user id so each aggregate keeps its order within a partition.
func CategoryKey(id int64) string { return "category:" + strconv.FormatInt(id, 10) }
func BookKey(id int64) string     { return "book:" + strconv.FormatInt(id, 10) }
func CartKey(userID int64) string { return "cart:" + strconv.FormatInt(userID, 10) }

type CategoryPayload struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

type BookPayload struct {
	BookID     int64           `json:"book_id"`
	CategoryID int64           `json:"category_id"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	Price      decimal.Decimal `json:"price"`
}

type CartItemPayload struct {
	UserID   int64 `json:"user_id"`
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"` // quantity after the change
	Delta    int   `json:"delta"`
}

type CartCheckedOutPayload struct {
	UserID     int64           `json:"user_id"`
	Lines      int             `json:"lines"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Publisher delivers envelopes to the event bus.
type Publisher interface {
	Publish(ctx context.Context, e Envelope) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Envelope) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(_ context.Context, e Envelope) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded envelopes.
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.events...)
}

// Types lists the event types recorded so far, in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type correlationKey struct{}

// WithCorrelationID attaches id to ctx; envelopes built from ctx carry it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id attached by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
