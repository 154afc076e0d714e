// Package audit consumes bookstore events and writes them to the audit log.
package audit

import (
	"context"
	"maps"
	"sync"

	"github.com/ariefcatur/go-bookstore/internal/events"
	bkafka "github.com/ariefcatur/go-bookstore/internal/kafka"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

// Marker deduplicates redelivered events.
type Marker interface {
	Mark(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type Auditor struct {
	dedup Marker
	log   zerolog.Logger

	mu     sync.Mutex
	counts map[string]int
}

func New(dedup Marker, log zerolog.Logger) *Auditor {
	return &Auditor{dedup: dedup, log: log, counts: map[string]int{}}
}

// HandleMessage is the consumer handler. Undecodable messages are logged and
// skipped so they do not block the partition.
func (a *Auditor) HandleMessage(ctx context.Context, m kafkago.Message) error {
	env, err := bkafka.DecodeEnvelope(m)
	if err != nil {
		a.log.Error().Err(err).Int("partition", m.Partition).Int64("offset", m.Offset).Msg("skip undecodable message")
		return nil
	}

	first, err := a.dedup.Mark(ctx, env.EventID)
	if err != nil {
		return err
	}
	if !first {
		a.log.Debug().Str("event_id", env.EventID).Msg("duplicate event")
		return nil
	}

	if err := a.record(env); err != nil {
		if ferr := a.dedup.Forget(ctx, env.EventID); ferr != nil {
			a.log.Warn().Err(ferr).Str("event_id", env.EventID).Msg("forget dedup marker")
		}
		return err
	}
	return nil
}

func (a *Auditor) record(env events.Envelope) error {
	ev := a.log.Info().
		Str("event_id", env.EventID).
		Str("event_type", env.EventType).
		Str("producer", env.Producer).
		Str("correlation_id", env.CorrelationID).
		Time("occurred_at", env.OccurredAt)

	switch env.EventType {
	case events.CategoryCreated, events.CategoryRenamed:
		p, err := events.Decode[events.CategoryPayload](env)
		if err != nil {
			return err
		}
		ev = ev.Int64("category_id", p.CategoryID).Str("name", p.Name)
	case events.BookAdded, events.BookUpdated:
		p, err := events.Decode[events.BookPayload](env)
		if err != nil {
			return err
		}
		ev = ev.Int64("book_id", p.BookID).Int64("category_id", p.CategoryID).Str("price", p.Price.String())
	case events.CartItemAdded, events.CartItemReduced, events.CartItemRemoved:
		p, err := events.Decode[events.CartItemPayload](env)
		if err != nil {
			return err
		}
		ev = ev.Int64("user_id", p.UserID).Int64("book_id", p.BookID).Int("quantity", p.Quantity).Int("delta", p.Delta)
	case events.CartCheckedOut:
		p, err := events.Decode[events.CartCheckedOutPayload](env)
		if err != nil {
			return err
		}
		ev = ev.Int64("user_id", p.UserID).Int("lines", p.Lines).Str("total_price", p.TotalPrice.String())
	default:
		a.log.Warn().Str("event_type", env.EventType).Str("event_id", env.EventID).Msg("unknown event type")
		return nil
	}
	ev.Msg("audit")

	a.mu.Lock()
	a.counts[env.EventType]++
	a.mu.Unlock()
	return nil
}

// Counts returns how many events of each type were recorded.
func (a *Auditor) Counts() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return maps.Clone(a.counts)
}
