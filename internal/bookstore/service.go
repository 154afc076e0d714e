// Package bookstore holds the catalog and shopping cart business rules.
package bookstore

import (
	"context"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/rs/zerolog"
)

// Option configures the services built by New.
type Option func(*core)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *core) { c.now = now }
}

// WithPublisher sets where committed changes are announced.
func WithPublisher(p events.Publisher) Option {
	return func(c *core) { c.pub = p }
}

// WithProducer names the service in emitted envelopes.
func WithProducer(name string) Option {
	return func(c *core) { c.producer = name }
}

type core struct {
	repo     Repository
	pub      events.Publisher
	log      zerolog.Logger
	now      func() time.Time
	producer string
}

// Services bundles the three services over one repository.
type Services struct {
	Categories *CategoryService
	Books      *BookService
	Cart       *CartService
}

// New builds the services. Events go to events.Nop unless WithPublisher is given.
func New(repo Repository, log zerolog.Logger, opts ...Option) *Services {
	c := &core{
		repo:     repo,
		pub:      events.Nop{},
		log:      log,
		now:      time.Now,
		producer: "bookstore",
	}
	for _, opt := range opts {
		opt(c)
	}
	return &Services{
		Categories: &CategoryService{core: c, log: log.With().Str("component", "category").Logger()},
		Books:      &BookService{core: c, log: log.With().Str("component", "book").Logger()},
		Cart:       &CartService{core: c, log: log.With().Str("component", "cart").Logger()},
	}
}

// clock returns the current time at the precision the store keeps.
func (c *core) clock() time.Time {
	return c.now().UTC().Truncate(time.Microsecond)
}

// emit publishes after commit. Failures are logged and never fail the request.
func (c *core) emit(ctx context.Context, eventType, key string, payload any) {
	env, err := events.New(eventType, key, payload, c.clock())
	if err != nil {
		c.log.Error().Err(err).Str("event_type", eventType).Msg("build event")
		return
	}
	env.Producer = c.producer
	env.CorrelationID = events.CorrelationID(ctx)
	if err := c.pub.Publish(ctx, env); err != nil {
		c.log.Warn().Err(err).Str("event_type", eventType).Str("event_id", env.EventID).Msg("publish event")
	}
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
