package kafka

import (
	"context"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Producer writes messages from a buffered inbox on a single goroutine.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	log     zerolog.Logger
}

func NewProducer(brokers []string, topic string, buf int, log zerolog.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					log.Error().Err(err).Int("messages", len(msgs)).Msg("kafka write failed")
				}
			},
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

// Start runs the writer loop until ctx is done, then flushes what is queued.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			if err := p.w.Close(); err != nil {
				p.log.Error().Err(err).Msg("close kafka writer")
			}
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.log.Error().Err(err).Str("key", string(m.Key)).Msg("kafka write")
	}
}

// Send queues a raw message. It blocks while the inbox is full unless ctx ends.
func (p *Producer) Send(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case p.inbox <- m:
		return nil
	case <-p.closeCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish implements events.Publisher.
func (p *Producer) Publish(ctx context.Context, e events.Envelope) error {
	value, err := EncodeEnvelope(e)
	if err != nil {
		return err
	}
	return p.Send(ctx, []byte(e.Key), value,
		kafka.Header{Key: HeaderEventType, Value: []byte(e.EventType)},
		kafka.Header{Key: HeaderEventID, Value: []byte(e.EventID)},
	)
}

// WaitClosed blocks until the writer loop has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
