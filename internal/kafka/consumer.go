package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Handler returns nil only when the message was processed and its offset may
// be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
	log     zerolog.Logger
}

func NewConsumer(brokers []string, group, topic string, workers int, log zerolog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers, log: log}
}

// Start fetches messages and fans them out to the worker pool until ctx ends.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, 1024)
	errs := make(chan error, c.workers)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := h(ctx, m); err != nil {
					report(errs, err)
					continue
				}
				if err := c.r.CommitMessages(ctx, m); err != nil {
					report(errs, err)
				}
			}
		}()
	}
	defer wg.Wait()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			close(jobs)
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			close(jobs)
			return nil
		}

		select {
		case e := <-errs:
			c.log.Warn().Err(e).Msg("worker error")
			time.Sleep(200 * time.Millisecond)
		default:
		}
	}
}

// report never blocks a worker; the dispatcher only samples errors for backoff.
func report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}
