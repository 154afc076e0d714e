package kafka

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

var ErrClosed = errors.New("kafka: producer closed")

func EncodeEnvelope(e events.Envelope) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope %s: %w", e.EventType, err)
	}
	return b, nil
}

func DecodeEnvelope(m kafka.Message) (events.Envelope, error) {
	var e events.Envelope
	if err := json.Unmarshal(m.Value, &e); err != nil {
		return e, fmt.Errorf("decode envelope at offset %d: %w", m.Offset, err)
	}
	if e.EventID == "" {
		return e, fmt.Errorf("decode envelope at offset %d: missing event_id", m.Offset)
	}
	return e, nil
}

// Header returns the value of the first header named key.
func Header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
