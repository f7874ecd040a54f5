package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"fleetalloc/pkg/model"
)

// Publisher emits allocation lifecycle events. Publishing is
// best-effort: the allocation store, not the event stream, is the
// system of record, so callers log failures rather than fail requests.
type Publisher interface {
	Publish(ctx context.Context, eventType string, allocation *model.Allocation) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	source string
}

// NewKafkaPublisher builds a producer keyed by vehicle ID so events for
// one vehicle stay ordered within a partition.
func NewKafkaPublisher(brokers []string, topic, source string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			MaxAttempts:  3,
			BatchTimeout: 10 * time.Millisecond,
		},
		source: source,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, allocation *model.Allocation) error {
	event := AllocationEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Allocation: *allocation,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(allocation.VehicleID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.EventID)},
			{Key: HeaderEventType, Value: []byte(eventType)},
			{Key: HeaderSource, Value: []byte(p.source)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher stands in when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *model.Allocation) error { return nil }

func (NopPublisher) Close() error { return nil }
