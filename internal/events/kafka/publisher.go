package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON-encoded events to Kafka.
type Publisher struct {
	writer messageWriter
}

// NewPublisher returns a publisher whose writes never wait for the brokers.
// Delivery failures are reported to onError, which may be nil.
func NewPublisher(brokers []string, onError func(error)) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			Async:                  true,
			AllowAutoTopicCreation: true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil && onError != nil {
					onError(fmt.Errorf("deliver %d message(s): %w", len(messages), err))
				}
			},
		},
	}
}

// Publish encodes event and writes it to topic.
func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: data,
	})
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
