package activity

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Publisher pushes activity events to a broker for downstream analytics.
type Publisher interface {
	Publish(ctx context.Context, l *Log) error
}

// KafkaPublisher publishes one message per activity log, keyed by actor so a
// user's events stay ordered within a partition.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, l *Log) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(l.ActorID),
		Value: payload,
	})
}
