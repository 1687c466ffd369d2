package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
)

// Publisher writes domain events to Kafka, one topic per event type.
type Publisher struct {
	writer      *kafka.Writer
	topicPrefix string
}

func NewPublisher(brokers []string, topicPrefix string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		topicPrefix: topicPrefix,
	}
}

// Publish JSON-encodes event and writes it to topicPrefix+topic.
func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(
		ctx,
		kafka.Message{
			Topic: p.topicPrefix + topic,
			Value: data,
			Time:  time.Now(),
		},
	)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
