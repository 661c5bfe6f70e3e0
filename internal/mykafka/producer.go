package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer MessageWriter
	prefix string
}

// NewProducer builds an async writer; the topic is chosen per message.
// PublishEvent only enqueues, and failed batches are reported to logger.
func NewProducer(brokers []string, topicPrefix string, logger *slog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           writeTimeout,
		Async:                  true,
		Completion:             completion(logger),
	}
	return NewProducerWithWriter(w, topicPrefix), nil
}

func completion(logger *slog.Logger) func([]kafka.Message, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		topic := ""
		if len(msgs) > 0 {
			topic = msgs[0].Topic
		}
		logger.Error("kafka_publish_error", "topic", topic, "messages", len(msgs), "error", err)
	}
}

func NewProducerWithWriter(w MessageWriter, topicPrefix string) *Producer {
	return &Producer{writer: w, prefix: topicPrefix}
}

func (p *Producer) Topic(name string) string {
	return p.prefix + name
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: p.Topic(topic),
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", msg.Topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, string, string, any) error { return nil }
func (Noop) Close() error                                          { return nil }
