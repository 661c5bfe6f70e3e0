package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshelf/internal/logging"
)

// Runs against a real broker only when BOOKSHELF_TEST_KAFKA_BROKER is set, e.g. localhost:9092.
func brokerOrSkip(t *testing.T) string {
	t.Helper()
	broker := os.Getenv("BOOKSHELF_TEST_KAFKA_BROKER")
	if broker == "" {
		t.Skip("BOOKSHELF_TEST_KAFKA_BROKER not set")
	}
	return broker
}

func ensureTopics(t *testing.T, broker string, topics ...string) {
	t.Helper()

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	admin, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer admin.Close()

	cfgs := make([]kafka.TopicConfig, 0, len(topics))
	for _, tp := range topics {
		cfgs = append(cfgs, kafka.TopicConfig{Topic: tp, NumPartitions: 1, ReplicationFactor: 1})
	}
	err = admin.CreateTopics(cfgs...)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		require.NoError(t, err)
	}
}

func consumeNext(t *testing.T, broker, topic string, produce func()) kafka.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	conn, err := kafka.DialLeader(ctx, "tcp", broker, topic, 0)
	require.NoError(t, err)
	end, err := conn.ReadLastOffset()
	require.NoError(t, err)
	_ = conn.Close()

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   time.Second,
	})
	defer r.Close()
	require.NoError(t, r.SetOffset(end))

	produce()

	m, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	return m
}

func TestProducer_Broker(t *testing.T) {
	broker := brokerOrSkip(t)
	prefix := fmt.Sprintf("test%d.", time.Now().UnixNano())

	p, err := NewProducer([]string{broker}, prefix, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	topic := p.Topic("book_events")
	ensureTopics(t, broker, topic)

	m := consumeNext(t, broker, topic, func() {
		require.NoError(t, p.PublishEvent(context.Background(), "book_events", "7", map[string]any{
			"type":   "book_created",
			"bookID": 7,
		}))
	})

	assert.Equal(t, "7", string(m.Key))
	var event map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &event))
	assert.Equal(t, "book_created", event["type"])
	assert.EqualValues(t, 7, event["bookID"])
}
