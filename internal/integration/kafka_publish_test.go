//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merra2-wind-etl/internal/adapter/kafka"
	"merra2-wind-etl/internal/config"
	"merra2-wind-etl/internal/domain"
)

const testRowsTopic = "test-merra2-rows"

// publishedRow holds a deserialized message read from the rows topic.
type publishedRow struct {
	Row     domain.Row
	Key     string
	Headers map[string]string
}

// readPublished reads a single message from the consumer and deserializes it.
func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedRow {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from rows topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var row domain.Row
	require.NoError(t, json.Unmarshal(msg.Value, &row), "unmarshal row message")

	return publishedRow{Row: row, Key: string(msg.Key), Headers: headers}
}

// TestPublisherRoundTrip verifies that assembled rows published through the
// Kafka adapter arrive intact, keyed by timestamp and stamped with a
// produced_at header.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRowsTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testRowsTopic,
	}

	series := domain.Series{
		Times:    []time.Time{time.Date(2014, 1, 1, 0, 30, 0, 0, time.UTC), time.Date(2014, 1, 1, 1, 30, 0, 0, time.UTC)},
		U:        []float64{3.0, 6.0},
		V:        []float64{4.0, 8.0},
		Temp:     []float64{280.0, 281.0},
		Pressure: []float64{101325.0, 101300.0},
	}
	table, err := domain.BuildTable(series)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	require.NoError(t, publisher.Publish(ctx, table.Rows))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testRowsTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	first := readPublished(ctx, t, consumer)
	assert.Equal(t, "2014-01-01 00:30:00", first.Key)
	assert.Equal(t, table.Rows[0], first.Row)
	assert.Equal(t, 5.0, first.Row.WindSpeed50M)

	require.Contains(t, first.Headers, "produced_at")
	_, err = time.Parse(time.RFC3339, first.Headers["produced_at"])
	assert.NoError(t, err, "produced_at should be valid RFC3339")

	second := readPublished(ctx, t, consumer)
	assert.Equal(t, "2014-01-01 01:30:00", second.Key)
	assert.Equal(t, table.Rows[1], second.Row)
	assert.Equal(t, 10.0, second.Row.WindSpeed50M)
}

// TestPublisherEmptyRows verifies that publishing an empty table is a no-op
// rather than an error, matching a run whose manifest yielded no samples.
func TestPublisherEmptyRows(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRowsTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testRowsTopic,
	}

	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	require.NoError(t, publisher.Publish(ctx, nil))
}
