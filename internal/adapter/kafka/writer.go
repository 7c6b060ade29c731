// Package kafka publishes assembled output rows downstream. The CSV sink is
// the primary output; this publisher is an optional, feature-flagged mirror.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"merra2-wind-etl/internal/config"
	"merra2-wind-etl/internal/domain"
)

// Publisher produces one JSON message per output row.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and publishes all rows in a single WriteMessages call.
func (p *Publisher) Publish(ctx context.Context, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := rowToMessage(rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d rows: %w", len(rows), err)
	}
	p.logger.Info("rows published", "count", len(rows), "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// rowToMessage marshals a Row into a Kafka message keyed by its timestamp.
func rowToMessage(row domain.Row) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.Datetime),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "produced_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
