// Package kafka publishes layer-published events for downstream consumers
// (dashboards, cache invalidation). Publishing is optional: when no brokers
// are configured the engine runs without it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
)

// Writer produces layer events to the configured topic.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the events topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaEventsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// PublishLayer serializes and publishes one layer event, keyed by layer name
// so per-layer ordering is preserved.
func (w *Writer) PublishLayer(ctx context.Context, event domain.LayerEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		w.metrics.EventsPublished.WithLabelValues("error").Inc()
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		w.metrics.EventsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("publish layer event: %w", err)
	}
	w.metrics.EventsPublished.WithLabelValues("success").Inc()
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a LayerEvent into a Kafka message.
func serializeToMessage(event domain.LayerEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize layer event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Layer),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "published_at", Value: []byte(event.PublishedAt.Format(time.RFC3339))},
		},
	}, nil
}
