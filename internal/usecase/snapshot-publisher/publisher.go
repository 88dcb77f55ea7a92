package snapshotpublisher

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot/v1"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/config"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/errors"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka publisher for streaming emitted snapshots.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for emitted snapshots.
func NewPublisher(cfg config.PublisherConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishSnapshot publishes one emitted snapshot as JSON, keyed by symbol.
func (p *Publisher) PublishSnapshot(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewTracer("could not marshal snapshot").
			WithCode(errors.SnapshotPublishError).Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(snapshot.Symbol),
		Value: buf,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "operation", Value: "PublishSnapshot"},
			logger.Field{Key: "sequence", Value: snapshot.Sequence},
		)
		return errors.NewTracer("failed to publish snapshot").
			WithCode(errors.SnapshotPublishError).Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
