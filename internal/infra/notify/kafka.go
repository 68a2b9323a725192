package notify

import (
	"context"
	"time"

	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaChannel publishes messages keyed by booking uid so one booking's notifications stay ordered.
type KafkaChannel struct {
	writer messageWriter
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.NotificationTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

func NewKafkaChannel(writer messageWriter) *KafkaChannel {
	return &KafkaChannel{writer: writer}
}

func (c *KafkaChannel) Send(ctx context.Context, msg shared.NotificationMessage) error {
	payload, err := encode(msg)
	if err != nil {
		return errs.Wrap(err, "encode notification")
	}
	return c.Publish(ctx, msg.Event.UID, string(msg.Scenario), payload)
}

// Publish writes an already encoded envelope.
func (c *KafkaChannel) Publish(ctx context.Context, key, scenario string, payload []byte) error {
	err := c.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "scenario", Value: []byte(scenario)},
		},
	})
	if err != nil {
		return errs.Wrap(err, "publish notification")
	}
	return nil
}

func (c *KafkaChannel) Close() error {
	return c.writer.Close()
}
