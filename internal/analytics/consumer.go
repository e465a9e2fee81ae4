package analytics

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Consumer reads game events from the topic into Metrics.
type Consumer struct {
	reader  *kafka.Reader
	metrics *Metrics
	logger  zerolog.Logger
}

func NewConsumer(brokers []string, topic, group string, m *Metrics) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: group,
		}),
		metrics: m,
		logger:  log.With().Str("component", "consumer").Str("topic", topic).Logger(),
	}
}

// Run reads until ctx is cancelled or the reader fails.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "read message")
		}
		if err := c.Handle(msg); err != nil {
			c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping message")
		}
	}
}

// Handle decodes one message and records it.
func (c *Consumer) Handle(msg kafka.Message) error {
	var e Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return errors.Wrap(err, "unmarshal event")
	}
	c.metrics.Record(e)
	c.logger.Debug().Str("event", e.Event).Interface("gameId", e.Payload["gameId"]).Msg("event")
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
