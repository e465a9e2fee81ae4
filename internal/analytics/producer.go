package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	EventGameStarted  = "game_started"
	EventMovePlayed   = "move_played"
	EventGameFinished = "game_finished"
)

// Event is the JSON envelope written to the topic.
type Event struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    messageWriter
	closeOnce sync.Once
}

// NewProducer returns nil when analytics are not configured; a nil
// Producer accepts and drops every event.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn().Err(err).Int("messages", len(messages)).Msg("kafka publish failed")
			}
		},
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, event string, payload map[string]any) {
	if p == nil || p.writer == nil {
		return
	}
	data, err := json.Marshal(Event{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("encode event")
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("kafka publish failed")
	}
}

// Close flushes pending events.
func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}
	p.closeOnce.Do(func() {
		if err := p.writer.Close(); err != nil {
			log.Warn().Err(err).Msg("close kafka writer")
		}
	})
}
