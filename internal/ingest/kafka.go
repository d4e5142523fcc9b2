package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/LinkHawk/LinkHawk/internal/bus"
	"github.com/LinkHawk/LinkHawk/internal/config"
)

// KafkaSource consumes serialized events from Kafka topics and publishes
// them onto the bus, one reader goroutine per topic.
type KafkaSource struct {
	cfg     config.KafkaConfig
	bus     *bus.EventBus
	readers []*kafka.Reader
}

// NewKafkaSource creates a Kafka producer for the configured topics.
func NewKafkaSource(cfg config.KafkaConfig, eventBus *bus.EventBus) *KafkaSource {
	return &KafkaSource{cfg: cfg, bus: eventBus}
}

// Start begins consuming from all configured topics.
func (s *KafkaSource) Start(ctx context.Context) error {
	brokerList := strings.Split(s.cfg.Brokers, ",")
	for _, topic := range s.cfg.Topics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokerList,
			Topic:    topic,
			GroupID:  s.cfg.ConsumerGroup,
			MinBytes: 1,
			MaxBytes: 10e6,
		})
		s.readers = append(s.readers, reader)

		go func(r *kafka.Reader, t string) {
			for {
				msg, err := r.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					slog.Warn("KafkaSource: read error", "topic", t, "error", err)
					continue
				}
				ev, err := decodeEvent(msg.Value)
				if err != nil {
					slog.Warn("KafkaSource: bad event payload", "topic", t, "error", err)
					continue
				}
				s.bus.PublishInbound(ev)
			}
		}(reader, topic)
	}
	return nil
}

// Close stops all readers.
func (s *KafkaSource) Close() error {
	for _, r := range s.readers {
		r.Close()
	}
	return nil
}

// decodeEvent parses a serialized event payload. A missing type defaults to
// message; a missing trace id gets a fresh one via NewMessageEvent.
func decodeEvent(value []byte) (*bus.Event, error) {
	var raw struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
		Text    string `json:"text"`
		BotID   string `json:"bot_id"`
		TraceID string `json:"trace_id"`
	}
	if err := json.Unmarshal(value, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Channel) == "" {
		return nil, fmt.Errorf("event missing channel")
	}
	ev := bus.NewMessageEvent(raw.Channel, raw.Text)
	if raw.Type != "" {
		ev.Type = raw.Type
	}
	if raw.TraceID != "" {
		ev.TraceID = raw.TraceID
	}
	ev.BotID = raw.BotID
	return ev, nil
}
