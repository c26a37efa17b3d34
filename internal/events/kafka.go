package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      []string
	CompanyTopic string
	ReviewTopic  string
	Compression  string // snappy (default), gzip, lz4, zstd, none
	BatchTimeout time.Duration
}

// KafkaPublisher writes events to per-type topics.
type KafkaPublisher struct {
	writer messageWriter
	topics map[string]string
}

// NewKafkaPublisher creates a publisher backed by a kafka.Writer.
func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, eris.New("events: no kafka brokers configured")
	}

	compression := kafka.Snappy
	switch strings.ToLower(cfg.Compression) {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 100 * time.Millisecond
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireOne,
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, cfg.CompanyTopic, cfg.ReviewTopic), nil
}

func newKafkaPublisher(w messageWriter, companyTopic, reviewTopic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		topics: map[string]string{
			TypeCompanyUpserted: companyTopic,
			TypeReviewUpserted:  reviewTopic,
		},
	}
}

// Publish writes ev to the topic for its type, keyed by ev.Key so updates
// to the same record stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	topic := p.topics[ev.Type]
	if topic == "" {
		return eris.Errorf("events: no topic for event type %q", ev.Type)
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return eris.Wrap(err, "events: marshal event")
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(ev.Key),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "event_id", Value: []byte(ev.ID)},
		},
	})
	return eris.Wrapf(err, "events: publish %s to %s", ev.Type, topic)
}

func (p *KafkaPublisher) Close() error {
	return eris.Wrap(p.writer.Close(), "events: close writer")
}
