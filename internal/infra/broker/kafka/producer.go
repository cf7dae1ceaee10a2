package kafka

import (
	"context"
	"strings"

	"github.com/IBM/sarama"
)

// Producer publishes application events to Kafka. Event names map to
// topics under a configurable prefix, e.g. "quickstay.booking.confirmed".
type Producer struct {
	sync   sarama.SyncProducer
	prefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync, prefix: strings.TrimSuffix(topicPrefix, ".")}, nil
}

func (p *Producer) Publish(ctx context.Context, name string, key string, payload []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: p.topic(name),
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(name)},
		},
	}
	_, _, err := p.sync.SendMessage(msg)
	return err
}

func (p *Producer) topic(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
