package kafka

import (
	"context"

	"github.com/IBM/sarama"
)

// Producer publishes marketplace events synchronously. Delivery is
// idempotent with acks from all replicas, so broker restarts do not
// duplicate listing or chat events on the stream.
type Producer struct {
	sync sarama.SyncProducer
}

func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = defaultProducerConfig()
	}
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync}, nil
}

func defaultProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	// idempotent producing caps in-flight requests at one
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Return.Successes = true
	return cfg
}

// Publish sends a single keyed event. Events sharing a key, a listing id
// or a chat room id, land on one partition and stay ordered.
func (p *Producer) Publish(_ context.Context, topic, key string, payload []byte) error {
	_, _, err := p.sync.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
