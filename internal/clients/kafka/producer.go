package kafka

import (
	"context"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/logger"
)

type producerConfig interface {
	Brokers() []string
	Topic() string
}

// Producer publishes recorded transactions to a Kafka topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers(), newConfig())
	if err != nil {
		return nil, errors.Wrap(err, "cannot create kafka producer")
	}
	return NewWithProducer(producer, cfg.Topic()), nil
}

// NewWithProducer wraps an existing sarama producer.
func NewWithProducer(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
	}
}

func newConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true
	return config
}

func (p *Producer) Publish(_ context.Context, key string, body []byte) error {
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return errors.Wrap(err, "producer.SendMessage")
	}
	logger.Debug("transaction event sent",
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}
