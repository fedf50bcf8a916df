package kafka

import (
	"encoding/json"
	"sync"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"saythenumber/shared/types"
)

// DefaultTopic receives one message per finished attempt
const DefaultTopic = "saythenumber-attempts"

// PublisherConfig holds Kafka producer configuration
type PublisherConfig struct {
	Brokers []string
	Topic   string
	Logger  *zap.Logger
}

// Publisher sends finished attempts to Kafka without blocking the caller on acks
type Publisher struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *zap.Logger
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPublisher connects an async producer to the brokers
func NewPublisher(config PublisherConfig) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = false
	saramaConfig.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	return NewPublisherFromProducer(producer, config.Topic, config.Logger), nil
}

// NewPublisherFromProducer wraps an existing producer. The producer must not
// return successes, only errors.
func NewPublisherFromProducer(producer sarama.AsyncProducer, topic string, logger *zap.Logger) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Publisher{producer: producer, topic: topic, logger: logger}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for err := range producer.Errors() {
			p.logger.Warn("❌ Kafka publish failed", zap.Error(err.Err))
		}
	}()
	return p
}

// AttemptFinished publishes the outcome keyed by attempt ID. Outcomes arriving
// after Close are dropped.
func (p *Publisher) AttemptFinished(outcome types.Outcome) {
	data, err := json.Marshal(outcome)
	if err != nil {
		p.logger.Warn("Failed to encode outcome", zap.String("attempt", outcome.AttemptID), zap.Error(err))
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Debug("Kafka producer closed, dropping outcome", zap.String("attempt", outcome.AttemptID))
		return
	}
	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(outcome.AttemptID),
		Value: sarama.ByteEncoder(data),
	}
}

// Close flushes pending messages and shuts the producer down
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.logger.Info("Closing Kafka producer...")
	p.producer.AsyncClose()
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}
