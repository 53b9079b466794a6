package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/IBM/sarama"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const (
	// KafkaSubscriberName is the name of the KafkaSubscriber.
	KafkaSubscriberName = "kafka"

	// HeaderEventType carries the lifecycle event type on every Kafka message.
	HeaderEventType = "event_type"

	// HeaderEventID carries the unique message id on every Kafka message.
	HeaderEventID = "event_id"
)

// ErrEmptyTopic is returned when the KafkaSubscriber is created without a topic.
var ErrEmptyTopic = errors.New("kafka topic must not be empty")

// KafkaConfig holds the producer settings.
type KafkaConfig struct {
	Addrs []string
}

// NewKafkaProducer creates a synchronous producer that waits for all in-sync replicas.
func NewKafkaProducer(cfg KafkaConfig) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

// KafkaSubscriber publishes every lifecycle event as a JSON message keyed by loan id.
type KafkaSubscriber struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaSubscriber creates a KafkaSubscriber writing to topic.
func NewKafkaSubscriber(producer sarama.SyncProducer, topic string) (*KafkaSubscriber, error) {
	if producer == nil {
		return nil, shell.ErrNilDependency
	}

	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}

	return &KafkaSubscriber{producer: producer, topic: topic}, nil
}

// Name implements shell.Subscriber.
func (s *KafkaSubscriber) Name() string {
	return KafkaSubscriberName
}

// Handle implements shell.Subscriber. Events that can not be serialized fail permanently.
func (s *KafkaSubscriber) Handle(_ context.Context, event core.DomainEvent) error {
	storableEvent, err := storableEventOf(event)
	if err != nil {
		return shell.Permanent(err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(storableEvent.LoanID),
		Value: sarama.ByteEncoder(storableEvent.PayloadJSON),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderEventType), Value: []byte(storableEvent.EventType)},
			{Key: []byte(HeaderEventID), Value: []byte(storableEvent.EventID)},
		},
		Timestamp: storableEvent.OccurredAt,
	}

	if _, _, err = s.producer.SendMessage(msg); err != nil {
		return err
	}

	return nil
}

// Close closes the underlying producer.
func (s *KafkaSubscriber) Close() error {
	return s.producer.Close()
}

func storableEventOf(event core.DomainEvent) (shell.StorableEvent, error) {
	messageID := shell.MessageIDFor(event)

	return shell.StorableEventFrom(event, shell.BuildEventMetadata(messageID, messageID, messageID))
}
