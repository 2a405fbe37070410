package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// Producer публикует события корзины в Kafka.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	// clientID — ключ партиционирования: события одного клиента идут по порядку.
	clientID string
	logger   *log.Entry
}

// NewProducer создает синхронный идемпотентный producer.
func NewProducer(brokers []string, topic, clientID string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // обязательно для идемпотентности

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newProducer(producer, topic, clientID), nil
}

func newProducer(producer sarama.SyncProducer, topic, clientID string) *Producer {
	if topic == "" {
		topic = TopicCartEvents
	}
	return &Producer{
		producer: producer,
		topic:    topic,
		clientID: clientID,
		logger:   log.WithField("component", "kafka-producer"),
	}
}

// PublishCartEvent отправляет событие корзины. Контекст не прерывает синхронную отправку sarama,
// но уже отменённый контекст отсекается до неё.
func (p *Producer) PublishCartEvent(ctx context.Context, event domain.CartEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := NewCartEventMessage(p.clientID, event)
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(p.clientID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderEventType), Value: []byte(msg.EventType)},
			{Key: []byte(HeaderEventID), Value: []byte(msg.EventID)},
		},
		Timestamp: time.Now(),
	})
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic":      p.topic,
			"event_type": msg.EventType,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":      p.topic,
		"event_type": msg.EventType,
		"partition":  partition,
		"offset":     offset,
	}).Debug("message sent to kafka")
	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ domain.EventPublisher = (*Producer)(nil)
