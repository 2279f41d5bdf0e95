package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/models"

	"github.com/IBM/sarama"
)

type ProducerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg *config.Config) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	// Ключ по бизнесу держит события одного бизнеса в одной партиции
	config.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Println("Kafka producer created successfully")
	return NewProducerWithClient(producer, cfg.Kafka.TransactionTopic), nil
}

func NewProducerWithClient(producer sarama.SyncProducer, topic string) *ProducerImpl {
	return &ProducerImpl{producer: producer, topic: topic}
}

func (p *ProducerImpl) SendTransactionEvent(ctx context.Context, event *models.TransactionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.BusinessID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	log.Printf("Message sent to topic %s, partition %d, offset %d", p.topic, partition, offset)
	return nil
}

func (p *ProducerImpl) Close() error {
	return p.producer.Close()
}
