// Package events publishes conversion outcomes to Kafka for downstream
// consumers (analytics, abuse monitoring). Publishing is best effort; a
// broker outage never fails a conversion.
package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"yttmp3/config"
	"yttmp3/types"
)

// Producer publishes ConversionEvent messages to the conversions topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects a sync producer to the given brokers.
func NewProducer(brokers []string) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    config.ConversionsTopic,
	}, nil
}

// Publish sends a conversion event keyed by video ID.
func (p *Producer) Publish(event types.ConversionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.VideoID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}

	log.Printf("Published conversion event for %s (partition=%d offset=%d)", event.VideoID, partition, offset)
	return nil
}

// Close shuts down the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
