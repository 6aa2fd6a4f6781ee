package config

import (
	"github.com/segmentio/kafka-go"
	"time"
)

// NewKafkaWriter returns a writer for topic, or nil when no brokers are set.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	if len(brokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{}, // Balancer for selecting partition
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond, // events are written one per request
		MaxAttempts:            3,
	}
}
