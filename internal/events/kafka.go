// Package events publishes interaction events to the platform's Kafka bus,
// where the interaction-history consumer persists them.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// searchEvent is the wire form of a "search performed" interaction.
type searchEvent struct {
	UserID          string    `json:"user_id"`
	InteractionType string    `json:"interaction_type"`
	Query           string    `json:"query"`
	ResultsCount    int       `json:"results_count"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// KafkaSink publishes interaction events to a Kafka topic.
type KafkaSink struct {
	writer *kafka.Writer
	mu     sync.Mutex
	closed bool
}

// NewKafkaSink creates a sink writing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Compression:  kafka.Gzip,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaSink{writer: writer}
}

// RecordSearch publishes a search interaction keyed by user so one user's
// events stay ordered within a partition.
func (s *KafkaSink) RecordSearch(ctx context.Context, userID, query string, resultCount int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	s.mu.Unlock()

	payload, err := json.Marshal(searchEvent{
		UserID:          userID,
		InteractionType: "search",
		Query:           query,
		ResultsCount:    resultCount,
		OccurredAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: payload,
	})
}

// Close closes the underlying writer.
func (s *KafkaSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.writer.Close()
}
