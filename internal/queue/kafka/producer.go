package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// MessageWriter is the subset of kafka.Writer used by the producer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer sends prediction audit records to Kafka
type Producer struct {
	writer MessageWriter
	log    *zap.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	log.Info("Kafka producer created",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic))

	return NewProducerWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}, log)
}

// NewProducerWithWriter wraps an existing writer
func NewProducerWithWriter(writer MessageWriter, log *zap.Logger) *Producer {
	return &Producer{writer: writer, log: log}
}

// PublishPrediction sends a record keyed by customer id
func (p *Producer) PublishPrediction(ctx context.Context, record *domain.PredictionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction record: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(record.CustomerID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "risk_level", Value: []byte(record.RiskLevel)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to write message to Kafka",
			zap.String("record_id", record.RecordID),
			zap.Error(err))
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.log.Debug("Prediction record published to Kafka", zap.String("record_id", record.RecordID))
	return nil
}

// Close flushes and closes the writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
