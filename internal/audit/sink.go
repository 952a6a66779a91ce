// Package audit persists one record per served prediction.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
	"github.com/BarkinBalci/churn-prediction-service/internal/queue"
)

// Sink receives prediction audit records
type Sink interface {
	Record(ctx context.Context, record *domain.PredictionRecord) error
	Close() error
}

// NopSink discards every record
type NopSink struct{}

func (NopSink) Record(context.Context, *domain.PredictionRecord) error { return nil }
func (NopSink) Close() error { return nil }

// MultiSink writes each record to every sink, continuing past failures
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Record(ctx context.Context, record *domain.PredictionRecord) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Record(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// QueueSink forwards records to a queue for the warehouse consumer
type QueueSink struct {
	publisher queue.PredictionPublisher
	timeout   time.Duration
}

func NewQueueSink(publisher queue.PredictionPublisher, timeout time.Duration) *QueueSink {
	return &QueueSink{publisher: publisher, timeout: timeout}
}

func (q *QueueSink) Record(ctx context.Context, record *domain.PredictionRecord) error {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	return q.publisher.PublishPrediction(ctx, record)
}

func (q *QueueSink) Close() error {
	return q.publisher.Close()
}
