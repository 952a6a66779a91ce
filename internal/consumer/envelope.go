package consumer

import (
	"context"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// Envelope wraps a prediction record with acknowledgment callbacks
type Envelope struct {
	Record *domain.PredictionRecord
	ack    func(context.Context) error
	nack   func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(record *domain.PredictionRecord, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Record: record,
		ack:    ack,
		nack:   nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack returns the message to the queue for redelivery
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
