package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
	"github.com/BarkinBalci/churn-prediction-service/internal/repository"
)

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// BatchWriter batches prediction records and writes them to the warehouse
type BatchWriter struct {
	repository repository.PredictionRepository
	config     BatchWriterConfig
	log        *zap.Logger
}

// NewBatchWriter creates a new batch writer
func NewBatchWriter(repo repository.PredictionRepository, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	return &BatchWriter{
		repository: repo,
		config:     config,
		log:        log,
	}
}

// Start begins processing envelopes, batching, and writing to the repository.
// Pending envelopes are flushed with a fresh context once ctx ends.
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope, 0, w.config.MaxBatchSize)

	flushFinal := func() {
		if len(batch) == 0 {
			return
		}
		w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
		w.processBatch(context.WithoutCancel(ctx), batch)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			flushFinal()
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				flushFinal()
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.log.Debug("Batch size threshold reached", zap.Int("batch_size", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Debug("Batch timeout reached", zap.Int("envelope_count", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// processBatch inserts the records and acks on full success, nacks otherwise
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*Envelope) {
	if len(envelopes) == 0 {
		return
	}

	records := make([]*domain.PredictionRecord, len(envelopes))
	for i, env := range envelopes {
		records[i] = env.Record
	}

	insertedCount, err := w.repository.InsertBatch(ctx, records)
	if err != nil {
		w.log.Error("Failed to insert prediction batch",
			zap.Error(err),
			zap.Int("record_count", len(records)))
		w.nackAll(ctx, envelopes)
		return
	}

	if insertedCount != len(records) {
		w.log.Warn("Partial insert success",
			zap.Int("inserted", insertedCount),
			zap.Int("expected", len(records)))
		w.nackAll(ctx, envelopes)
		return
	}

	w.log.Info("Inserted prediction records", zap.Int("count", insertedCount))
	w.ackAll(ctx, envelopes)
}

func (w *BatchWriter) ackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", zap.String("record_id", env.Record.RecordID), zap.Error(err))
		}
	}
}

func (w *BatchWriter) nackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope", zap.String("record_id", env.Record.RecordID), zap.Error(err))
		}
	}
}
