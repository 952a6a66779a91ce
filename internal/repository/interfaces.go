package repository

import (
	"context"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// HistoryQuery represents prediction history query parameters
type HistoryQuery struct {
	From    int64
	To      int64
	GroupBy string
}

// HistoryGroupResult represents aggregated predictions for a specific group
type HistoryGroupResult struct {
	GroupValue         string
	TotalCount         uint64
	AverageProbability float64
}

// HistoryResult represents the result of a history query
type HistoryResult struct {
	TotalCount         uint64
	AverageProbability float64
	Groups             []HistoryGroupResult
}

// HistoryReader answers aggregate queries over audited predictions
type HistoryReader interface {
	// GetHistory retrieves aggregated predictions based on the query
	GetHistory(ctx context.Context, query HistoryQuery) (*HistoryResult, error)
}

// PredictionRepository defines the interface for prediction audit storage operations
type PredictionRepository interface {
	HistoryReader

	// InsertBatch inserts a batch of prediction records into the storage
	InsertBatch(ctx context.Context, records []*domain.PredictionRecord) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
