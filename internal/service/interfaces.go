package service

import (
	"context"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

// PredictionServicer defines the interface for prediction service operations
type PredictionServicer interface {
	Predict(ctx context.Context, features *dto.CustomerFeatures) (*dto.PredictionResponse, error)
	PredictBatch(ctx context.Context, items []*dto.CustomerFeatures) ([]BatchResult, error)
	Health(ctx context.Context) dto.HealthResponse
	Metrics() dto.MetricsResponse
	ModelInfo() (map[string]interface{}, error)
	InvalidateCache(ctx context.Context) (int, error)
	ResetMetrics()
	PredictionHistory(ctx context.Context, req *dto.GetHistoryRequest) (*dto.GetHistoryResponse, error)
}

// BatchResult is the outcome of one batch entry; exactly one of Response and Err is set
type BatchResult struct {
	Response *dto.PredictionResponse
	Err      error
}
