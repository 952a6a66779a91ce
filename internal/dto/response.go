package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"TotalCharges must be a valid number"`
}

// PredictionResponse represents a single churn prediction
type PredictionResponse struct {
	CustomerID       string  `json:"customer_id" example:"CUST_9b2f1c1e-4f7d-4a8e-9f3a-2b6c1d0e5a77"`
	ChurnPrediction  int     `json:"churn_prediction" example:"1"`
	ChurnProbability float64 `json:"churn_probability" example:"0.73"`
	RiskLevel        string  `json:"risk_level" example:"high"`
	Timestamp        string  `json:"timestamp" example:"2026-10-16T12:00:00Z"`
}

// BatchPredictionItem is the outcome of one entry of a batch request
type BatchPredictionItem struct {
	Index  int                 `json:"index" example:"0"`
	Status string              `json:"status" example:"ok"`
	Result *PredictionResponse `json:"result,omitempty"`
	Error  *ErrorResponse      `json:"error,omitempty"`
}

// BatchPredictionResponse represents the batch prediction response
type BatchPredictionResponse struct {
	Predictions []BatchPredictionItem `json:"predictions"`
	Total       int                   `json:"total" example:"2"`
	Successful  int                   `json:"successful" example:"1"`
	Failed      int                   `json:"failed" example:"1"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	ModelLoaded bool   `json:"model_loaded" example:"true"`
	Timestamp   string `json:"timestamp" example:"2026-10-16T12:00:00Z"`
	Version     string `json:"version" example:"1.0.0"`
}

// CacheStatsResponse represents prediction cache statistics
type CacheStatsResponse struct {
	Enabled bool    `json:"enabled" example:"true"`
	Backend string  `json:"backend,omitempty" example:"redis"`
	Hits    uint64  `json:"hits" example:"42"`
	Misses  uint64  `json:"misses" example:"10"`
	Errors  uint64  `json:"errors" example:"0"`
	HitRate float64 `json:"hit_rate" example:"0.81"`
}

// MetricsResponse represents the in-memory serving metrics
type MetricsResponse struct {
	TotalPredictions        int64              `json:"total_predictions" example:"52"`
	PredictionsByRisk       map[string]int64   `json:"predictions_by_risk"`
	AverageChurnProbability float64            `json:"average_churn_probability" example:"0.41"`
	ModelInfo               map[string]string  `json:"model_info"`
	Cache                   CacheStatsResponse `json:"cache"`
}

// InvalidateCacheResponse represents the result of a cache flush
type InvalidateCacheResponse struct {
	Removed int `json:"removed" example:"128"`
}

// HistoryGroupData represents aggregated predictions for a specific group
type HistoryGroupData struct {
	GroupValue         string  `json:"group_value" example:"high"`
	TotalCount         uint64  `json:"total_count" example:"1500"`
	AverageProbability float64 `json:"average_probability" example:"0.74"`
}

// GetHistoryResponse represents the prediction history query response
type GetHistoryResponse struct {
	From               int64              `json:"from" example:"1723475612"`
	To                 int64              `json:"to" example:"1723562012"`
	TotalCount         uint64             `json:"total_count" example:"5000"`
	AverageProbability float64            `json:"average_probability" example:"0.38"`
	GroupBy            string             `json:"group_by,omitempty" example:"risk_level"`
	Groups             []HistoryGroupData `json:"groups,omitempty"`
}

// ResetMetricsResponse represents the result of an operator metrics reset
type ResetMetricsResponse struct {
	Status string `json:"status" example:"reset"`
}
