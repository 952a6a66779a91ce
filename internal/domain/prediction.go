package domain

import (
	"encoding/json"
	"time"
)

// RiskLevel is the ordinal churn-risk bucket derived from a churn probability
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevels lists every bucket in ascending order
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// EncodedVector is the numeric projection of a customer handed to a Predictor.
// Categorical holds the fields the Predictor one-hot expands internally.
type EncodedVector struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Score is the raw Predictor output
type Score struct {
	Decision    float64
	Probability float64
}

// CachedPrediction is the part of a prediction that depends only on the input features
type CachedPrediction struct {
	ChurnPrediction  int       `json:"churn_prediction"`
	ChurnProbability float64   `json:"churn_probability"`
	RiskLevel        RiskLevel `json:"risk_level"`
}

// ModelInfo describes the loaded model and the metrics recorded when it was trained
type ModelInfo struct {
	Name         string
	Version      string
	TrainedAt    string
	TestF1Score  *float64
	TestROCAUC   *float64
	TrainingMeta map[string]interface{}
}

// PredictionRecord is one line of the durable prediction audit log
type PredictionRecord struct {
	RecordID     string          `json:"record_id" ch:"record_id"`
	CustomerID   string          `json:"customer_id" ch:"customer_id"`
	Prediction   int             `json:"prediction" ch:"prediction"`
	Probability  float64         `json:"probability" ch:"probability"`
	RiskLevel    RiskLevel       `json:"risk_level" ch:"risk_level"`
	CacheHit     bool            `json:"cache_hit" ch:"cache_hit"`
	ModelVersion string          `json:"model_version" ch:"model_version"`
	CustomerData json.RawMessage `json:"customer_data" ch:"customer_data"`
	Timestamp    time.Time       `json:"timestamp" ch:"timestamp"`
}
