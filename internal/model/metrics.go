package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// LoadTrainingMetrics reads the JSON metrics file written by the training job.
// The file is read-only to the service.
func LoadTrainingMetrics(path string) (domain.ModelInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ModelInfo{}, fmt.Errorf("failed to read model metrics: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ModelInfo{}, fmt.Errorf("failed to parse model metrics: %w", err)
	}

	info := domain.ModelInfo{
		Name:         stringField(raw, "model_name"),
		Version:      stringField(raw, "model_version"),
		TrainedAt:    stringField(raw, "timestamp"),
		TestF1Score:  floatField(raw, "test_f1_score"),
		TestROCAUC:   floatField(raw, "test_roc_auc"),
		TrainingMeta: raw,
	}

	return info, nil
}

func stringField(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

func floatField(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key].(float64); ok {
		return &val
	}
	return nil
}
