package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// JSONRecordParser implements MessageParser for JSON-formatted prediction records
type JSONRecordParser struct{}

// NewJSONRecordParser creates a new JSON record parser
func NewJSONRecordParser() *JSONRecordParser {
	return &JSONRecordParser{}
}

// Parse parses a JSON message body into a PredictionRecord and rejects records the warehouse cannot store
func (p *JSONRecordParser) Parse(body []byte) (*domain.PredictionRecord, error) {
	var record domain.PredictionRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if record.RecordID == "" {
		return nil, fmt.Errorf("record_id is required")
	}
	if record.Timestamp.IsZero() {
		return nil, fmt.Errorf("timestamp is required")
	}
	if record.Prediction != 0 && record.Prediction != 1 {
		return nil, fmt.Errorf("prediction must be 0 or 1, got %d", record.Prediction)
	}
	if record.Probability < 0 || record.Probability > 1 {
		return nil, fmt.Errorf("probability out of range: %v", record.Probability)
	}
	if !isRiskLevel(record.RiskLevel) {
		return nil, fmt.Errorf("unknown risk_level: %q", record.RiskLevel)
	}

	return &record, nil
}

func isRiskLevel(level domain.RiskLevel) bool {
	for _, known := range domain.RiskLevels {
		if level == known {
			return true
		}
	}
	return false
}
