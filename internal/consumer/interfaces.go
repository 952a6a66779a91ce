package consumer

import (
	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into prediction records
type MessageParser interface {
	Parse(body []byte) (*domain.PredictionRecord, error)
}
