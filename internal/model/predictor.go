// Package model holds the Predictor capability the serving pipeline scores against
// and the linear artifact implementation shipped with the service.
package model

import (
	"context"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// Predictor scores an encoded customer vector.
// Implementations must be safe for concurrent use.
type Predictor interface {
	// Score returns the continuous decision score and the churn probability
	Score(ctx context.Context, vector domain.EncodedVector) (domain.Score, error)

	// Info describes the loaded model
	Info() domain.ModelInfo
}
