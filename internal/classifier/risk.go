package classifier

import (
	"fmt"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

const (
	DefaultMediumCutoff = 0.30
	DefaultHighCutoff   = 0.60
)

// RiskBands maps a churn probability onto low/medium/high with half-open intervals:
// [0, Medium) low, [Medium, High) medium, [High, 1] high.
type RiskBands struct {
	Medium float64
	High   float64
}

// DefaultRiskBands returns the policy cut points used when none are configured
func DefaultRiskBands() RiskBands {
	return RiskBands{Medium: DefaultMediumCutoff, High: DefaultHighCutoff}
}

// NewRiskBands validates and builds a risk classifier
func NewRiskBands(medium, high float64) (RiskBands, error) {
	if medium < 0 || high > 1 || medium >= high {
		return RiskBands{}, fmt.Errorf("invalid risk cut points: medium=%v high=%v", medium, high)
	}
	return RiskBands{Medium: medium, High: high}, nil
}

// Classify returns the risk bucket for probability
func (b RiskBands) Classify(probability float64) domain.RiskLevel {
	switch {
	case probability < b.Medium:
		return domain.RiskLow
	case probability < b.High:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}
