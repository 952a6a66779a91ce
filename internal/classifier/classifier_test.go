package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

func TestThreshold_Classify(t *testing.T) {
	th := NewThreshold(DefaultDecisionThreshold)

	assert.Equal(t, 0, th.Classify(-1.5))
	assert.Equal(t, 0, th.Classify(0.0), "score equal to the cut point is not churn")
	assert.Equal(t, 1, th.Classify(0.0001))
	assert.Equal(t, 1, th.Classify(3.2))
}

func TestThreshold_Monotonic(t *testing.T) {
	for _, cutoff := range []float64{-1, -0.25, 0, 0.4, 2} {
		th := NewThreshold(cutoff)
		for s1 := -3.0; s1 <= 3.0; s1 += 0.125 {
			if th.Classify(s1) != 1 {
				continue
			}
			for s2 := s1; s2 <= 3.5; s2 += 0.0625 {
				assert.Equal(t, 1, th.Classify(s2), "cutoff=%v s1=%v s2=%v", cutoff, s1, s2)
			}
		}
	}
}

func TestRiskBands_BoundaryExactness(t *testing.T) {
	bands := DefaultRiskBands()

	assert.Equal(t, domain.RiskLow, bands.Classify(0))
	assert.Equal(t, domain.RiskLow, bands.Classify(math.Nextafter(0.3, 0)))
	assert.Equal(t, domain.RiskLow, bands.Classify(0.2999999))
	assert.Equal(t, domain.RiskMedium, bands.Classify(0.3))
	assert.Equal(t, domain.RiskMedium, bands.Classify(0.5999999))
	assert.Equal(t, domain.RiskMedium, bands.Classify(math.Nextafter(0.6, 0)))
	assert.Equal(t, domain.RiskHigh, bands.Classify(0.6))
	assert.Equal(t, domain.RiskHigh, bands.Classify(1))
}

func TestNewRiskBands(t *testing.T) {
	bands, err := NewRiskBands(0.2, 0.8)
	assert.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, bands.Classify(0.5))
	assert.Equal(t, domain.RiskHigh, bands.Classify(0.8))

	_, err = NewRiskBands(0.6, 0.3)
	assert.Error(t, err)

	_, err = NewRiskBands(0.3, 1.2)
	assert.Error(t, err)
}
