// Package metrics keeps process-scoped prediction counters for the /metrics endpoint.
package metrics

import (
	"sync"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// Snapshot is a consistent copy of the aggregate
type Snapshot struct {
	TotalPredictions        int64
	PredictionsByRisk       map[domain.RiskLevel]int64
	AverageChurnProbability float64
}

// Aggregator counts predictions by risk level and keeps a running mean of churn probability.
// The total, the per-risk counts and the mean are always updated together.
type Aggregator struct {
	mu      sync.Mutex
	total   int64
	byRisk  map[domain.RiskLevel]int64
	avgProb float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{byRisk: newRiskCounts()}
}

// Record adds one prediction
func (a *Aggregator) Record(risk domain.RiskLevel, probability float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.byRisk[risk]++
	a.avgProb += (probability - a.avgProb) / float64(a.total)
}

// Snapshot returns a copy that is safe to use after the lock is released
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	byRisk := make(map[domain.RiskLevel]int64, len(a.byRisk))
	for risk, count := range a.byRisk {
		byRisk[risk] = count
	}

	return Snapshot{
		TotalPredictions:        a.total,
		PredictionsByRisk:       byRisk,
		AverageChurnProbability: a.avgProb,
	}
}

// Reset clears all counters
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total = 0
	a.byRisk = newRiskCounts()
	a.avgProb = 0
}

func newRiskCounts() map[domain.RiskLevel]int64 {
	counts := make(map[domain.RiskLevel]int64, len(domain.RiskLevels))
	for _, risk := range domain.RiskLevels {
		counts[risk] = 0
	}
	return counts
}
