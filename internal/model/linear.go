package model

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

// NumericWeight is a standardized coefficient: weight * (x - mean) / scale
type NumericWeight struct {
	Weight float64 `yaml:"weight"`
	Mean   float64 `yaml:"mean"`
	Scale  float64 `yaml:"scale"`
}

// Artifact is the exported form of a fitted logistic model
type Artifact struct {
	Name        string                        `yaml:"name"`
	Version     string                        `yaml:"version"`
	TrainedAt   string                        `yaml:"trained_at"`
	Intercept   float64                       `yaml:"intercept"`
	Numeric     map[string]NumericWeight      `yaml:"numeric"`
	Categorical map[string]map[string]float64 `yaml:"categorical"`
}

// LinearPredictor scores vectors with a logistic model.
// Categorical fields are one-hot expanded; categories unseen at training time contribute nothing.
// Terms are summed in sorted feature order so repeated scores are bit-identical.
type LinearPredictor struct {
	artifact         Artifact
	numericOrder     []string
	categoricalOrder []string
	info             domain.ModelInfo
}

// LoadLinearPredictor reads a YAML model artifact from path
func LoadLinearPredictor(path string) (*LinearPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	return NewLinearPredictor(artifact)
}

// NewLinearPredictor validates an artifact and builds a predictor from it
func NewLinearPredictor(artifact Artifact) (*LinearPredictor, error) {
	if artifact.Name == "" {
		return nil, fmt.Errorf("model artifact has no name")
	}
	if len(artifact.Numeric) == 0 && len(artifact.Categorical) == 0 {
		return nil, fmt.Errorf("model artifact %s has no coefficients", artifact.Name)
	}

	order := make([]string, 0, len(artifact.Numeric))
	for name, w := range artifact.Numeric {
		if w.Scale == 0 {
			w.Scale = 1
			artifact.Numeric[name] = w
		}
		order = append(order, name)
	}
	sort.Strings(order)

	categorical := make([]string, 0, len(artifact.Categorical))
	for field := range artifact.Categorical {
		categorical = append(categorical, field)
	}
	sort.Strings(categorical)

	return &LinearPredictor{
		artifact:         artifact,
		numericOrder:     order,
		categoricalOrder: categorical,
		info: domain.ModelInfo{
			Name:      artifact.Name,
			Version:   artifact.Version,
			TrainedAt: artifact.TrainedAt,
		},
	}, nil
}

// Score implements Predictor
func (p *LinearPredictor) Score(ctx context.Context, vector domain.EncodedVector) (domain.Score, error) {
	if err := ctx.Err(); err != nil {
		return domain.Score{}, err
	}

	decision := p.artifact.Intercept

	for _, name := range p.numericOrder {
		x, ok := vector.Numeric[name]
		if !ok {
			return domain.Score{}, fmt.Errorf("missing numeric feature %q", name)
		}
		w := p.artifact.Numeric[name]
		decision += w.Weight * (x - w.Mean) / w.Scale
	}

	for _, field := range p.categoricalOrder {
		value, ok := vector.Categorical[field]
		if !ok {
			return domain.Score{}, fmt.Errorf("missing categorical feature %q", field)
		}
		decision += p.artifact.Categorical[field][value]
	}

	return domain.Score{
		Decision:    decision,
		Probability: sigmoid(decision),
	}, nil
}

// Info implements Predictor
func (p *LinearPredictor) Info() domain.ModelInfo {
	return p.info
}

// WithTrainingMetrics attaches the metrics recorded at training time
func (p *LinearPredictor) WithTrainingMetrics(info domain.ModelInfo) *LinearPredictor {
	merged := info
	if merged.Name == "" {
		merged.Name = p.info.Name
	}
	if merged.Version == "" {
		merged.Version = p.info.Version
	}
	if merged.TrainedAt == "" {
		merged.TrainedAt = p.info.TrainedAt
	}
	p.info = merged
	return p
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
