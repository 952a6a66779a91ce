package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/BarkinBalci/churn-prediction-service/internal/audit"
	"github.com/BarkinBalci/churn-prediction-service/internal/cache"
	"github.com/BarkinBalci/churn-prediction-service/internal/classifier"
	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
	"github.com/BarkinBalci/churn-prediction-service/internal/encoder"
	"github.com/BarkinBalci/churn-prediction-service/internal/metrics"
	"github.com/BarkinBalci/churn-prediction-service/internal/model"
	"github.com/BarkinBalci/churn-prediction-service/internal/repository"
)

const (
	customerIDPrefix = "CUST_"
	unknownValue     = "unknown"
	notAvailable     = "N/A"
)

// Options wires the collaborators of a PredictionService.
// A nil Predictor leaves the service running in the unhealthy state.
type Options struct {
	Predictor        model.Predictor
	Threshold        classifier.Threshold
	RiskBands        classifier.RiskBands
	Cache            *cache.Store
	Metrics          *metrics.Aggregator
	Audit            audit.Sink
	History          repository.HistoryReader
	Workers          int64
	PredictorTimeout time.Duration
	BatchConcurrency int
	Version          string
}

// PredictionService represents the serving pipeline behind the HTTP handlers
type PredictionService struct {
	predictor        model.Predictor
	threshold        classifier.Threshold
	bands            classifier.RiskBands
	cache            *cache.Store
	metrics          *metrics.Aggregator
	audit            audit.Sink
	history          repository.HistoryReader
	workers          *semaphore.Weighted
	predictorTimeout time.Duration
	batchConcurrency int
	version          string
	log              *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewPredictionService creates a new prediction service
func NewPredictionService(opts Options, log *zap.Logger) *PredictionService {
	if opts.Cache == nil {
		opts.Cache = cache.NewDisabledStore(log)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewAggregator()
	}
	if opts.Audit == nil {
		opts.Audit = audit.NopSink{}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = 1
	}
	if opts.RiskBands == (classifier.RiskBands{}) {
		opts.RiskBands = classifier.DefaultRiskBands()
	}

	return &PredictionService{
		predictor:        opts.Predictor,
		threshold:        opts.Threshold,
		bands:            opts.RiskBands,
		cache:            opts.Cache,
		metrics:          opts.Metrics,
		audit:            opts.Audit,
		history:          opts.History,
		workers:          semaphore.NewWeighted(opts.Workers),
		predictorTimeout: opts.PredictorTimeout,
		batchConcurrency: opts.BatchConcurrency,
		version:          opts.Version,
		log:              log,
		now:              time.Now,
		newID:            func() string { return uuid.NewString() },
	}
}

type outcome struct {
	response *dto.PredictionResponse
	err      error
}

// Predict scores one customer.
// The pipeline runs detached from ctx: if the caller goes away the prediction is still cached, counted and audited.
func (s *PredictionService) Predict(ctx context.Context, features *dto.CustomerFeatures) (*dto.PredictionResponse, error) {
	if err := ValidateFeatures(features); err != nil {
		return nil, err
	}

	if s.predictor == nil {
		return nil, ErrModelUnavailable
	}

	done := make(chan outcome, 1)
	go func() {
		resp, err := s.serve(context.WithoutCancel(ctx), features)
		done <- outcome{response: resp, err: err}
	}()

	select {
	case o := <-done:
		return o.response, o.err
	case <-ctx.Done():
		s.log.Warn("Client went away before prediction completed", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	}
}

// PredictBatch scores every item with bounded concurrency. Results keep input order
// and one failing item never affects the others.
func (s *PredictionService) PredictBatch(ctx context.Context, items []*dto.CustomerFeatures) ([]BatchResult, error) {
	if s.predictor == nil {
		return nil, ErrModelUnavailable
	}

	results := make([]BatchResult, len(items))

	g := new(errgroup.Group)
	g.SetLimit(s.batchConcurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			resp, err := s.Predict(ctx, item)
			results[i] = BatchResult{Response: resp, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *PredictionService) serve(ctx context.Context, features *dto.CustomerFeatures) (*dto.PredictionResponse, error) {
	if cached, ok := s.cache.Get(ctx, features); ok {
		return s.respond(ctx, features, *cached, true), nil
	}

	vector := encoder.Encode(features)

	score, err := s.score(ctx, vector)
	if err != nil {
		s.log.Error("Predictor failed", zap.Error(err))
		return nil, ErrPredictionFailed
	}

	result := domain.CachedPrediction{
		ChurnPrediction:  s.threshold.Classify(score.Decision),
		ChurnProbability: score.Probability,
		RiskLevel:        s.bands.Classify(score.Probability),
	}

	s.cache.Put(ctx, features, result)

	return s.respond(ctx, features, result, false), nil
}

// score runs the predictor on the bounded worker pool
func (s *PredictionService) score(ctx context.Context, vector domain.EncodedVector) (domain.Score, error) {
	if s.predictorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.predictorTimeout)
		defer cancel()
	}

	if err := s.workers.Acquire(ctx, 1); err != nil {
		return domain.Score{}, fmt.Errorf("failed to acquire predictor worker: %w", err)
	}
	defer s.workers.Release(1)

	return s.callPredictor(ctx, vector)
}

func (s *PredictionService) callPredictor(ctx context.Context, vector domain.EncodedVector) (score domain.Score, err error) {
	defer func() {
		if r := recover(); r != nil {
			score = domain.Score{}
			err = fmt.Errorf("predictor panicked: %v", r)
		}
	}()

	score, err = s.predictor.Score(ctx, vector)
	if err != nil {
		return domain.Score{}, fmt.Errorf("failed to score customer: %w", err)
	}

	if math.IsNaN(score.Decision) || math.IsNaN(score.Probability) || score.Probability < 0 || score.Probability > 1 {
		return domain.Score{}, fmt.Errorf("predictor returned invalid score: decision=%v probability=%v", score.Decision, score.Probability)
	}
	return score, nil
}

// respond records the prediction and builds the response with a fresh customer id and timestamp
func (s *PredictionService) respond(ctx context.Context, features *dto.CustomerFeatures, result domain.CachedPrediction, cacheHit bool) *dto.PredictionResponse {
	s.metrics.Record(result.RiskLevel, result.ChurnProbability)

	now := s.now().UTC()
	customerID := customerIDPrefix + s.newID()

	s.recordAudit(ctx, features, customerID, result, cacheHit, now)

	return &dto.PredictionResponse{
		CustomerID:       customerID,
		ChurnPrediction:  result.ChurnPrediction,
		ChurnProbability: result.ChurnProbability,
		RiskLevel:        string(result.RiskLevel),
		Timestamp:        now.Format(time.RFC3339),
	}
}

func (s *PredictionService) recordAudit(ctx context.Context, features *dto.CustomerFeatures, customerID string, result domain.CachedPrediction, cacheHit bool, at time.Time) {
	customerData, err := json.Marshal(features)
	if err != nil {
		s.log.Error("Failed to marshal customer data for audit", zap.Error(err))
		customerData = nil
	}

	record := &domain.PredictionRecord{
		RecordID:     s.newID(),
		CustomerID:   customerID,
		Prediction:   result.ChurnPrediction,
		Probability:  result.ChurnProbability,
		RiskLevel:    result.RiskLevel,
		CacheHit:     cacheHit,
		ModelVersion: s.predictor.Info().Version,
		CustomerData: customerData,
		Timestamp:    at,
	}

	if err := s.audit.Record(ctx, record); err != nil {
		s.log.Warn("Failed to write prediction audit record",
			zap.String("record_id", record.RecordID),
			zap.Error(err))
	}
}

// ValidateFeatures checks the binding rules and the numeric constraints the tags cannot express
func ValidateFeatures(features *dto.CustomerFeatures) error {
	if features == nil {
		return newValidationError("", "customer features are required")
	}

	if err := binding.Validator.ValidateStruct(features); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return newValidationError(fe.Field(), "failed on the '%s' rule", fe.Tag())
		}
		return newValidationError("", "%s", err.Error())
	}

	if features.TotalCharges.LessThan(decimal.Zero) {
		return newValidationError("TotalCharges", "must be non-negative, got %s", features.TotalCharges.String())
	}
	if math.IsNaN(*features.MonthlyCharges) || math.IsInf(*features.MonthlyCharges, 0) {
		return newValidationError("MonthlyCharges", "must be a finite number")
	}

	return nil
}

// Health reports whether the service can serve predictions
func (s *PredictionService) Health(_ context.Context) dto.HealthResponse {
	status := "healthy"
	if s.predictor == nil {
		status = "unhealthy"
	}

	return dto.HealthResponse{
		Status:      status,
		ModelLoaded: s.predictor != nil,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Version:     s.version,
	}
}

// Metrics returns the in-memory aggregate with model and cache details
func (s *PredictionService) Metrics() dto.MetricsResponse {
	snap := s.metrics.Snapshot()

	byRisk := make(map[string]int64, len(snap.PredictionsByRisk))
	for risk, count := range snap.PredictionsByRisk {
		byRisk[string(risk)] = count
	}

	stats := s.cache.Stats()

	return dto.MetricsResponse{
		TotalPredictions:        snap.TotalPredictions,
		PredictionsByRisk:       byRisk,
		AverageChurnProbability: snap.AverageChurnProbability,
		ModelInfo:               s.modelSummary(),
		Cache: dto.CacheStatsResponse{
			Enabled: stats.Enabled,
			Backend: stats.Backend,
			Hits:    stats.Hits,
			Misses:  stats.Misses,
			Errors:  stats.Errors,
			HitRate: stats.HitRate(),
		},
	}
}

func (s *PredictionService) modelSummary() map[string]string {
	summary := map[string]string{
		"model_name":    unknownValue,
		"training_date": unknownValue,
		"test_f1_score": notAvailable,
		"test_roc_auc":  notAvailable,
	}
	if s.predictor == nil {
		return summary
	}

	info := s.predictor.Info()
	if info.Name != "" {
		summary["model_name"] = info.Name
	}
	if info.TrainedAt != "" {
		summary["training_date"] = info.TrainedAt
	}
	if info.TestF1Score != nil {
		summary["test_f1_score"] = fmt.Sprintf("%v", *info.TestF1Score)
	}
	if info.TestROCAUC != nil {
		summary["test_roc_auc"] = fmt.Sprintf("%v", *info.TestROCAUC)
	}
	return summary
}

// ModelInfo returns the training metrics recorded with the model
func (s *PredictionService) ModelInfo() (map[string]interface{}, error) {
	if s.predictor == nil {
		return nil, ErrModelInfoUnavailable
	}

	meta := s.predictor.Info().TrainingMeta
	if len(meta) == 0 {
		return nil, ErrModelInfoUnavailable
	}
	return meta, nil
}

// InvalidateCache removes every cached prediction
func (s *PredictionService) InvalidateCache(ctx context.Context) (int, error) {
	removed, err := s.cache.InvalidateAll(ctx)
	if err != nil {
		return removed, fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return removed, nil
}

// ResetMetrics clears the in-memory aggregate
func (s *PredictionService) ResetMetrics() {
	s.metrics.Reset()
	s.log.Info("Prediction metrics reset")
}
