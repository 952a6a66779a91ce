package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/docs"
	"github.com/BarkinBalci/churn-prediction-service/internal/audit"
	"github.com/BarkinBalci/churn-prediction-service/internal/cache"
	"github.com/BarkinBalci/churn-prediction-service/internal/classifier"
	"github.com/BarkinBalci/churn-prediction-service/internal/config"
	"github.com/BarkinBalci/churn-prediction-service/internal/handler"
	"github.com/BarkinBalci/churn-prediction-service/internal/logger"
	"github.com/BarkinBalci/churn-prediction-service/internal/metrics"
	"github.com/BarkinBalci/churn-prediction-service/internal/model"
	"github.com/BarkinBalci/churn-prediction-service/internal/queue"
	"github.com/BarkinBalci/churn-prediction-service/internal/queue/kafka"
	"github.com/BarkinBalci/churn-prediction-service/internal/queue/sqs"
	"github.com/BarkinBalci/churn-prediction-service/internal/ratelimit"
	"github.com/BarkinBalci/churn-prediction-service/internal/repository"
	"github.com/BarkinBalci/churn-prediction-service/internal/repository/clickhouse"
	"github.com/BarkinBalci/churn-prediction-service/internal/service"
)

const (
	shutdownTimeout   = 15 * time.Second
	limiterSweepEvery = time.Minute
	memoryCacheSweep  = time.Minute
)

// @title Churn Prediction Service API
// @version 1.0
// @description Customer churn prediction serving API
// @host localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting churn prediction API",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("version", cfg.Service.Version))

	docs.SwaggerInfo.Host = cfg.Service.Host
	docs.SwaggerInfo.Version = cfg.Service.Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	threshold := classifier.NewThreshold(cfg.Model.DecisionThreshold)
	bands, err := classifier.NewRiskBands(cfg.Model.RiskMediumCutoff, cfg.Model.RiskHighCutoff)
	if err != nil {
		log.Fatal("Invalid risk bands", zap.Error(err))
	}

	store := newCacheStore(ctx, cfg.Cache, log)
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close cache", zap.Error(err))
		}
	}()

	sink := newAuditSink(ctx, cfg, log)
	defer func() {
		if err := sink.Close(); err != nil {
			log.Error("Failed to close audit sink", zap.Error(err))
		}
	}()

	history, closeHistory := newHistoryReader(ctx, &cfg.ClickHouse, log)
	defer closeHistory()

	predictionService := service.NewPredictionService(service.Options{
		Predictor:        loadPredictor(cfg.Model, log),
		Threshold:        threshold,
		RiskBands:        bands,
		Cache:            store,
		Metrics:          metrics.NewAggregator(),
		Audit:            sink,
		History:          history,
		Workers:          cfg.Model.PredictorWorkers,
		PredictorTimeout: cfg.Model.PredictorTimeout,
		BatchConcurrency: cfg.Model.BatchConcurrency,
		Version:          cfg.Service.Version,
	}, log)

	opts := handler.Options{
		APIKey:             cfg.APIKey,
		CORSAllowedOrigins: cfg.Service.CORSAllowedOrigins,
		TrustedProxies:     cfg.Service.TrustedProxies,
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL, log)
		go limiter.Run(ctx, limiterSweepEvery)
		opts.RateLimiter = limiter
	}
	if cfg.APIKey.Enabled && cfg.APIKey.Value == "" {
		log.Warn("API key authentication enabled without a configured key; protected routes will fail")
	}

	h := handler.NewHandler(predictionService, opts, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("API server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("Shutting down API server gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server", zap.Error(err))
	}
}

// loadPredictor loads the model artifact and its training metrics.
// A load failure returns a nil Predictor so the service starts unhealthy.
func loadPredictor(cfg config.Model, log *zap.Logger) model.Predictor {
	predictor, err := model.LoadLinearPredictor(cfg.Path)
	if err != nil {
		log.Error("Failed to load model, serving in unhealthy state",
			zap.String("path", cfg.Path),
			zap.Error(err))
		return nil
	}

	info, err := model.LoadTrainingMetrics(cfg.MetricsPath)
	if err != nil {
		log.Warn("Model metrics unavailable", zap.String("path", cfg.MetricsPath), zap.Error(err))
	} else {
		predictor = predictor.WithTrainingMetrics(info)
	}

	log.Info("Model loaded",
		zap.String("name", predictor.Info().Name),
		zap.String("version", predictor.Info().Version))
	return predictor
}

func newCacheStore(ctx context.Context, cfg config.Cache, log *zap.Logger) *cache.Store {
	if !cfg.Enabled {
		log.Info("Prediction cache disabled")
		return cache.NewDisabledStore(log)
	}

	var backend cache.Backend
	switch cfg.Backend {
	case "memory":
		backend = cache.NewMemoryBackend(cfg.MaxEntries, memoryCacheSweep)
	default:
		backend = cache.NewRedisBackend(cache.RedisOptions{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
			Timeout:  cfg.Timeout,
		})
	}

	store := cache.NewStore(backend, cfg.TTL, cfg.Timeout, log)
	if err := store.Ping(ctx); err != nil {
		log.Warn("Cache backend unreachable, predictions will fall back to the model",
			zap.String("backend", backend.Name()),
			zap.Error(err))
	} else {
		log.Info("Prediction cache ready", zap.String("backend", backend.Name()), zap.Duration("ttl", cfg.TTL))
	}
	return store
}

func newAuditSink(ctx context.Context, cfg *config.Config, log *zap.Logger) audit.Sink {
	var sinks []audit.Sink

	fileSink, err := audit.NewFileSink(cfg.Audit.LogPath)
	if err != nil {
		log.Error("Failed to open audit log, file auditing disabled",
			zap.String("path", cfg.Audit.LogPath),
			zap.Error(err))
	} else {
		sinks = append(sinks, fileSink)
	}

	var publisher queue.PredictionPublisher
	switch cfg.Audit.Transport {
	case "sqs":
		client, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Error("Failed to create SQS client, queue auditing disabled", zap.Error(err))
		} else {
			publisher = client
		}
	case "kafka":
		publisher = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	}
	if publisher != nil {
		log.Info("Publishing audited predictions", zap.String("transport", cfg.Audit.Transport))
		sinks = append(sinks, audit.NewQueueSink(publisher, cfg.Audit.Timeout))
	}

	if len(sinks) == 0 {
		return audit.NopSink{}
	}
	return audit.NewMultiSink(sinks...)
}

// newHistoryReader connects to the warehouse when one is configured
func newHistoryReader(ctx context.Context, cfg *config.ClickHouse, log *zap.Logger) (repository.HistoryReader, func()) {
	if !cfg.Enabled() {
		log.Info("ClickHouse not configured, prediction history disabled")
		return nil, func() {}
	}

	client, err := clickhouse.NewClient(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to ClickHouse, prediction history disabled", zap.Error(err))
		return nil, func() {}
	}

	return clickhouse.NewRepository(client, log), func() {
		if err := client.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}
}
