package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/BarkinBalci/churn-prediction-service/docs"
	"github.com/BarkinBalci/churn-prediction-service/internal/config"
	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
	"github.com/BarkinBalci/churn-prediction-service/internal/middleware"
	"github.com/BarkinBalci/churn-prediction-service/internal/service"
)

// Options configures the admission layer in front of the prediction routes
type Options struct {
	APIKey             config.APIKey
	RateLimiter        middleware.Allower
	CORSAllowedOrigins []string
	TrustedProxies     []string
}

type Handler struct {
	predictionService service.PredictionServicer
	router            *gin.Engine
	log               *zap.Logger
}

func NewHandler(predictionService service.PredictionServicer, opts Options, log *zap.Logger) *Handler {
	h := &Handler{
		predictionService: predictionService,
		router:            gin.New(),
		log:               log,
	}

	// With no trusted proxies ClientIP is the socket peer, so X-Forwarded-For cannot pick a rate limit bucket
	if err := h.router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Error("Invalid trusted proxies, trusting none",
			zap.Strings("trusted_proxies", opts.TrustedProxies),
			zap.Error(err))
		_ = h.router.SetTrustedProxies(nil)
	}

	h.router.Use(
		middleware.RequestLogger(log),
		gin.Recovery(),
		middleware.SecurityHeaders(),
		cors.New(corsConfig(opts.CORSAllowedOrigins)),
	)

	h.registerRoutes(opts, log)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes(opts Options, log *zap.Logger) {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", h.getMetrics)
	h.router.GET("/model-info", h.getModelInfo)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	admission := []gin.HandlerFunc{middleware.APIKey(opts.APIKey, log)}
	if opts.RateLimiter != nil {
		admission = append(admission, middleware.RateLimit(opts.RateLimiter, log))
	}

	protected := h.router.Group("/", admission...)
	protected.POST("/predict", h.predict)
	protected.POST("/predict/batch", h.predictBatch)
	protected.GET("/metrics/history", h.getHistory)
	protected.DELETE("/admin/cache", h.invalidateCache)
	protected.POST("/admin/metrics/reset", h.resetMetrics)

	h.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource does not exist",
		})
	})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.APIKeyHeader},
		ExposeHeaders: []string{"Retry-After"},
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}

	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
