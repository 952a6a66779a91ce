package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

// healthCheck handles health check requests
// @Summary Health check
// @Description Report whether the model is loaded and predictions can be served
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	response := h.predictionService.Health(c.Request.Context())

	status := http.StatusOK
	if !response.ModelLoaded {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}

// getMetrics handles GET /metrics
// @Summary Serving metrics
// @Description Prediction counts by risk level, running average churn probability, model summary and cache statistics
// @Tags metrics
// @Produce json
// @Success 200 {object} dto.MetricsResponse
// @Router /metrics [get]
func (h *Handler) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictionService.Metrics())
}

// getModelInfo handles GET /model-info
// @Summary Model information
// @Description Metrics recorded when the model was trained
// @Tags model
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Router /model-info [get]
func (h *Handler) getModelInfo(c *gin.Context) {
	info, err := h.predictionService.ModelInfo()
	if err != nil {
		status, payload := errorResponse(err)
		c.JSON(status, payload)
		return
	}

	c.JSON(http.StatusOK, info)
}

// getHistory handles GET /metrics/history
// @Summary Prediction history
// @Description Aggregate audited predictions over a time range with optional grouping by risk level, hour, or day
// @Tags metrics
// @Produce json
// @Security ApiKeyAuth
// @Param from query int true "Start timestamp (Unix epoch)" example:"1723475612"
// @Param to query int true "End timestamp (Unix epoch)" example:"1723562012"
// @Param group_by query string false "Field to group by (risk_level, hour, day)" Enums(risk_level, hour, day) example:"risk_level"
// @Success 200 {object} dto.GetHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /metrics/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	var req dto.GetHistoryRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid history request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.predictionService.PredictionHistory(c.Request.Context(), &req)
	if err != nil {
		status, payload := errorResponse(err)
		h.log.Error("Failed to get prediction history",
			zap.Error(err),
			zap.Int64("from", req.From),
			zap.Int64("to", req.To))
		c.JSON(status, payload)
		return
	}

	h.log.Info("Prediction history retrieved",
		zap.Uint64("total_count", response.TotalCount),
		zap.String("group_by", response.GroupBy))

	c.JSON(http.StatusOK, response)
}

// invalidateCache handles DELETE /admin/cache
// @Summary Flush the prediction cache
// @Description Remove every cached prediction
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.InvalidateCacheResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/cache [delete]
func (h *Handler) invalidateCache(c *gin.Context) {
	removed, err := h.predictionService.InvalidateCache(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to invalidate cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "cache_error",
			Message: "Failed to invalidate cache",
		})
		return
	}

	c.JSON(http.StatusOK, dto.InvalidateCacheResponse{Removed: removed})
}

// resetMetrics handles POST /admin/metrics/reset
// @Summary Reset serving metrics
// @Description Clear the in-memory prediction counters
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.ResetMetricsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/metrics/reset [post]
func (h *Handler) resetMetrics(c *gin.Context) {
	h.predictionService.ResetMetrics()
	c.JSON(http.StatusOK, dto.ResetMetricsResponse{Status: "reset"})
}
