package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
	"github.com/BarkinBalci/churn-prediction-service/internal/service"
)

// MaxBatchSize bounds the number of customers in one batch request
const MaxBatchSize = 1000

// predict handles POST /predict
// @Summary Predict churn for one customer
// @Description Score a customer's account attributes and return the churn label, probability and risk level
// @Tags predictions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param customer body dto.CustomerFeatures true "Customer attributes"
// @Success 200 {object} dto.PredictionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /predict [post]
func (h *Handler) predict(c *gin.Context) {
	var req dto.CustomerFeatures

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid prediction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.predictionService.Predict(c.Request.Context(), &req)
	if err != nil {
		status, payload := errorResponse(err)
		h.log.Warn("Prediction request failed",
			zap.Int("status", status),
			zap.Error(err))
		c.JSON(status, payload)
		return
	}

	h.log.Info("Prediction served",
		zap.String("customer_id", response.CustomerID),
		zap.String("risk_level", response.RiskLevel),
		zap.Float64("churn_probability", response.ChurnProbability))

	c.JSON(http.StatusOK, response)
}

// predictBatch handles POST /predict/batch
// @Summary Predict churn for many customers
// @Description Score up to 1000 customers. Each entry succeeds or fails independently and results keep the input order.
// @Tags predictions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param customers body []dto.CustomerFeatures true "Customer attributes"
// @Success 200 {object} dto.BatchPredictionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /predict/batch [post]
func (h *Handler) predictBatch(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.Warn("Failed to read batch request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(body, &rawItems); err != nil {
		h.log.Warn("Invalid batch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "Request body must be a JSON array of customers",
		})
		return
	}

	if len(rawItems) == 0 || len(rawItems) > MaxBatchSize {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: fmt.Sprintf("Batch must contain between 1 and %d customers, got %d", MaxBatchSize, len(rawItems)),
		})
		return
	}

	items := make([]dto.BatchPredictionItem, len(rawItems))
	decoded := make([]*dto.CustomerFeatures, 0, len(rawItems))
	positions := make([]int, 0, len(rawItems))

	for i, raw := range rawItems {
		items[i].Index = i

		var features dto.CustomerFeatures
		if err := json.Unmarshal(raw, &features); err != nil {
			items[i].Status = "error"
			items[i].Error = &dto.ErrorResponse{Error: "validation_error", Message: err.Error()}
			continue
		}

		decoded = append(decoded, &features)
		positions = append(positions, i)
	}

	results, err := h.predictionService.PredictBatch(c.Request.Context(), decoded)
	if err != nil {
		status, payload := errorResponse(err)
		h.log.Warn("Batch prediction failed", zap.Int("status", status), zap.Error(err))
		c.JSON(status, payload)
		return
	}

	for j, result := range results {
		item := &items[positions[j]]
		if result.Err != nil {
			_, payload := errorResponse(result.Err)
			item.Status = "error"
			item.Error = &payload
			continue
		}
		item.Status = "ok"
		item.Result = result.Response
	}

	response := dto.BatchPredictionResponse{
		Predictions: items,
		Total:       len(items),
	}
	for _, item := range items {
		if item.Status == "ok" {
			response.Successful++
		} else {
			response.Failed++
		}
	}

	h.log.Info("Batch prediction served",
		zap.Int("total", response.Total),
		zap.Int("successful", response.Successful),
		zap.Int("failed", response.Failed))

	c.JSON(http.StatusOK, response)
}

var _ service.PredictionServicer = (*service.PredictionService)(nil)
