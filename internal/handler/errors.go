package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
	"github.com/BarkinBalci/churn-prediction-service/internal/service"
)

// errorResponse maps a service error to its status code and client-safe payload
func errorResponse(err error) (int, dto.ErrorResponse) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: verr.Error()}
	case errors.Is(err, service.ErrModelUnavailable):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Error: "model_unavailable", Message: "Model not loaded"}
	case errors.Is(err, service.ErrPredictionFailed):
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "prediction_failed", Message: "Prediction failed"}
	case errors.Is(err, service.ErrModelInfoUnavailable):
		return http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: "Model information not available"}
	case errors.Is(err, service.ErrHistoryUnavailable):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Error: "history_unavailable", Message: "Prediction history is not configured"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Error: "request_cancelled", Message: "Request was cancelled before completion"}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "Internal server error"}
	}
}
