package service

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned when no model was loaded at startup
	ErrModelUnavailable = errors.New("model not loaded")

	// ErrPredictionFailed hides predictor failures from clients
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrModelInfoUnavailable is returned when no training metrics were loaded
	ErrModelInfoUnavailable = errors.New("model information not available")

	// ErrHistoryUnavailable is returned when no audit warehouse is configured
	ErrHistoryUnavailable = errors.New("prediction history is not configured")
)

// ValidationError reports an input that was rejected before scoring
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
