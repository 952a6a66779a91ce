package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/config"
	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
	"github.com/BarkinBalci/churn-prediction-service/internal/ratelimit"
	"github.com/BarkinBalci/churn-prediction-service/internal/service"
)

const testCustomerJSON = `{
	"gender": "Female", "SeniorCitizen": 0, "Partner": "No", "Dependents": "No", "tenure": 1,
	"PhoneService": "Yes", "MultipleLines": "No", "InternetService": "Fiber optic",
	"OnlineSecurity": "No", "OnlineBackup": "No", "DeviceProtection": "No", "TechSupport": "No",
	"StreamingTV": "No", "StreamingMovies": "No", "Contract": "Month-to-month",
	"PaperlessBilling": "Yes", "PaymentMethod": "Electronic check",
	"MonthlyCharges": 70.35, "TotalCharges": "70.35"
}`

func init() {
	gin.SetMode(gin.TestMode)
}

// MockPredictionService is a mock implementation of service.PredictionServicer
type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) Predict(ctx context.Context, features *dto.CustomerFeatures) (*dto.PredictionResponse, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PredictionResponse), args.Error(1)
}

func (m *MockPredictionService) PredictBatch(ctx context.Context, items []*dto.CustomerFeatures) ([]service.BatchResult, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BatchResult), args.Error(1)
}

func (m *MockPredictionService) Health(ctx context.Context) dto.HealthResponse {
	args := m.Called(ctx)
	return args.Get(0).(dto.HealthResponse)
}

func (m *MockPredictionService) Metrics() dto.MetricsResponse {
	args := m.Called()
	return args.Get(0).(dto.MetricsResponse)
}

func (m *MockPredictionService) ModelInfo() (map[string]interface{}, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockPredictionService) InvalidateCache(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPredictionService) ResetMetrics() {
	m.Called()
}

func (m *MockPredictionService) PredictionHistory(ctx context.Context, req *dto.GetHistoryRequest) (*dto.GetHistoryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GetHistoryResponse), args.Error(1)
}

type stubLimiter struct {
	allowed bool
}

func (s stubLimiter) Allow(string) (bool, time.Duration) { return s.allowed, time.Second }
func (s stubLimiter) Window() time.Duration { return time.Minute }

func newTestHandler(mockService *MockPredictionService) *Handler {
	return NewHandler(mockService, Options{CORSAllowedOrigins: []string{"*"}}, zap.NewNop())
}

func perform(h *Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func samplePrediction() *dto.PredictionResponse {
	return &dto.PredictionResponse{
		CustomerID:       "CUST_123",
		ChurnPrediction:  1,
		ChurnProbability: 0.85,
		RiskLevel:        "high",
		Timestamp:        "2026-01-01T00:00:00Z",
	}
}

func TestHandler_HealthCheck(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("Health", mock.Anything).Return(dto.HealthResponse{
		Status:      "healthy",
		ModelLoaded: true,
		Version:     "1.0.0",
	})

	w := perform(handler, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.True(t, response.ModelLoaded)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestHandler_HealthCheck_Unhealthy(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("Health", mock.Anything).Return(dto.HealthResponse{Status: "unhealthy"})

	w := perform(handler, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandler_Predict_Success(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("Predict", mock.Anything, mock.MatchedBy(func(f *dto.CustomerFeatures) bool {
		return f.InternetService == "Fiber optic" && f.TotalCharges.String() == "70.35"
	})).Return(samplePrediction(), nil)

	w := perform(handler, http.MethodPost, "/predict", testCustomerJSON, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.PredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CUST_123", response.CustomerID)
	assert.Equal(t, "high", response.RiskLevel)
	mockService.AssertExpectations(t)
}

func TestHandler_Predict_InvalidTotalCharges(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	body := strings.Replace(testCustomerJSON, `"TotalCharges": "70.35"`, `"TotalCharges": "invalid_value"`, 1)
	w := perform(handler, http.MethodPost, "/predict", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decodeError(t, w).Error)
	mockService.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestHandler_Predict_InvalidFields(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"unknown gender", `"gender": "Female"`, `"gender": "Other"`},
		{"unknown contract", `"Contract": "Month-to-month"`, `"Contract": "Weekly"`},
		{"zero monthly charges", `"MonthlyCharges": 70.35`, `"MonthlyCharges": 0`},
		{"missing tenure", `"tenure": 1,`, ``},
		{"malformed json", `"gender": "Female",`, `"gender": "Female" invalid,`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPredictionService)
			handler := newTestHandler(mockService)

			body := strings.Replace(testCustomerJSON, tt.old, tt.new, 1)
			w := perform(handler, http.MethodPost, "/predict", body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation_error", decodeError(t, w).Error)
			mockService.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Predict_ServiceErrors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedCode  int
		expectedError string
	}{
		{"model unavailable", service.ErrModelUnavailable, http.StatusServiceUnavailable, "model_unavailable"},
		{"prediction failed", service.ErrPredictionFailed, http.StatusInternalServerError, "prediction_failed"},
		{"validation", &service.ValidationError{Field: "TotalCharges", Message: "must be non-negative"}, http.StatusBadRequest, "validation_error"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPredictionService)
			handler := newTestHandler(mockService)

			mockService.On("Predict", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := perform(handler, http.MethodPost, "/predict", testCustomerJSON, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			response := decodeError(t, w)
			assert.Equal(t, tt.expectedError, response.Error)
			assert.NotContains(t, response.Message, "db exploded")
		})
	}
}

func TestHandler_Predict_APIKey(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := NewHandler(mockService, Options{
		APIKey: config.APIKey{Enabled: true, Value: "secret"},
	}, zap.NewNop())

	mockService.On("Predict", mock.Anything, mock.Anything).Return(samplePrediction(), nil)

	w := perform(handler, http.MethodPost, "/predict", testCustomerJSON, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(handler, http.MethodPost, "/predict", testCustomerJSON, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(handler, http.MethodPost, "/predict", testCustomerJSON, map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertNumberOfCalls(t, "Predict", 1)
}

func TestHandler_Predict_RateLimited(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := NewHandler(mockService, Options{RateLimiter: stubLimiter{allowed: false}}, zap.NewNop())

	w := perform(handler, http.MethodPost, "/predict", testCustomerJSON, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeError(t, w).Error)
	mockService.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func predictFrom(h *Handler, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(testCustomerJSON))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_RateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	mockService := new(MockPredictionService)
	mockService.On("Predict", mock.Anything, mock.Anything).Return(samplePrediction(), nil).Once()

	handler := NewHandler(mockService, Options{
		RateLimiter: ratelimit.NewLimiter(1, 1, time.Hour, zap.NewNop()),
	}, zap.NewNop())

	w := predictFrom(handler, "198.51.100.7:40000", "10.0.0.1")
	require.Equal(t, http.StatusOK, w.Code)

	for i := 2; i <= 5; i++ {
		w = predictFrom(handler, "198.51.100.7:40000", fmt.Sprintf("10.0.0.%d", i))
		assert.Equal(t, http.StatusTooManyRequests, w.Code, "request with X-Forwarded-For 10.0.0.%d", i)
		assert.Equal(t, "rate_limited", decodeError(t, w).Error)
	}
	mockService.AssertNumberOfCalls(t, "Predict", 1)
}

func TestHandler_RateLimit_TrustedProxyForwardsClient(t *testing.T) {
	mockService := new(MockPredictionService)
	mockService.On("Predict", mock.Anything, mock.Anything).Return(samplePrediction(), nil)

	handler := NewHandler(mockService, Options{
		RateLimiter:    ratelimit.NewLimiter(1, 1, time.Hour, zap.NewNop()),
		TrustedProxies: []string{"198.51.100.7"},
	}, zap.NewNop())

	assert.Equal(t, http.StatusOK, predictFrom(handler, "198.51.100.7:40000", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, predictFrom(handler, "198.51.100.7:40000", "10.0.0.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, predictFrom(handler, "198.51.100.7:40000", "10.0.0.1").Code)
	mockService.AssertNumberOfCalls(t, "Predict", 2)
}

func TestHandler_InvalidTrustedProxiesTrustNone(t *testing.T) {
	mockService := new(MockPredictionService)
	mockService.On("Predict", mock.Anything, mock.Anything).Return(samplePrediction(), nil).Once()

	handler := NewHandler(mockService, Options{
		RateLimiter:    ratelimit.NewLimiter(1, 1, time.Hour, zap.NewNop()),
		TrustedProxies: []string{"not-an-ip"},
	}, zap.NewNop())

	assert.Equal(t, http.StatusOK, predictFrom(handler, "198.51.100.7:40000", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, predictFrom(handler, "198.51.100.7:40000", "10.0.0.2").Code)
}

func TestHandler_PublicRoutesSkipAdmission(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := NewHandler(mockService, Options{
		APIKey:      config.APIKey{Enabled: true, Value: "secret"},
		RateLimiter: stubLimiter{allowed: false},
	}, zap.NewNop())

	mockService.On("Metrics").Return(dto.MetricsResponse{TotalPredictions: 3})

	w := perform(handler, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_PredictBatch_MixedResults(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	invalid := strings.Replace(testCustomerJSON, `"TotalCharges": "70.35"`, `"TotalCharges": "invalid_value"`, 1)
	body := fmt.Sprintf("[%s, %s, %s]", testCustomerJSON, invalid, testCustomerJSON)

	mockService.On("PredictBatch", mock.Anything, mock.MatchedBy(func(items []*dto.CustomerFeatures) bool {
		return len(items) == 2
	})).Return([]service.BatchResult{
		{Response: samplePrediction()},
		{Err: service.ErrPredictionFailed},
	}, nil)

	w := perform(handler, http.MethodPost, "/predict/batch", body, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.BatchPredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 3, response.Total)
	assert.Equal(t, 1, response.Successful)
	assert.Equal(t, 2, response.Failed)
	require.Len(t, response.Predictions, 3)

	assert.Equal(t, 0, response.Predictions[0].Index)
	assert.Equal(t, "ok", response.Predictions[0].Status)
	assert.Equal(t, "CUST_123", response.Predictions[0].Result.CustomerID)

	assert.Equal(t, 1, response.Predictions[1].Index)
	assert.Equal(t, "error", response.Predictions[1].Status)
	assert.Equal(t, "validation_error", response.Predictions[1].Error.Error)

	assert.Equal(t, 2, response.Predictions[2].Index)
	assert.Equal(t, "error", response.Predictions[2].Status)
	assert.Equal(t, "prediction_failed", response.Predictions[2].Error.Error)
}

func TestHandler_PredictBatch_InvalidBodies(t *testing.T) {
	tooMany := "[" + strings.TrimSuffix(strings.Repeat("{},", MaxBatchSize+1), ",") + "]"

	tests := []struct {
		name string
		body string
	}{
		{"empty array", "[]"},
		{"not an array", testCustomerJSON},
		{"too many items", tooMany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPredictionService)
			handler := newTestHandler(mockService)

			w := perform(handler, http.MethodPost, "/predict/batch", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "PredictBatch", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_PredictBatch_ModelUnavailable(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("PredictBatch", mock.Anything, mock.Anything).Return(nil, service.ErrModelUnavailable)

	w := perform(handler, http.MethodPost, "/predict/batch", "["+testCustomerJSON+"]", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandler_GetMetrics(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("Metrics").Return(dto.MetricsResponse{
		TotalPredictions:        2,
		PredictionsByRisk:       map[string]int64{"low": 1, "medium": 0, "high": 1},
		AverageChurnProbability: 0.45,
		ModelInfo:               map[string]string{"model_name": "final_churn_prediction_pipeline"},
	})

	w := perform(handler, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(2), response.TotalPredictions)
	assert.Equal(t, int64(1), response.PredictionsByRisk["high"])
	assert.Equal(t, "final_churn_prediction_pipeline", response.ModelInfo["model_name"])
}

func TestHandler_GetModelInfo(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("ModelInfo").Return(map[string]interface{}{"test_roc_auc": 0.84}, nil).Once()
	mockService.On("ModelInfo").Return(nil, service.ErrModelInfoUnavailable).Once()

	w := perform(handler, http.MethodGet, "/model-info", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"test_roc_auc":0.84}`, w.Body.String())

	w = perform(handler, http.MethodGet, "/model-info", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetHistory(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	expected := &dto.GetHistoryRequest{From: 1000, To: 2000, GroupBy: "day"}
	mockService.On("PredictionHistory", mock.Anything, expected).Return(&dto.GetHistoryResponse{
		From:       1000,
		To:         2000,
		TotalCount: 10,
		GroupBy:    "day",
		Groups:     []dto.HistoryGroupData{{GroupValue: "2026-01-01", TotalCount: 10, AverageProbability: 0.3}},
	}, nil)

	w := perform(handler, http.MethodGet, "/metrics/history?from=1000&to=2000&group_by=day", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.GetHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, uint64(10), response.TotalCount)
	require.Len(t, response.Groups, 1)
	mockService.AssertExpectations(t)
}

func TestHandler_GetHistory_Errors(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	w := perform(handler, http.MethodGet, "/metrics/history?to=2000", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.On("PredictionHistory", mock.Anything, mock.Anything).Return(nil, service.ErrHistoryUnavailable)

	w = perform(handler, http.MethodGet, "/metrics/history?from=1000&to=2000", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "history_unavailable", decodeError(t, w).Error)
}

func TestHandler_InvalidateCache(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("InvalidateCache", mock.Anything).Return(12, nil).Once()
	mockService.On("InvalidateCache", mock.Anything).Return(0, errors.New("redis down")).Once()

	w := perform(handler, http.MethodDelete, "/admin/cache", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":12}`, w.Body.String())

	w = perform(handler, http.MethodDelete, "/admin/cache", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "cache_error", decodeError(t, w).Error)
}

func TestHandler_ResetMetrics(t *testing.T) {
	mockService := new(MockPredictionService)
	handler := newTestHandler(mockService)

	mockService.On("ResetMetrics").Return()

	w := perform(handler, http.MethodPost, "/admin/metrics/reset", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertCalled(t, "ResetMetrics")
}

func TestHandler_NotFoundCarriesSecurityHeaders(t *testing.T) {
	handler := newTestHandler(new(MockPredictionService))

	w := perform(handler, http.MethodGet, "/does-not-exist", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}
