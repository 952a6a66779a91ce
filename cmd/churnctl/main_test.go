package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/classifier"
	"github.com/BarkinBalci/churn-prediction-service/internal/model"
	"github.com/BarkinBalci/churn-prediction-service/internal/service"
)

const atRiskCustomer = `{
	"gender": "Female", "SeniorCitizen": 0, "Partner": "No", "Dependents": "No", "tenure": 1,
	"PhoneService": "Yes", "MultipleLines": "No", "InternetService": "Fiber optic",
	"OnlineSecurity": "No", "OnlineBackup": "No", "DeviceProtection": "No", "TechSupport": "No",
	"StreamingTV": "No", "StreamingMovies": "No", "Contract": "Month-to-month",
	"PaperlessBilling": "Yes", "PaymentMethod": "Electronic check",
	"MonthlyCharges": 70.35, "TotalCharges": "70.35"
}`

func newOfflineService(t *testing.T) *service.PredictionService {
	t.Helper()
	predictor, err := model.LoadLinearPredictor("../../models/churn_model.yaml")
	require.NoError(t, err)

	return service.NewPredictionService(service.Options{
		Predictor: predictor,
		Threshold: classifier.NewThreshold(0),
		RiskBands: classifier.DefaultRiskBands(),
	}, zap.NewNop())
}

func TestScoreCustomers_MixedInput(t *testing.T) {
	svc := newOfflineService(t)
	input := `[` + atRiskCustomer + `, {"TotalCharges": "invalid_value"}, {"gender": "Female"}]`

	report, err := scoreCustomers(context.Background(), svc, []byte(input))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 2, report.Failed)

	require.NotNil(t, report.Predictions[0].Result)
	assert.Equal(t, "ok", report.Predictions[0].Status)
	assert.Equal(t, 1, report.Predictions[0].Result.ChurnPrediction)
	assert.Equal(t, "high", report.Predictions[0].Result.RiskLevel)

	assert.Equal(t, 1, report.Predictions[1].Index)
	assert.Equal(t, "validation_error", report.Predictions[1].Error.Error)
	assert.Equal(t, 2, report.Predictions[2].Index)
	assert.Equal(t, "validation_error", report.Predictions[2].Error.Error)
}

func TestScoreCustomers_RejectsNonArray(t *testing.T) {
	svc := newOfflineService(t)

	_, err := scoreCustomers(context.Background(), svc, []byte(atRiskCustomer))
	assert.Error(t, err)
}

func TestPrintTable(t *testing.T) {
	svc := newOfflineService(t)
	report, err := scoreCustomers(context.Background(), svc, []byte(`[`+atRiskCustomer+`, {}]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "Total: 2  Successful: 1  Failed: 1")
}
