package cache

import (
	"github.com/shopspring/decimal"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func newTestCustomer() *dto.CustomerFeatures {
	total := decimal.RequireFromString("70.35")
	return &dto.CustomerFeatures{
		Gender:           "Female",
		SeniorCitizen:    intPtr(0),
		Partner:          "No",
		Dependents:       "No",
		Tenure:           intPtr(1),
		PhoneService:     "Yes",
		MultipleLines:    "No",
		InternetService:  "Fiber optic",
		OnlineSecurity:   "No",
		OnlineBackup:     "No",
		DeviceProtection: "No",
		TechSupport:      "No",
		StreamingTV:      "No",
		StreamingMovies:  "No",
		Contract:         "Month-to-month",
		PaperlessBilling: "Yes",
		PaymentMethod:    "Electronic check",
		MonthlyCharges:   floatPtr(70.35),
		TotalCharges:     &total,
	}
}
