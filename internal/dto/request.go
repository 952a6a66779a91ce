package dto

import (
	"github.com/shopspring/decimal"
)

// CustomerFeatures represents the account attributes scored by the churn model
type CustomerFeatures struct {
	Gender           string           `json:"gender" binding:"required,oneof=Male Female" example:"Female"`
	SeniorCitizen    *int             `json:"SeniorCitizen" binding:"required,oneof=0 1" example:"0"`
	Partner          string           `json:"Partner" binding:"required,oneof=Yes No" example:"No"`
	Dependents       string           `json:"Dependents" binding:"required,oneof=Yes No" example:"No"`
	Tenure           *int             `json:"tenure" binding:"required,gte=0" example:"1"`
	PhoneService     string           `json:"PhoneService" binding:"required,oneof=Yes No" example:"Yes"`
	MultipleLines    string           `json:"MultipleLines" binding:"required" example:"No"`
	InternetService  string           `json:"InternetService" binding:"required" example:"Fiber optic"`
	OnlineSecurity   string           `json:"OnlineSecurity" binding:"required" example:"No"`
	OnlineBackup     string           `json:"OnlineBackup" binding:"required" example:"No"`
	DeviceProtection string           `json:"DeviceProtection" binding:"required" example:"No"`
	TechSupport      string           `json:"TechSupport" binding:"required" example:"No"`
	StreamingTV      string           `json:"StreamingTV" binding:"required" example:"No"`
	StreamingMovies  string           `json:"StreamingMovies" binding:"required" example:"No"`
	Contract         string           `json:"Contract" binding:"required,oneof='Month-to-month' 'One year' 'Two year'" example:"Month-to-month"`
	PaperlessBilling string           `json:"PaperlessBilling" binding:"required,oneof=Yes No" example:"Yes"`
	PaymentMethod    string           `json:"PaymentMethod" binding:"required" example:"Electronic check"`
	MonthlyCharges   *float64         `json:"MonthlyCharges" binding:"required,gt=0" example:"70.35"`
	TotalCharges     *decimal.Decimal `json:"TotalCharges" binding:"required" swaggertype:"string" example:"70.35"`
}

// GetHistoryRequest represents a prediction history query against the audit warehouse
type GetHistoryRequest struct {
	From    int64  `form:"from" binding:"required" example:"1723475612"`
	To      int64  `form:"to" binding:"required" example:"1723562012"`
	GroupBy string `form:"group_by" example:"risk_level"`
}
