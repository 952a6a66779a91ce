// Package encoder maps raw customer attributes onto the numeric vector the churn model was fit against.
//
// The mapping is a fixed table lookup with no fitted state, so serving reproduces training exactly.
package encoder

import (
	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

// Encoded field names
const (
	FieldGender           = "gender"
	FieldSeniorCitizen    = "SeniorCitizen"
	FieldPartner          = "Partner"
	FieldDependents       = "Dependents"
	FieldTenure           = "tenure"
	FieldPhoneService     = "PhoneService"
	FieldMultipleLines    = "MultipleLines"
	FieldInternetService  = "InternetService"
	FieldOnlineSecurity   = "OnlineSecurity"
	FieldOnlineBackup     = "OnlineBackup"
	FieldDeviceProtection = "DeviceProtection"
	FieldTechSupport      = "TechSupport"
	FieldStreamingTV      = "StreamingTV"
	FieldStreamingMovies  = "StreamingMovies"
	FieldContract         = "Contract"
	FieldPaperlessBilling = "PaperlessBilling"
	FieldPaymentMethod    = "PaymentMethod"
	FieldMonthlyCharges   = "MonthlyCharges"
	FieldTotalCharges     = "TotalCharges"
)

var (
	binaryMap = map[string]float64{"Yes": 1, "No": 0}
	genderMap = map[string]float64{"Male": 1, "Female": 0}

	// contractMap is ordinal: longer commitment encodes higher
	contractMap = map[string]float64{
		"Month-to-month": 0,
		"One year":       1,
		"Two year":       2,
	}
)

// Encode projects validated customer features onto an EncodedVector.
// Inputs are expected to have passed request validation; unknown categories encode as zero.
func Encode(f *dto.CustomerFeatures) domain.EncodedVector {
	totalCharges, _ := f.TotalCharges.Float64()

	return domain.EncodedVector{
		Numeric: map[string]float64{
			FieldGender:           genderMap[f.Gender],
			FieldSeniorCitizen:    float64(*f.SeniorCitizen),
			FieldPartner:          binaryMap[f.Partner],
			FieldDependents:       binaryMap[f.Dependents],
			FieldTenure:           float64(*f.Tenure),
			FieldPhoneService:     binaryMap[f.PhoneService],
			FieldContract:         contractMap[f.Contract],
			FieldPaperlessBilling: binaryMap[f.PaperlessBilling],
			FieldMonthlyCharges:   *f.MonthlyCharges,
			FieldTotalCharges:     totalCharges,
		},
		Categorical: map[string]string{
			FieldMultipleLines:    f.MultipleLines,
			FieldInternetService:  f.InternetService,
			FieldOnlineSecurity:   f.OnlineSecurity,
			FieldOnlineBackup:     f.OnlineBackup,
			FieldDeviceProtection: f.DeviceProtection,
			FieldTechSupport:      f.TechSupport,
			FieldStreamingTV:      f.StreamingTV,
			FieldStreamingMovies:  f.StreamingMovies,
			FieldPaymentMethod:    f.PaymentMethod,
		},
	}
}
