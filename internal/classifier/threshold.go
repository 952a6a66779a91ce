package classifier

// DefaultDecisionThreshold is the operating point the model ships with
const DefaultDecisionThreshold = 0.0

// Threshold turns a continuous decision score into a binary churn label.
// Moving Cutoff trades false positives against false negatives without retraining.
type Threshold struct {
	Cutoff float64
}

// NewThreshold creates a threshold classifier with the given cut point
func NewThreshold(cutoff float64) Threshold {
	return Threshold{Cutoff: cutoff}
}

// Classify returns 1 when score is strictly above the cut point
func (t Threshold) Classify(score float64) int {
	if score > t.Cutoff {
		return 1
	}
	return 0
}
