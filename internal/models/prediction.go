// internal/models/prediction.go
package models

// FeatureSet maps feature names to their encoded numeric values.
type FeatureSet map[string]float64

type Verdict string

const (
	VerdictApproved Verdict = "Approved"
	VerdictRejected Verdict = "Rejected"
)

// Approved reports whether v is the approving verdict.
func (v Verdict) Approved() bool {
	return v == VerdictApproved
}

// Message is the banner text shown for the verdict.
func (v Verdict) Message() string {
	if v.Approved() {
		return "Loan Approved"
	}
	return "Loan Not Approved"
}

// ComparisonPanel is one user-versus-reference bar pair.
type ComparisonPanel struct {
	Label          string  `json:"label"`
	UserValue      float64 `json:"userValue"`
	ReferenceValue float64 `json:"referenceValue"`
	Highlighted    bool    `json:"highlighted"`
}

// Prediction is the outcome of scoring one application.
type Prediction struct {
	ID                string            `json:"predictionId"`
	Label             int               `json:"label"`
	Verdict           Verdict           `json:"verdict"`
	Approved          bool              `json:"approved"`
	Features          FeatureSet        `json:"features"`
	Vector            []float64         `json:"vector"`
	DefaultedFeatures []string          `json:"defaultedFeatures"`
	IgnoredFeatures   []string          `json:"ignoredFeatures"`
	Comparison        []ComparisonPanel `json:"comparison"`
	ModelName         string            `json:"modelName,omitempty"`
	ModelVersion      string            `json:"modelVersion,omitempty"`
}
