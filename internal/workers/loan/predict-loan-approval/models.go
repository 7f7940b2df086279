// internal/workers/loan/predict-loan-approval/models.go
package predictloanapproval

import (
	"encoding/json"

	"loan-predictor/internal/models"
)

// Input is the job payload. Application stays raw so it can be checked
// against the application schema before decoding.
type Input struct {
	ApplicationID string          `json:"applicationId"`
	Application   json.RawMessage `json:"application"`
}

type Output struct {
	ApplicationID string                   `json:"applicationId,omitempty"`
	PredictionID  string                   `json:"predictionId"`
	Approved      bool                     `json:"approved"`
	Verdict       models.Verdict           `json:"verdict"`
	Label         int                      `json:"label"`
	Comparison    []models.ComparisonPanel `json:"comparison"`
	ModelVersion  string                   `json:"modelVersion,omitempty"`
}
