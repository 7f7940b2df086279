package scoring

import (
	"errors"
	"fmt"

	"loan-predictor/internal/models"
)

// ErrUnrecognizedPrediction means the classifier broke its {0,1} contract.
var ErrUnrecognizedPrediction = errors.New("unrecognized prediction")

// Interpret maps a classifier label to a verdict: 1 approves, 0 rejects and
// anything else is an error rather than a silent rejection.
func Interpret(label int) (models.Verdict, error) {
	switch label {
	case 1:
		return models.VerdictApproved, nil
	case 0:
		return models.VerdictRejected, nil
	default:
		return "", fmt.Errorf("%w: label %d", ErrUnrecognizedPrediction, label)
	}
}
