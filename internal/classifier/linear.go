package classifier

import (
	"context"
	"fmt"
	"math"
)

const defaultThreshold = 0.5

// LinearModel is a logistic-regression classifier with optional per-feature
// standardisation applied before the dot product.
type LinearModel struct {
	info         Info
	schema       Schema
	coefficients []float64
	intercept    float64
	threshold    float64
	mean         []float64
	scale        []float64
}

// NewLinearModel validates that every vector matches the schema length.
// mean and scale may both be nil; threshold 0 means 0.5.
func NewLinearModel(info Info, schema Schema, coefficients []float64, intercept, threshold float64, mean, scale []float64) (*LinearModel, error) {
	n := schema.Len()
	if n == 0 {
		return nil, ErrSchemaMissing
	}
	if len(coefficients) != n {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrIncompatibleArtifact, len(coefficients), n)
	}
	if (mean == nil) != (scale == nil) {
		return nil, fmt.Errorf("%w: scaler needs both mean and scale", ErrIncompatibleArtifact)
	}
	if mean != nil {
		if len(mean) != n || len(scale) != n {
			return nil, fmt.Errorf("%w: scaler has %d means and %d scales for %d features",
				ErrIncompatibleArtifact, len(mean), len(scale), n)
		}
		for i, s := range scale {
			if s == 0 {
				return nil, fmt.Errorf("%w: zero scale for feature %q", ErrIncompatibleArtifact, schema.At(i))
			}
		}
	}
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("%w: threshold %v outside (0,1)", ErrIncompatibleArtifact, threshold)
	}

	return &LinearModel{
		info:         info,
		schema:       schema,
		coefficients: append([]float64(nil), coefficients...),
		intercept:    intercept,
		threshold:    threshold,
		mean:         append([]float64(nil), mean...),
		scale:        append([]float64(nil), scale...),
	}, nil
}

func (m *LinearModel) Schema() Schema {
	return m.schema
}

func (m *LinearModel) Info() Info {
	return m.info
}

// Probability returns the model's approval probability for features.
func (m *LinearModel) Probability(features []float64) (float64, error) {
	if len(features) != len(m.coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.coefficients), len(features))
	}

	z := m.intercept
	for i, x := range features {
		if len(m.mean) > 0 {
			x = (x - m.mean[i]) / m.scale[i]
		}
		z += m.coefficients[i] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict returns 1 when the probability reaches the threshold, else 0.
func (m *LinearModel) Predict(ctx context.Context, features []float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p, err := m.Probability(features)
	if err != nil {
		return 0, err
	}
	if p >= m.threshold {
		return 1, nil
	}
	return 0, nil
}
