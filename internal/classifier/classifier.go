// Package classifier is the boundary to the externally trained model: an
// immutable handle exposing its feature schema and a binary predict.
package classifier

import "context"

// Classifier scores an aligned feature vector. Implementations are read-only
// after construction and safe for concurrent use. The contract is a label in
// {0,1}; callers treat anything else as a contract violation.
type Classifier interface {
	Schema() Schema
	Predict(ctx context.Context, features []float64) (int, error)
}

// Info describes where a classifier came from.
type Info struct {
	Name      string
	Version   string
	Algorithm string
	TrainedAt string
}

// Describer is implemented by classifiers that know their provenance.
type Describer interface {
	Info() Info
}

// Describe returns c's Info, or a zero Info.
func Describe(c Classifier) Info {
	if d, ok := c.(Describer); ok {
		return d.Info()
	}
	return Info{}
}
