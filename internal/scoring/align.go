package scoring

import (
	"sort"

	"loan-predictor/internal/classifier"
	"loan-predictor/internal/models"
)

// Alignment is a feature set reconciled against a schema.
type Alignment struct {
	// Vector has exactly one value per schema name, in schema order.
	Vector []float64
	// Defaulted lists schema names missing from the feature set, in schema order.
	Defaulted []string
	// Ignored lists feature names the schema does not declare, sorted.
	Ignored []string
}

// Align looks every schema name up in fs, using 0 for absent names, and drops
// features the schema does not know. It never fails.
func Align(fs models.FeatureSet, schema classifier.Schema) Alignment {
	out := Alignment{Vector: make([]float64, schema.Len())}

	for i := 0; i < schema.Len(); i++ {
		name := schema.At(i)
		v, ok := fs[name]
		if !ok {
			out.Defaulted = append(out.Defaulted, name)
			continue
		}
		out.Vector[i] = v
	}

	for name := range fs {
		if !schema.Has(name) {
			out.Ignored = append(out.Ignored, name)
		}
	}
	sort.Strings(out.Ignored)

	return out
}
