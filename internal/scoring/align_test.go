package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loan-predictor/internal/classifier"
	"loan-predictor/internal/models"
)

func TestAlign_FullSchema(t *testing.T) {
	schema := classifier.MustSchema(FeatureNames()...)
	fs := Encode(scenarioApplication())

	a := Align(fs, schema)

	assert.Len(t, a.Vector, schema.Len())
	assert.Empty(t, a.Defaulted)
	assert.Empty(t, a.Ignored)
	for i, name := range schema.Names() {
		assert.Equal(t, fs[name], a.Vector[i], name)
	}
}

func TestAlign_MissingFeaturesAreZeroFilled(t *testing.T) {
	schema := classifier.MustSchema("Age", "Tenure", "CreditScore", "Region_North")
	fs := models.FeatureSet{"Age": 30, "CreditScore": 720}

	a := Align(fs, schema)

	assert.Equal(t, []float64{30, 0, 720, 0}, a.Vector)
	assert.Equal(t, []string{"Tenure", "Region_North"}, a.Defaulted)
	assert.Empty(t, a.Ignored)
}

func TestAlign_ExtraFeaturesAreDropped(t *testing.T) {
	schema := classifier.MustSchema("CreditScore", "Age")
	fs := models.FeatureSet{"Age": 30, "CreditScore": 720, "Zeta": 1, "Alpha": 2}

	a := Align(fs, schema)

	assert.Equal(t, []float64{720, 30}, a.Vector)
	assert.Empty(t, a.Defaulted)
	assert.Equal(t, []string{"Alpha", "Zeta"}, a.Ignored)
}

func TestAlign_LengthIndependentOfInput(t *testing.T) {
	schema := classifier.MustSchema("A", "B", "C")

	inputs := []models.FeatureSet{
		{},
		{"A": 1},
		{"A": 1, "B": 2, "C": 3},
		{"X": 1, "Y": 2, "Z": 3, "W": 4},
	}

	for _, fs := range inputs {
		assert.Len(t, Align(fs, schema).Vector, 3)
	}
}

func TestAlign_PreservesSchemaOrder(t *testing.T) {
	names := FeatureNames()
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	schema := classifier.MustSchema(reversed...)
	fs := Encode(scenarioApplication())

	// map iteration order varies between runs; alignment must not
	for i := 0; i < 20; i++ {
		a := Align(fs, schema)
		assert.Equal(t, fs["PurposeOfLoan_Personal"], a.Vector[0])
		assert.Equal(t, fs["Age"], a.Vector[len(a.Vector)-1])
		assert.Equal(t, 80000.0, a.Vector[schema.Index("AnnualIncome")])
	}
}
