package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-predictor/internal/models"
)

func TestBuildChart(t *testing.T) {
	chart := buildChart(models.ComparisonPanel{Label: "Income", UserValue: 150000, ReferenceValue: 75000})

	require.Len(t, chart.Bars, 2)
	you, avg := chart.Bars[0], chart.Bars[1]

	assert.Equal(t, "You", you.Label)
	assert.Equal(t, "Avg", avg.Label)
	assert.Equal(t, userBarColor, you.Color)
	assert.Equal(t, referenceBarColor, avg.Color)
	assert.InDelta(t, 2*avg.Height, you.Height, 1e-9)
	assert.InDelta(t, float64(chartPlotBase), you.Y+you.Height, 1e-9)
	assert.Equal(t, "150,000", you.Value)
}

func TestBuildChart_Highlighted(t *testing.T) {
	chart := buildChart(models.ComparisonPanel{Label: "Credit Score", UserValue: 550, ReferenceValue: 680, Highlighted: true})

	assert.True(t, chart.Highlighted)
	assert.Equal(t, highlightBarColor, chart.Bars[0].Color)
	assert.Equal(t, referenceBarColor, chart.Bars[1].Color)
}

func TestBuildChart_ZeroValues(t *testing.T) {
	chart := buildChart(models.ComparisonPanel{Label: "Debt Burden", UserValue: 0, ReferenceValue: 4})

	assert.Equal(t, 0.0, chart.Bars[0].Height)
	assert.Greater(t, chart.Bars[1].Height, 0.0)
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		4:       "4",
		680:     "680",
		1000:    "1,000",
		75000:   "75,000",
		1234567: "1,234,567",
		-25000:  "-25,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatValue(in))
	}
}
