package web

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"loan-predictor/internal/models"
)

const (
	userBarColor      = "#6c63ac"
	highlightBarColor = "#e74c3c"
	referenceBarColor = "lightgray"

	chartWidth    = 260
	chartHeight   = 180
	chartPlotTop  = 28
	chartPlotBase = 150
	barWidth      = 70
)

type barView struct {
	Label  string
	Value  string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  string
}

// chartView is one panel of the 2x2 comparison grid, drawn as inline SVG.
type chartView struct {
	Title       string
	Width       int
	Height      int
	Baseline    float64
	Highlighted bool
	Bars        []barView
}

func buildCharts(panels []models.ComparisonPanel) []chartView {
	charts := make([]chartView, 0, len(panels))
	for _, p := range panels {
		charts = append(charts, buildChart(p))
	}
	return charts
}

func buildChart(p models.ComparisonPanel) chartView {
	userColor := userBarColor
	if p.Highlighted {
		userColor = highlightBarColor
	}

	top := p.UserValue
	if p.ReferenceValue > top {
		top = p.ReferenceValue
	}

	return chartView{
		Title:       p.Label,
		Width:       chartWidth,
		Height:      chartHeight,
		Baseline:    chartPlotBase,
		Highlighted: p.Highlighted,
		Bars: []barView{
			bar("You", p.UserValue, top, 50, userColor),
			bar("Avg", p.ReferenceValue, top, 140, referenceBarColor),
		},
	}
}

func bar(label string, value, top, x float64, color string) barView {
	plot := float64(chartPlotBase - chartPlotTop)
	height := 0.0
	if top > 0 && value > 0 {
		height = value / top * plot
	}
	return barView{
		Label:  label,
		Value:  formatValue(value),
		X:      x,
		Y:      chartPlotBase - height,
		Width:  barWidth,
		Height: height,
		Color:  color,
	}
}

// formatValue renders whole numbers with English thousands separators.
func formatValue(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}
