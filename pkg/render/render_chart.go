package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/nadepot/nadepot/pkg/model"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrEmptyBreakdown = errors.New("no biotypes to chart")

// Warm-to-cool palette cycled over the biotype bars.
var biotypePalette = []drawing.Color{
	{R: 0x1F, G: 0x77, B: 0xB4, A: 0xFF},
	{R: 0xFF, G: 0x7F, B: 0x0E, A: 0xFF},
	{R: 0x2C, G: 0xA0, B: 0x2C, A: 0xFF},
	{R: 0xD6, G: 0x27, B: 0x28, A: 0xFF},
	{R: 0x94, G: 0x67, B: 0xBD, A: 0xFF},
	{R: 0x8C, G: 0x56, B: 0x4B, A: 0xFF},
}

// RenderBiotypeChart draws the biotype percentage breakdown as a png bar
// chart. Bars are labelled with the biotype and its percentage.
func RenderBiotypeChart(w io.Writer, title string, shares []model.BiotypeShare) error {

	if len(shares) == 0 {
		return ErrEmptyBreakdown
	}

	bars := make([]chart.Value, 0, len(shares))
	for i, s := range shares {
		color := biotypePalette[i%len(biotypePalette)]
		bars = append(bars, chart.Value{
			Value: s.Percent,
			Label: fmt.Sprintf("%s (%.1f%%)", s.Biotype, s.Percent),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24}},
		Width:      860,
		Height:     420,
		BarWidth:   56,
		XAxis:      chart.Style{TextRotationDegrees: 25},
		YAxis: chart.YAxis{
			Name:  "% of genes",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render biotype chart: %w", err)
	}

	return nil
}
