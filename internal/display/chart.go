// Package display turns simulation results into text a person can read: the
// report as produced by the engine and a line chart of one named series.
package display

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
)

// DefaultSeries is the series shown when a request names none.
const DefaultSeries = rocket.SeriesWindSpeed

// Chart is one series picked out of a result. Empty charts are a valid
// "no data" state.
type Chart struct {
	Series string    `json:"series"`
	Points []float64 `json:"points"`
	Empty  bool      `json:"empty"`
}

// SelectSeries copies the named series out of result. A missing or empty
// series yields an empty chart.
func SelectSeries(result rocket.SimulationResult, name string) Chart {
	if name == "" {
		name = DefaultSeries
	}

	points, ok := result.Series[name]
	if !ok || len(points) == 0 {
		return Chart{Series: name, Points: []float64{}, Empty: true}
	}

	finite := make([]float64, 0, len(points))
	for _, p := range points {
		if !math.IsNaN(p) && !math.IsInf(p, 0) {
			finite = append(finite, p)
		}
	}
	return Chart{Series: name, Points: finite, Empty: len(finite) == 0}
}

// RenderChart draws c as an ASCII line chart of the given size.
func RenderChart(c Chart, width, height int) string {
	if c.Empty {
		return fmt.Sprintf("no data for series %q", c.Series)
	}
	if width <= 0 {
		width = 72
	}
	if height <= 0 {
		height = 12
	}

	points := c.Points
	// asciigraph needs two points to draw a line.
	if len(points) == 1 {
		points = []float64{points[0], points[0]}
	}

	return asciigraph.Plot(points,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(c.Series),
	)
}

// RenderReport returns the report unchanged; an empty report gets a placeholder.
func RenderReport(result rocket.SimulationResult) string {
	if result.Report == "" {
		return "no report"
	}
	return result.Report
}
