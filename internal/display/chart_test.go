package display

import (
	"math"
	"strings"
	"testing"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
)

func windResult() rocket.SimulationResult {
	return rocket.SimulationResult{
		Report: "Launch Site Details\n",
		Series: map[string][]float64{
			rocket.SeriesWindSpeed: {2.1, 4.5, 7.9, 12.0},
		},
	}
}

func TestSelectSeriesMissingKeyIsEmpty(t *testing.T) {
	c := SelectSeries(windResult(), "air_density")
	if !c.Empty {
		t.Fatalf("expected empty chart for missing series")
	}
	if c.Series != "air_density" {
		t.Errorf("expected series name to be kept, got %q", c.Series)
	}
	if c.Points == nil || len(c.Points) != 0 {
		t.Errorf("expected zero points, got %v", c.Points)
	}

	out := RenderChart(c, 40, 5)
	if !strings.Contains(out, "no data") {
		t.Errorf("expected placeholder, got %q", out)
	}
}

func TestSelectSeriesDefaultsToWindSpeed(t *testing.T) {
	c := SelectSeries(windResult(), "")
	if c.Empty {
		t.Fatal("expected wind_speed data")
	}
	if c.Series != rocket.SeriesWindSpeed {
		t.Errorf("expected %s, got %s", rocket.SeriesWindSpeed, c.Series)
	}
	want := []float64{2.1, 4.5, 7.9, 12.0}
	for i, v := range want {
		if c.Points[i] != v {
			t.Errorf("point %d: expected %v, got %v", i, v, c.Points[i])
		}
	}
}

func TestSelectSeriesDropsNonFinite(t *testing.T) {
	res := rocket.SimulationResult{Series: map[string][]float64{
		"x": {math.NaN(), math.Inf(1)},
	}}
	if c := SelectSeries(res, "x"); !c.Empty {
		t.Errorf("expected empty chart when no finite points, got %v", c.Points)
	}
}

func TestSelectSeriesDoesNotAlias(t *testing.T) {
	res := windResult()
	c := SelectSeries(res, rocket.SeriesWindSpeed)
	c.Points[0] = 99
	if res.Series[rocket.SeriesWindSpeed][0] != 2.1 {
		t.Error("chart must not mutate the result")
	}
}

func TestRenderChart(t *testing.T) {
	out := RenderChart(SelectSeries(windResult(), rocket.SeriesWindSpeed), 30, 6)
	if !strings.Contains(out, rocket.SeriesWindSpeed) {
		t.Errorf("expected caption in chart, got:\n%s", out)
	}
	if len(strings.Split(out, "\n")) < 6 {
		t.Errorf("expected at least 6 lines, got:\n%s", out)
	}

	single := RenderChart(Chart{Series: "s", Points: []float64{3}}, 10, 3)
	if single == "" {
		t.Error("expected a chart for a single point")
	}
}

func TestRenderReport(t *testing.T) {
	if got := RenderReport(rocket.SimulationResult{}); got != "no report" {
		t.Errorf("unexpected placeholder %q", got)
	}
	if got := RenderReport(windResult()); got != "Launch Site Details\n" {
		t.Errorf("report must be rendered as-is, got %q", got)
	}
}
