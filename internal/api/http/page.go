package httpapi

import (
	"bytes"
	"html/template"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/rocket-sim-console/internal/display"
	"github.com/i474232898/rocket-sim-console/internal/rocket"
	"github.com/i474232898/rocket-sim-console/web"
)

var pageTemplate = template.Must(template.ParseFS(web.Templates, "templates/index.html"))

// fieldSpec describes one numeric input; the browser enforces Min/Max/Step
// before anything is submitted.
type fieldSpec struct {
	Name  string
	Label string
	Min   string
	Max   string
	Step  string
	Value string
}

func environmentFields() []fieldSpec {
	return []fieldSpec{
		{Name: fieldLatitude, Label: "Latitude", Min: "-90", Max: "90", Step: "0.01"},
		{Name: fieldLongitude, Label: "Longitude", Min: "-180", Max: "180", Step: "0.01"},
		{Name: fieldElevation, Label: "Elevation (Meters)", Min: "0", Step: "1"},
	}
}

func motorFields() []fieldSpec {
	return []fieldSpec{
		{Name: fieldNozzleRadius, Label: "Nozzle Radius (Meters)", Min: "0.0001", Step: "0.0001"},
		{Name: fieldThroatRadius, Label: "Throat Radius (Meters)", Min: "0.0001", Step: "0.0001"},
		{Name: fieldNozzlePosition, Label: "Nozzle Position (Meters from the back)", Step: "0.0001"},
		{Name: fieldGrainOuterRadius, Label: "Grain Outer Radius (Meters)", Min: "0.0001", Step: "0.0001"},
		{Name: fieldGrainInnerRadius, Label: "Grain Inner Radius (Meters)", Min: "0", Step: "0.0001"},
	}
}

type pageResult struct {
	Title  string
	Report string
	Chart  string
	Series string
	RunID  string
}

type pageData struct {
	EnvironmentFields []fieldSpec
	MotorFields       []fieldSpec
	SeriesNames       []string
	SelectedSeries    string
	Result            *pageResult
	Error             string
	ErrorKind         string
}

// newPageData fills the inputs with whatever was submitted so a re-rendered
// page shows the values the result was built from.
func newPageData(c *fiber.Ctx) pageData {
	fill := func(fields []fieldSpec) []fieldSpec {
		for i := range fields {
			fields[i].Value = c.FormValue(fields[i].Name)
		}
		return fields
	}
	selected := c.FormValue("series")
	if selected == "" {
		selected = display.DefaultSeries
	}
	return pageData{
		SelectedSeries:    selected,
		EnvironmentFields: fill(environmentFields()),
		MotorFields:       fill(motorFields()),
		SeriesNames: []string{
			rocket.SeriesWindSpeed,
			rocket.SeriesWindDirection,
			rocket.SeriesTemperature,
			rocket.SeriesPressure,
		},
	}
}

func (h *handler) renderPage(c *fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func (h *handler) renderError(c *fiber.Ctx, err error) error {
	log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)

	data := newPageData(c)
	data.Error = rocket.UserMessage(err)
	data.ErrorKind = rocket.KindName(err)
	return h.renderPage(c, StatusFor(err), data)
}

func (h *handler) environmentResult(run rocket.Run, series string) *pageResult {
	chart := display.SelectSeries(run.Result, series)
	return &pageResult{
		Title:  "Environment details",
		Report: display.RenderReport(run.Result),
		Chart:  display.RenderChart(chart, h.opts.ChartWidth, h.opts.ChartHeight),
		Series: chart.Series,
		RunID:  run.ID,
	}
}

func motorResult(run rocket.Run) *pageResult {
	return &pageResult{
		Title:  "Motor details",
		Report: display.RenderReport(run.Result),
		RunID:  run.ID,
	}
}
