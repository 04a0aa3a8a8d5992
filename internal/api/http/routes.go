package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/rocket-sim-console/internal/display"
	"github.com/i474232898/rocket-sim-console/internal/metrics"
	"github.com/i474232898/rocket-sim-console/internal/rocket"
	"github.com/i474232898/rocket-sim-console/internal/store"
)

// Options tunes request handling.
type Options struct {
	// Timeout bounds the external calls of one submit.
	Timeout     time.Duration
	ChartWidth  int
	ChartHeight int
}

type handler struct {
	service *rocket.Service
	opts    Options
}

// runResponse is a run plus the chart picked for display.
type runResponse struct {
	rocket.Run
	Chart *display.Chart `json:"chart,omitempty"`
}

// RegisterRoutes wires the page and API handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *rocket.Service, opts Options) {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	h := &handler{service: service, opts: opts}

	app.Get("/", func(c *fiber.Ctx) error {
		return h.renderPage(c, fiber.StatusOK, newPageData(c))
	})
	app.Post("/environment", h.pageEnvironment)
	app.Post("/motor", h.pageMotor)

	v1 := app.Group("/api/v1")

	v1.Post("/environment", func(c *fiber.Ctx) error {
		run, err := h.submitEnvironment(c)
		if err != nil {
			return err
		}
		return c.JSON(h.environmentResponse(run, c.Query("series")))
	})

	v1.Post("/motor", func(c *fiber.Ctx) error {
		run, err := h.submitMotor(c)
		if err != nil {
			return err
		}
		return c.JSON(runResponse{Run: run})
	})

	v1.Post("/launch", func(c *fiber.Ctx) error {
		var launch rocket.LaunchRun
		err := h.timed("launch", func() error {
			f, err := bindLaunch(c)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(c.UserContext(), h.opts.Timeout)
			defer cancel()
			launch, err = h.service.SubmitLaunch(ctx, f.Environment.toInput(), f.Motor.toInput())
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"environment": h.environmentResponse(launch.Environment, c.Query("series")),
			"motor":       runResponse{Run: launch.Motor},
		})
	})

	v1.Get("/runs", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		if err := rocket.Validator().Var(limit, "gte=1,lte=100"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
		}
		return c.JSON(fiber.Map{
			"runs": h.service.ListRuns(limit),
		})
	})

	v1.Get("/runs/:id", func(c *fiber.Ctx) error {
		run, err := h.service.GetRun(c.Params("id"))
		if err != nil {
			return runLookupError(err)
		}
		if run.Kind == rocket.RunKindEnvironment {
			return c.JSON(h.environmentResponse(run, c.Query("series")))
		}
		return c.JSON(runResponse{Run: run})
	})

	v1.Get("/runs/:id/chart", func(c *fiber.Ctx) error {
		run, err := h.service.GetRun(c.Params("id"))
		if err != nil {
			return runLookupError(err)
		}
		width := c.QueryInt("width", h.opts.ChartWidth)
		height := c.QueryInt("height", h.opts.ChartHeight)
		if err := rocket.Validator().Var(width, "gte=10,lte=400"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "width must be between 10 and 400")
		}
		if err := rocket.Validator().Var(height, "gte=3,lte=100"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "height must be between 3 and 100")
		}

		chart := display.SelectSeries(run.Result, c.Query("series"))
		return c.SendString(display.RenderChart(chart, width, height))
	})
}

func runLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no run with that id in this session")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to load run")
}

func (h *handler) pageEnvironment(c *fiber.Ctx) error {
	run, err := h.submitEnvironment(c)
	if err != nil {
		return h.renderError(c, err)
	}
	data := newPageData(c)
	data.Result = h.environmentResult(run, c.FormValue("series"))
	return h.renderPage(c, fiber.StatusOK, data)
}

func (h *handler) pageMotor(c *fiber.Ctx) error {
	run, err := h.submitMotor(c)
	if err != nil {
		return h.renderError(c, err)
	}
	data := newPageData(c)
	data.Result = motorResult(run)
	return h.renderPage(c, fiber.StatusOK, data)
}

// submitEnvironment binds the environment group and runs the submit. A
// binding failure returns before the builder is reached.
func (h *handler) submitEnvironment(c *fiber.Ctx) (rocket.Run, error) {
	var run rocket.Run
	err := h.timed(string(rocket.RunKindEnvironment), func() error {
		f, err := bindEnvironment(c)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), h.opts.Timeout)
		defer cancel()
		run, err = h.service.SubmitEnvironment(ctx, f.toInput())
		return err
	})
	return run, err
}

func (h *handler) submitMotor(c *fiber.Ctx) (rocket.Run, error) {
	var run rocket.Run
	err := h.timed(string(rocket.RunKindMotor), func() error {
		f, err := bindMotor(c)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), h.opts.Timeout)
		defer cancel()
		run, err = h.service.SubmitMotor(ctx, f.toInput())
		return err
	})
	return run, err
}

func (h *handler) timed(kind string, fn func() error) error {
	start := time.Now()
	err := fn()

	outcome := "ok"
	if err != nil {
		outcome = rocket.KindName(err)
	}
	metrics.ObserveSubmission(kind, outcome, time.Since(start))
	return err
}

func (h *handler) environmentResponse(run rocket.Run, series string) runResponse {
	chart := display.SelectSeries(run.Result, series)
	return runResponse{Run: run, Chart: &chart}
}
