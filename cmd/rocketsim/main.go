package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/i474232898/rocket-sim-console/assets"
	httpapi "github.com/i474232898/rocket-sim-console/internal/api/http"
	"github.com/i474232898/rocket-sim-console/internal/config"
	"github.com/i474232898/rocket-sim-console/internal/display"
	"github.com/i474232898/rocket-sim-console/internal/metrics"
	"github.com/i474232898/rocket-sim-console/internal/rocket"
	"github.com/i474232898/rocket-sim-console/internal/rocket/providers"
	"github.com/i474232898/rocket-sim-console/internal/scheduler"
	"github.com/i474232898/rocket-sim-console/internal/store"
)

var (
	lat, long    float64
	elevation    int
	series       string
	nozzleRadius float64
	throatRadius float64
	nozzlePos    float64
	grainOutRad  float64
	grainInRad   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rocketsim",
		Short:        "launch site and motor configuration console",
		SilenceUsage: true,
		RunE:         serve,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the form page and JSON API",
		RunE:  serve,
	}

	envCmd := &cobra.Command{
		Use:   "environment",
		Short: "build an environment configuration and print its forecast",
		RunE:  runEnvironment,
	}
	envCmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees [-90, 90]")
	envCmd.Flags().Float64Var(&long, "long", 0, "longitude in degrees [-180, 180]")
	envCmd.Flags().IntVar(&elevation, "elevation", 0, "site elevation in meters (>= 0)")
	envCmd.Flags().StringVar(&series, "series", display.DefaultSeries, "series to plot")
	for _, f := range []string{"lat", "long", "elevation"} {
		_ = envCmd.MarkFlagRequired(f)
	}

	motorCmd := &cobra.Command{
		Use:   "motor",
		Short: "build a solid motor from its geometry",
		RunE:  runMotor,
	}
	motorCmd.Flags().Float64Var(&nozzleRadius, "nozzle-radius", 0, "nozzle radius (m)")
	motorCmd.Flags().Float64Var(&throatRadius, "throat-radius", 0, "throat radius (m)")
	motorCmd.Flags().Float64Var(&nozzlePos, "nozzle-position", 0, "nozzle position from the back (m)")
	motorCmd.Flags().Float64Var(&grainOutRad, "grain-outer-radius", 0, "grain outer radius (m)")
	motorCmd.Flags().Float64Var(&grainInRad, "grain-inner-radius", 0, "grain inner radius (m)")
	for _, f := range []string{"nozzle-radius", "throat-radius", "grain-outer-radius", "grain-inner-radius"} {
		_ = motorCmd.MarkFlagRequired(f)
	}

	rootCmd.AddCommand(serveCmd, envCmd, motorCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService wires the builder, external engines and session history.
func newService(cfg *config.AppConfig) (*rocket.Service, *store.MemoryStore) {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.HistoryMaxRuns, cfg.HistoryMaxAge).WithClock(time.Now)

	var atmosphere rocket.AtmosphereProvider = providers.NewOpenMeteoProvider(httpClient, cfg.ForecastBaseURL)
	if cfg.ForecastFallbackURL != "" {
		atmosphere = providers.NewAtmosphereChain(
			atmosphere,
			providers.NewOpenMeteoProvider(httpClient, cfg.ForecastFallbackURL).Named("openmeteo-fallback"),
		)
	}
	curves := providers.NewThrustCurveResolver(assets.Motors, httpClient)

	// Site naming needs a Google API key and is skipped without one.
	var namer rocket.SiteNamer
	if n := providers.NewGoogleSiteNamer(cfg.GeocoderAPIKey); n != nil {
		namer = n
	}

	builder := rocket.NewBuilder(cfg.MotorConstants, time.Now)
	return rocket.NewService(builder, atmosphere, curves, namer, memStore), memStore
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	service, memStore := newService(cfg)

	// Scheduler that expires old runs from the session history.
	sched := scheduler.New(memStore, cfg.PruneInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "rocket-sim-console",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(metrics.Middleware())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "rocket-sim-console",
		})
	})
	app.Get("/metrics", metrics.Handler())

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		Timeout:     cfg.HTTPTimeout,
		ChartWidth:  cfg.ChartWidth,
		ChartHeight: cfg.ChartHeight,
	})

	go func() {
		log.Printf("INFO: listening on :%s (thrust curve %s)", cfg.Port, cfg.ThrustCurveSource)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}

func runEnvironment(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	service, _ := newService(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
	defer cancel()

	run, err := service.SubmitEnvironment(ctx, rocket.EnvironmentInput{
		Latitude:  lat,
		Longitude: long,
		Elevation: elevation,
	})
	if err != nil {
		return cliError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Environment details")
	fmt.Fprintln(out, display.RenderReport(run.Result))
	fmt.Fprintln(out, "Plots")
	fmt.Fprintln(out, display.RenderChart(display.SelectSeries(run.Result, series), cfg.ChartWidth, cfg.ChartHeight))
	return nil
}

func runMotor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	service, _ := newService(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
	defer cancel()

	run, err := service.SubmitMotor(ctx, rocket.MotorInput{
		NozzleRadius:     nozzleRadius,
		ThroatRadius:     throatRadius,
		NozzlePosition:   nozzlePos,
		GrainOuterRadius: grainOutRad,
		GrainInnerRadius: grainInRad,
	})
	if err != nil {
		return cliError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Motor details")
	fmt.Fprintln(out, display.RenderReport(run.Result))
	return nil
}

func cliError(err error) error {
	log.Printf("ERROR: %v", err)
	return fmt.Errorf("%s: %s", rocket.KindName(err), rocket.UserMessage(err))
}
