package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound call made for one submit.
	HTTPTimeout time.Duration

	ForecastBaseURL string
	// Optional mirror queried alongside the primary forecast endpoint.
	ForecastFallbackURL string
	ThrustCurveSource   string
	GeocoderAPIKey      string

	// Motor structural constants, defaults overridden by MOTOR_CONSTANTS_FILE.
	MotorConstants rocket.MotorConstants

	// Session history retention.
	HistoryMaxRuns int           // max number of runs kept (0 = unlimited)
	HistoryMaxAge  time.Duration // max age of runs (0 = unlimited)
	PruneInterval  time.Duration

	ChartWidth  int
	ChartHeight int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ForecastBaseURL = getenvDefault("FORECAST_BASE_URL", "https://api.open-meteo.com/v1/gfs")
	cfg.ForecastFallbackURL = os.Getenv("FORECAST_FALLBACK_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.HistoryMaxAge, err = getenvDuration("HISTORY_MAX_AGE", "2h"); err != nil {
		return nil, err
	}
	if cfg.PruneInterval, err = getenvDuration("PRUNE_INTERVAL", "10m"); err != nil {
		return nil, err
	}

	cfg.HistoryMaxRuns = getenvInt("HISTORY_MAX_RUNS", 50)
	cfg.ChartWidth = getenvInt("CHART_WIDTH", 72)
	cfg.ChartHeight = getenvInt("CHART_HEIGHT", 12)

	constants := rocket.DefaultMotorConstants()
	if path := os.Getenv("MOTOR_CONSTANTS_FILE"); path != "" {
		constants, err = LoadMotorConstants(path)
		if err != nil {
			return nil, err
		}
	}
	// An explicit source wins over both the default and the constants file.
	if src := os.Getenv("THRUST_CURVE_SOURCE"); src != "" {
		constants.ThrustSource = src
	}
	cfg.MotorConstants = constants
	cfg.ThrustCurveSource = constants.ThrustSource

	return cfg, nil
}

// LoadMotorConstants reads a YAML file on top of the default constants, so
// the file only needs the keys it changes.
func LoadMotorConstants(path string) (rocket.MotorConstants, error) {
	constants := rocket.DefaultMotorConstants()

	data, err := os.ReadFile(path)
	if err != nil {
		return constants, fmt.Errorf("reading motor constants: %w", err)
	}
	if err := yaml.Unmarshal(data, &constants); err != nil {
		return constants, fmt.Errorf("invalid motor constants in %s: %w", path, err)
	}
	return constants, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
