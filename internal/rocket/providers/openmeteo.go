package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
	"github.com/sony/gobreaker"
)

// DefaultOpenMeteoGFSURL is the Open-Meteo GFS forecast endpoint.
const DefaultOpenMeteoGFSURL = "https://api.open-meteo.com/v1/gfs"

// gfsPressureLevels are the GFS isobaric levels requested, in hPa, surface first.
var gfsPressureLevels = []int{1000, 975, 950, 925, 900, 850, 800, 700, 600, 500, 400, 300, 250, 200, 150, 100, 70, 50}

const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements rocket.AtmosphereProvider with the Open-Meteo
// GFS pressure level forecast.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoGFSURL
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Named sets the name reported in logs and profiles, for telling mirrors apart.
func (p *OpenMeteoProvider) Named(name string) *OpenMeteoProvider {
	p.name = name
	return p
}

// withBackoff overrides the retry policy; tests use it to avoid sleeping.
func (p *OpenMeteoProvider) withBackoff(b BackoffConfig) *OpenMeteoProvider {
	p.httpCfg.Backoff = b
	return p
}

func levelVariables() []string {
	vars := make([]string, 0, len(gfsPressureLevels)*4)
	for _, lvl := range gfsPressureLevels {
		vars = append(vars,
			fmt.Sprintf("temperature_%dhPa", lvl),
			fmt.Sprintf("wind_speed_%dhPa", lvl),
			fmt.Sprintf("wind_direction_%dhPa", lvl),
			fmt.Sprintf("geopotential_height_%dhPa", lvl),
		)
	}
	return vars
}

// Forecast fetches the sounding valid at cfg.Date above the launch site.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, cfg rocket.EnvironmentConfig) (rocket.AtmosphereProfile, error) {
	day := cfg.Date.UTC().Format("2006-01-02")

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(cfg.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(cfg.Longitude, 'f', -1, 64))
		values.Set("hourly", strings.Join(levelVariables(), ","))
		values.Set("start_date", day)
		values.Set("end_date", day)
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", "GMT")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return rocket.AtmosphereProfile{}, rocket.NewError(rocket.ErrDataUnavailable, err,
			"%s forecast for %s is unavailable", cfg.ModelFile, day)
	}
	defer resp.Body.Close()

	var payload struct {
		Latitude  float64                    `json:"latitude"`
		Longitude float64                    `json:"longitude"`
		Elevation float64                    `json:"elevation"`
		Hourly    map[string]json.RawMessage `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return rocket.AtmosphereProfile{}, rocket.NewError(rocket.ErrDataUnavailable, err, "malformed forecast response")
	}

	idx, err := hourIndex(payload.Hourly, cfg.Date.UTC().Format(openMeteoTimeLayout))
	if err != nil {
		return rocket.AtmosphereProfile{}, rocket.NewError(rocket.ErrDataUnavailable, err,
			"forecast has no sample for %s UTC", cfg.Date.UTC().Format(openMeteoTimeLayout))
	}

	levels := make([]rocket.AtmosphereLevel, 0, len(gfsPressureLevels))
	for _, lvl := range gfsPressureLevels {
		height, ok1 := sample(payload.Hourly, fmt.Sprintf("geopotential_height_%dhPa", lvl), idx)
		temp, ok2 := sample(payload.Hourly, fmt.Sprintf("temperature_%dhPa", lvl), idx)
		speed, ok3 := sample(payload.Hourly, fmt.Sprintf("wind_speed_%dhPa", lvl), idx)
		dir, ok4 := sample(payload.Hourly, fmt.Sprintf("wind_direction_%dhPa", lvl), idx)
		if !(ok1 && ok2 && ok3 && ok4) {
			continue
		}
		// Levels under the ground at the launch site are meaningless.
		if height < float64(cfg.Elevation) {
			continue
		}
		levels = append(levels, rocket.AtmosphereLevel{
			PressureHpa:      float64(lvl),
			HeightM:          height,
			TemperatureC:     temp,
			WindSpeedMS:      speed,
			WindDirectionDeg: dir,
		})
	}

	if len(levels) == 0 {
		return rocket.AtmosphereProfile{}, rocket.NewError(rocket.ErrDataUnavailable, nil,
			"forecast returned no usable pressure levels above %d m", cfg.Elevation)
	}

	sort.SliceStable(levels, func(i, j int) bool { return levels[i].HeightM < levels[j].HeightM })

	return rocket.AtmosphereProfile{
		Provider:      p.name,
		Model:         cfg.ModelFile,
		ValidAt:       cfg.Date.UTC(),
		Latitude:      payload.Latitude,
		Longitude:     payload.Longitude,
		GridElevation: payload.Elevation,
		Levels:        levels,
	}, nil
}

func hourIndex(hourly map[string]json.RawMessage, want string) (int, error) {
	raw, ok := hourly["time"]
	if !ok {
		return 0, fmt.Errorf("hourly.time missing")
	}
	var times []string
	if err := json.Unmarshal(raw, &times); err != nil {
		return 0, fmt.Errorf("hourly.time: %w", err)
	}
	for i, ts := range times {
		if ts == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("time %s not in response", want)
}

// sample returns hourly[key][idx]; ok is false for missing keys and nulls.
func sample(hourly map[string]json.RawMessage, key string, idx int) (float64, bool) {
	raw, ok := hourly[key]
	if !ok {
		return 0, false
	}
	var values []*float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return 0, false
	}
	if idx >= len(values) || values[idx] == nil {
		return 0, false
	}
	return *values[idx], true
}
