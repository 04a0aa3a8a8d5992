package rocket

import (
	"context"
	"time"
)

// AtmosphereLevel is one pressure level of a forecast sounding.
type AtmosphereLevel struct {
	PressureHpa      float64 `json:"pressureHpa"`
	HeightM          float64 `json:"heightM"` // geopotential height above sea level
	TemperatureC     float64 `json:"temperatureC"`
	WindSpeedMS      float64 `json:"windSpeedMs"`
	WindDirectionDeg float64 `json:"windDirectionDeg"`
}

// AtmosphereProfile is the forecast sounding above a launch site, ordered
// from the lowest level upward.
type AtmosphereProfile struct {
	Provider      string            `json:"provider"`
	Model         string            `json:"model"`
	ValidAt       time.Time         `json:"validAt"`
	Latitude      float64           `json:"latitude"`
	Longitude     float64           `json:"longitude"`
	GridElevation float64           `json:"gridElevation"`
	Levels        []AtmosphereLevel `json:"levels"`
}

// Series flattens the profile into named series keyed like the chart options.
func (p AtmosphereProfile) Series() map[string][]float64 {
	n := len(p.Levels)
	series := map[string][]float64{
		SeriesWindSpeed:     make([]float64, 0, n),
		SeriesWindDirection: make([]float64, 0, n),
		SeriesTemperature:   make([]float64, 0, n),
		SeriesPressure:      make([]float64, 0, n),
		SeriesHeight:        make([]float64, 0, n),
	}
	for _, l := range p.Levels {
		series[SeriesWindSpeed] = append(series[SeriesWindSpeed], l.WindSpeedMS)
		series[SeriesWindDirection] = append(series[SeriesWindDirection], l.WindDirectionDeg)
		series[SeriesTemperature] = append(series[SeriesTemperature], l.TemperatureC)
		series[SeriesPressure] = append(series[SeriesPressure], l.PressureHpa)
		series[SeriesHeight] = append(series[SeriesHeight], l.HeightM)
	}
	return series
}

// AtmosphereProvider abstracts the forecast engine (e.g. Open-Meteo GFS).
type AtmosphereProvider interface {
	Name() string
	Forecast(ctx context.Context, cfg EnvironmentConfig) (AtmosphereProfile, error)
}

// ThrustCurve is the raw thrust curve resource. Its content is opaque here.
type ThrustCurve struct {
	Reference string
	Data      []byte
}

// ThrustCurveSource resolves a thrust curve reference (bundled asset, file
// path or URL) into its content.
type ThrustCurveSource interface {
	Resolve(ctx context.Context, ref string) (ThrustCurve, error)
}

// SiteNamer optionally turns coordinates into a human readable place name.
type SiteNamer interface {
	Name(ctx context.Context, lat, lon float64) (string, error)
}

// Store is the contract the session run history must satisfy.
type Store interface {
	Save(run Run)
	Get(id string) (Run, error)
	Latest(limit int) []Run
}
