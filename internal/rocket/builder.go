package rocket

import (
	"math"
	"time"
)

// Builder turns submitted field values into immutable configurations.
// It holds no per-submit state; every call builds from its arguments.
type Builder struct {
	now       func() time.Time
	constants MotorConstants
}

// NewBuilder creates a Builder. A nil clock means time.Now.
func NewBuilder(constants MotorConstants, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	if constants.ThrustSource == "" {
		constants.ThrustSource = DefaultThrustSource
	}
	return &Builder{now: now, constants: constants}
}

// Constants returns the structural constants merged into every MotorConfig.
func (b *Builder) Constants() MotorConstants {
	return b.constants
}

// ForecastDate returns 12:00 UTC of the day after now's UTC calendar date.
func ForecastDate(now time.Time) time.Time {
	d := now.UTC()
	return time.Date(d.Year(), d.Month(), d.Day()+1, ForecastHourUTC, 0, 0, 0, time.UTC)
}

// BuildEnvironmentConfig validates the site fields and fixes the forecast
// date to tomorrow at noon UTC.
func (b *Builder) BuildEnvironmentConfig(lat, long float64, eleva int) (EnvironmentConfig, error) {
	cfg := EnvironmentConfig{
		Latitude:         lat,
		Longitude:        long,
		Elevation:        eleva,
		Date:             ForecastDate(b.now()),
		AtmosphericModel: AtmosphericModelForecast,
		ModelFile:        ForecastFileGFS,
	}

	if err := validate.Struct(cfg); err != nil {
		return EnvironmentConfig{}, RangeError(err)
	}
	return cfg, nil
}

type motorGeometry struct {
	NozzleRadius     float64 `validate:"gt=0"`
	ThroatRadius     float64 `validate:"gt=0"`
	GrainOuterRadius float64 `validate:"gt=0"`
	GrainInnerRadius float64 `validate:"gte=0"`
}

// BuildMotorConfig validates motor geometry locally and merges it with the
// structural constants. The thrust curve is not touched here.
func (b *Builder) BuildMotorConfig(nozzleRadius, throatRadius, nozzlePos, grainOutRad, grainInRad float64) (MotorConfig, error) {
	geom := motorGeometry{
		NozzleRadius:     nozzleRadius,
		ThroatRadius:     throatRadius,
		GrainOuterRadius: grainOutRad,
		GrainInnerRadius: grainInRad,
	}
	if err := validate.Struct(geom); err != nil {
		return MotorConfig{}, RangeError(err)
	}
	if math.IsNaN(nozzlePos) || math.IsInf(nozzlePos, 0) {
		return MotorConfig{}, NewError(ErrInputRange, nil, "NozzlePosition must be a finite number")
	}

	if grainInRad >= grainOutRad {
		return MotorConfig{}, NewError(ErrGeometry, nil,
			"grain inner radius %.4g m must be smaller than grain outer radius %.4g m", grainInRad, grainOutRad)
	}
	if throatRadius > nozzleRadius {
		return MotorConfig{}, NewError(ErrGeometry, nil,
			"throat radius %.4g m must not exceed nozzle radius %.4g m", throatRadius, nozzleRadius)
	}

	return MotorConfig{
		NozzleRadius:     nozzleRadius,
		ThroatRadius:     throatRadius,
		NozzlePosition:   nozzlePos,
		GrainOuterRadius: grainOutRad,
		GrainInnerRadius: grainInRad,
		MotorConstants:   b.constants,
	}, nil
}
