package rocket

import (
	"time"
)

// Atmospheric model identifiers passed to the forecast provider.
const (
	AtmosphericModelForecast = "Forecast"
	ForecastFileGFS          = "GFS"
)

// ForecastHourUTC is the hour of day used for every environment forecast.
const ForecastHourUTC = 12

// EnvironmentConfig is the validated launch site description for one submit.
// Values are copied around by value; nothing mutates them after construction.
type EnvironmentConfig struct {
	Latitude         float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64   `json:"longitude" validate:"gte=-180,lte=180"`
	Elevation        int       `json:"elevation" validate:"gte=0"`
	Date             time.Time `json:"date"` // always UTC, hour ForecastHourUTC
	AtmosphericModel string    `json:"atmosphericModel"`
	ModelFile        string    `json:"modelFile"`
}

// Vector3 is a principal-axes triple (e.g. dry inertia I11, I22, I33).
type Vector3 [3]float64

// MotorConstants are the structural parameters of the motor that users never
// enter. Defaults live in DefaultMotorConstants; operators may override them.
type MotorConstants struct {
	ThrustSource                string  `json:"thrustSource" yaml:"thrust_source"`
	DryMass                     float64 `json:"dryMass" yaml:"dry_mass"`
	DryInertia                  Vector3 `json:"dryInertia" yaml:"dry_inertia"`
	GrainNumber                 int     `json:"grainNumber" yaml:"grain_number"`
	GrainDensity                float64 `json:"grainDensity" yaml:"grain_density"`
	GrainInitialHeight          float64 `json:"grainInitialHeight" yaml:"grain_initial_height"`
	GrainSeparation             float64 `json:"grainSeparation" yaml:"grain_separation"`
	GrainsCenterOfMassPosition  float64 `json:"grainsCenterOfMassPosition" yaml:"grains_center_of_mass_position"`
	CenterOfDryMassPosition     float64 `json:"centerOfDryMassPosition" yaml:"center_of_dry_mass_position"`
	BurnTime                    float64 `json:"burnTime" yaml:"burn_time"`
	CoordinateSystemOrientation string  `json:"coordinateSystemOrientation" yaml:"coordinate_system_orientation"`
}

// DefaultThrustSource points at the Cesaroni M1670 curve bundled with the binary.
const DefaultThrustSource = "bundle://Cesaroni_M1670.eng"

// DefaultMotorConstants returns the Cesaroni M1670 structural constants.
func DefaultMotorConstants() MotorConstants {
	return MotorConstants{
		ThrustSource:                DefaultThrustSource,
		DryMass:                     1.815,
		DryInertia:                  Vector3{0.125, 0.125, 0.002},
		GrainNumber:                 5,
		GrainDensity:                1815,
		GrainInitialHeight:          120.0 / 1000,
		GrainSeparation:             5.0 / 1000,
		GrainsCenterOfMassPosition:  0.397,
		CenterOfDryMassPosition:     0.317,
		BurnTime:                    3.9,
		CoordinateSystemOrientation: "nozzle_to_combustion_chamber",
	}
}

// MotorConfig is user supplied solid motor geometry merged with the fixed
// structural constants. All lengths are in meters.
type MotorConfig struct {
	NozzleRadius     float64 `json:"nozzleRadius"`
	ThroatRadius     float64 `json:"throatRadius"`
	NozzlePosition   float64 `json:"nozzlePosition"`
	GrainOuterRadius float64 `json:"grainOuterRadius"`
	GrainInnerRadius float64 `json:"grainInnerRadius"`

	MotorConstants
}

// SimulationResult is what the display layer reads: a report and named
// series, each ordered by its natural index.
type SimulationResult struct {
	Report string               `json:"report"`
	Series map[string][]float64 `json:"series,omitempty"`
}

// Series names produced for an environment result.
const (
	SeriesWindSpeed     = "wind_speed"
	SeriesWindDirection = "wind_direction"
	SeriesTemperature   = "temperature"
	SeriesPressure      = "pressure"
	SeriesHeight        = "height"
)

// RunKind tells which submit flow produced a run.
type RunKind string

const (
	RunKindEnvironment RunKind = "environment"
	RunKindMotor       RunKind = "motor"
)

// Run is one completed submit, kept in the session history for re-display.
type Run struct {
	ID          string             `json:"id"`
	Kind        RunKind            `json:"kind"`
	SubmittedAt time.Time          `json:"submittedAt"`
	Environment *EnvironmentConfig `json:"environment,omitempty"`
	Motor       *SolidMotor        `json:"motor,omitempty"`
	Result      SimulationResult   `json:"result"`
}

// LaunchRun groups one environment and one motor run submitted together.
type LaunchRun struct {
	Environment Run `json:"environment"`
	Motor       Run `json:"motor"`
}
