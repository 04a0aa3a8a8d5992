package rocket

import (
	"fmt"
	"strings"
)

// EnvironmentReport summarises a forecast profile for the launch site.
func EnvironmentReport(cfg EnvironmentConfig, site string, p AtmosphereProfile) string {
	var b strings.Builder

	fmt.Fprintln(&b, "Launch Site Details")
	if site != "" {
		fmt.Fprintf(&b, "Site: %s\n", site)
	}
	fmt.Fprintf(&b, "Launch Date: %s UTC\n", cfg.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Launch Site Latitude: %.5f°\n", cfg.Latitude)
	fmt.Fprintf(&b, "Launch Site Longitude: %.5f°\n", cfg.Longitude)
	fmt.Fprintf(&b, "Launch Site Elevation: %d m\n", cfg.Elevation)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Atmospheric Model Details")
	fmt.Fprintf(&b, "Atmospheric Model Type: %s\n", cfg.AtmosphericModel)
	fmt.Fprintf(&b, "Forecast Model: %s (%s)\n", cfg.ModelFile, p.Provider)
	if !p.ValidAt.IsZero() {
		fmt.Fprintf(&b, "Forecast Valid At: %s UTC\n", p.ValidAt.UTC().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "Model Grid Elevation: %.1f m\n", p.GridElevation)
	fmt.Fprintf(&b, "Pressure Levels Above Site: %d\n", len(p.Levels))

	if len(p.Levels) == 0 {
		return b.String()
	}

	surface := p.Levels[0]
	top := p.Levels[len(p.Levels)-1]
	fmt.Fprintf(&b, "Maximum Height: %.1f m\n", top.HeightM)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Surface Atmospheric Conditions")
	fmt.Fprintf(&b, "Surface Wind Speed: %.2f m/s\n", surface.WindSpeedMS)
	fmt.Fprintf(&b, "Surface Wind Direction: %.2f°\n", surface.WindDirectionDeg)
	fmt.Fprintf(&b, "Surface Pressure: %.2f hPa\n", surface.PressureHpa)
	fmt.Fprintf(&b, "Surface Temperature: %.2f °C\n", surface.TemperatureC)

	peak := surface
	for _, l := range p.Levels[1:] {
		if l.WindSpeedMS > peak.WindSpeedMS {
			peak = l
		}
	}
	fmt.Fprintf(&b, "Peak Wind Speed: %.2f m/s at %.1f m\n", peak.WindSpeedMS, peak.HeightM)

	return b.String()
}

// MotorReport summarises a constructed solid motor.
func MotorReport(m *SolidMotor) string {
	var b strings.Builder
	c := m.Config

	fmt.Fprintln(&b, "Nozzle Details")
	fmt.Fprintf(&b, "Nozzle Radius: %.4f m\n", c.NozzleRadius)
	fmt.Fprintf(&b, "Nozzle Throat Radius: %.4f m\n", c.ThroatRadius)
	fmt.Fprintf(&b, "Nozzle Position: %.4f m\n", c.NozzlePosition)
	fmt.Fprintf(&b, "Expansion Ratio: %.3f\n", m.ExpansionRatio)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Grain Details")
	fmt.Fprintf(&b, "Number of Grains: %d\n", c.GrainNumber)
	fmt.Fprintf(&b, "Grain Spacing: %.4f m\n", c.GrainSeparation)
	fmt.Fprintf(&b, "Grain Density: %.1f kg/m3\n", c.GrainDensity)
	fmt.Fprintf(&b, "Grain Outer Radius: %.4f m\n", c.GrainOuterRadius)
	fmt.Fprintf(&b, "Grain Inner Radius: %.4f m\n", c.GrainInnerRadius)
	fmt.Fprintf(&b, "Grain Height: %.4f m\n", c.GrainInitialHeight)
	fmt.Fprintf(&b, "Grain Volume: %.6f m3\n", m.GrainVolume)
	fmt.Fprintf(&b, "Grain Stack Length: %.4f m\n", m.GrainStackLength)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Motor Details")
	fmt.Fprintf(&b, "Thrust Source: %s (%d bytes)\n", m.ThrustSource, m.ThrustBytes)
	fmt.Fprintf(&b, "Burn Time: %.2f s\n", c.BurnTime)
	fmt.Fprintf(&b, "Dry Mass: %.3f kg\n", c.DryMass)
	fmt.Fprintf(&b, "Dry Inertia: (%.3f, %.3f, %.3f) kg*m2\n", c.DryInertia[0], c.DryInertia[1], c.DryInertia[2])
	fmt.Fprintf(&b, "Propellant Mass: %.3f kg\n", m.PropellantMass)
	fmt.Fprintf(&b, "Total Mass: %.3f kg\n", m.TotalMass)
	fmt.Fprintf(&b, "Center of Dry Mass: %.3f m\n", c.CenterOfDryMassPosition)
	fmt.Fprintf(&b, "Grains Center of Mass: %.3f m\n", c.GrainsCenterOfMassPosition)
	fmt.Fprintf(&b, "Coordinate System: %s\n", c.CoordinateSystemOrientation)

	return b.String()
}
