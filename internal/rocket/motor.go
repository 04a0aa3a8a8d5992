package rocket

import (
	"math"
)

// SolidMotor is a constructed motor ready to be attached to a rocket.
// Derived quantities are computed once from the configuration.
type SolidMotor struct {
	Config       MotorConfig `json:"config"`
	ThrustSource string      `json:"resolvedThrustSource"`
	ThrustBytes  int         `json:"thrustCurveBytes"`

	ThroatArea       float64 `json:"throatArea"`     // m²
	NozzleExitArea   float64 `json:"nozzleExitArea"` // m²
	ExpansionRatio   float64 `json:"expansionRatio"`
	GrainVolume      float64 `json:"grainVolume"`      // m³, one grain
	PropellantVolume float64 `json:"propellantVolume"` // m³, all grains
	PropellantMass   float64 `json:"propellantMass"`   // kg
	GrainStackLength float64 `json:"grainStackLength"` // m
	TotalMass        float64 `json:"totalMass"`        // kg, dry + propellant

	curve []byte
}

// NewSolidMotor assembles a motor from a validated configuration and its
// resolved thrust curve.
func NewSolidMotor(cfg MotorConfig, curve ThrustCurve) (*SolidMotor, error) {
	if len(curve.Data) == 0 {
		return nil, NewError(ErrConstruction, nil, "thrust curve %q is empty", curve.Reference)
	}
	if cfg.GrainNumber <= 0 || cfg.GrainDensity <= 0 || cfg.GrainInitialHeight <= 0 {
		return nil, NewError(ErrConstruction, nil,
			"grain number, density and height must be positive (got %d, %g, %g)",
			cfg.GrainNumber, cfg.GrainDensity, cfg.GrainInitialHeight)
	}
	if cfg.DryMass < 0 || cfg.BurnTime <= 0 {
		return nil, NewError(ErrConstruction, nil, "dry mass must be non-negative and burn time positive")
	}

	m := &SolidMotor{
		Config:       cfg,
		ThrustSource: curve.Reference,
		ThrustBytes:  len(curve.Data),
		curve:        curve.Data,
	}

	m.ThroatArea = math.Pi * cfg.ThroatRadius * cfg.ThroatRadius
	m.NozzleExitArea = math.Pi * cfg.NozzleRadius * cfg.NozzleRadius
	m.ExpansionRatio = m.NozzleExitArea / m.ThroatArea

	ro, ri := cfg.GrainOuterRadius, cfg.GrainInnerRadius
	m.GrainVolume = math.Pi * (ro*ro - ri*ri) * cfg.GrainInitialHeight
	m.PropellantVolume = m.GrainVolume * float64(cfg.GrainNumber)
	m.PropellantMass = m.PropellantVolume * cfg.GrainDensity
	m.GrainStackLength = float64(cfg.GrainNumber)*cfg.GrainInitialHeight +
		float64(cfg.GrainNumber-1)*cfg.GrainSeparation
	m.TotalMass = cfg.DryMass + m.PropellantMass

	return m, nil
}

// ThrustCurve returns the raw curve content the motor was built with.
func (m *SolidMotor) ThrustCurve() []byte {
	return m.curve
}
