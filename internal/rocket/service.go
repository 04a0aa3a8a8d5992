package rocket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// EnvironmentInput is the raw field group behind the environment submit.
type EnvironmentInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation int     `json:"elevation"`
}

// MotorInput is the raw field group behind the motor submit.
type MotorInput struct {
	NozzleRadius     float64 `json:"nozzleRadius"`
	ThroatRadius     float64 `json:"throatRadius"`
	NozzlePosition   float64 `json:"nozzlePosition"`
	GrainOuterRadius float64 `json:"grainOuterRadius"`
	GrainInnerRadius float64 `json:"grainInnerRadius"`
}

// Service runs a submit end to end: build the configuration, hand it to the
// external engines, produce the result and record the run.
type Service struct {
	builder    *Builder
	atmosphere AtmosphereProvider
	curves     ThrustCurveSource
	namer      SiteNamer
	store      Store
	now        func() time.Time
}

// NewService creates a new Service. namer may be nil.
func NewService(builder *Builder, atmosphere AtmosphereProvider, curves ThrustCurveSource, namer SiteNamer, store Store) *Service {
	return &Service{
		builder:    builder,
		atmosphere: atmosphere,
		curves:     curves,
		namer:      namer,
		store:      store,
		now:        builder.now,
	}
}

// Builder exposes the configuration builder used by the service.
func (s *Service) Builder() *Builder {
	return s.builder
}

// SubmitEnvironment builds an EnvironmentConfig and fetches its forecast.
func (s *Service) SubmitEnvironment(ctx context.Context, in EnvironmentInput) (Run, error) {
	cfg, err := s.builder.BuildEnvironmentConfig(in.Latitude, in.Longitude, in.Elevation)
	if err != nil {
		return Run{}, err
	}

	if s.atmosphere == nil {
		return Run{}, NewError(ErrDataUnavailable, nil, "no forecast provider configured")
	}

	log.Printf("DEBUG: forecasting %s for %.4f,%.4f on %s", cfg.ModelFile, cfg.Latitude, cfg.Longitude, cfg.Date.Format(time.RFC3339))
	profile, err := s.atmosphere.Forecast(ctx, cfg)
	if err != nil {
		return Run{}, classify(err, ErrDataUnavailable, "forecast from %s failed", s.atmosphere.Name())
	}

	site := s.siteName(ctx, cfg)

	run := Run{
		ID:          uuid.NewString(),
		Kind:        RunKindEnvironment,
		SubmittedAt: s.now().UTC(),
		Environment: &cfg,
		Result: SimulationResult{
			Report: EnvironmentReport(cfg, site, profile),
			Series: profile.Series(),
		},
	}
	s.record(run)
	return run, nil
}

// SubmitMotor builds a MotorConfig, resolves its thrust curve and assembles
// the motor.
func (s *Service) SubmitMotor(ctx context.Context, in MotorInput) (Run, error) {
	cfg, err := s.builder.BuildMotorConfig(in.NozzleRadius, in.ThroatRadius, in.NozzlePosition, in.GrainOuterRadius, in.GrainInnerRadius)
	if err != nil {
		return Run{}, err
	}

	if s.curves == nil {
		return Run{}, NewError(ErrResourceNotFound, nil, "no thrust curve source configured")
	}

	curve, err := s.curves.Resolve(ctx, cfg.ThrustSource)
	if err != nil {
		return Run{}, classify(err, ErrResourceNotFound, "thrust curve %q could not be resolved", cfg.ThrustSource)
	}

	motor, err := NewSolidMotor(cfg, curve)
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:          uuid.NewString(),
		Kind:        RunKindMotor,
		SubmittedAt: s.now().UTC(),
		Motor:       motor,
		Result: SimulationResult{
			Report: MotorReport(motor),
		},
	}
	s.record(run)
	return run, nil
}

// SubmitLaunch runs both submit flows for one request. The two
// configurations stay independent; the motor is only built once the
// environment succeeded.
func (s *Service) SubmitLaunch(ctx context.Context, env EnvironmentInput, motor MotorInput) (LaunchRun, error) {
	envRun, err := s.SubmitEnvironment(ctx, env)
	if err != nil {
		return LaunchRun{}, err
	}
	motorRun, err := s.SubmitMotor(ctx, motor)
	if err != nil {
		return LaunchRun{}, err
	}
	return LaunchRun{Environment: envRun, Motor: motorRun}, nil
}

// GetRun returns a run recorded in this session.
func (s *Service) GetRun(id string) (Run, error) {
	return s.store.Get(id)
}

// ListRuns returns up to limit runs, newest first.
func (s *Service) ListRuns(limit int) []Run {
	return s.store.Latest(limit)
}

func (s *Service) siteName(ctx context.Context, cfg EnvironmentConfig) string {
	if s.namer == nil {
		return ""
	}
	name, err := s.namer.Name(ctx, cfg.Latitude, cfg.Longitude)
	if err != nil {
		log.Printf("INFO: site lookup for %.4f,%.4f failed: %v", cfg.Latitude, cfg.Longitude, err)
		return ""
	}
	return name
}

func (s *Service) record(run Run) {
	if s.store != nil {
		s.store.Save(run)
	}
}

// classify keeps already classified errors and wraps anything else in kind.
func classify(err error, kind error, format string, args ...any) error {
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewError(kind, err, "%s (timed out)", fmt.Sprintf(format, args...))
	}
	return NewError(kind, err, format, args...)
}
