package rocket

import (
	"errors"
	"math"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestForecastDateIsNextDayNoonUTC(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2026, 10, 15, 0, 0, 1, 0, time.UTC), time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)},
		{time.Date(2026, 10, 15, 23, 59, 59, 0, time.UTC), time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)},
		{time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC)},
		{time.Date(2028, 2, 28, 9, 0, 0, 0, time.UTC), time.Date(2028, 2, 29, 12, 0, 0, 0, time.UTC)},
		// 20:00 in UTC-5 is already the 16th in UTC.
		{time.Date(2026, 10, 15, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)), time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := ForecastDate(tt.now)
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Errorf("ForecastDate(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestBuildEnvironmentConfigScenario(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	b := NewBuilder(DefaultMotorConstants(), fixedClock(now))

	cfg, err := b.BuildEnvironmentConfig(28.5, -80.6, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Latitude != 28.5 || cfg.Longitude != -80.6 || cfg.Elevation != 3 {
		t.Errorf("unexpected site fields: %+v", cfg)
	}
	want := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	if !cfg.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, cfg.Date)
	}
	if cfg.AtmosphericModel != AtmosphericModelForecast || cfg.ModelFile != ForecastFileGFS {
		t.Errorf("unexpected model %s/%s", cfg.AtmosphericModel, cfg.ModelFile)
	}
}

func TestBuildEnvironmentConfigDateIgnoresSite(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	b := NewBuilder(DefaultMotorConstants(), fixedClock(now))

	sites := [][3]float64{{0, 0, 0}, {-90, 180, 8848}, {90, -180, 1}, {45.96, 63.30, 90}}
	for _, s := range sites {
		cfg, err := b.BuildEnvironmentConfig(s[0], s[1], int(s[2]))
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", s, err)
		}
		if !cfg.Date.Equal(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("site %v: unexpected date %v", s, cfg.Date)
		}
	}
}

func TestBuildEnvironmentConfigIdempotentSameDay(t *testing.T) {
	b := NewBuilder(DefaultMotorConstants(), fixedClock(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)))

	first, err := b.BuildEnvironmentConfig(28.5, -80.6, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := b.BuildEnvironmentConfig(28.5, -80.6, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical configs, got %+v and %+v", first, second)
	}
}

func TestBuildEnvironmentConfigRejectsOutOfRange(t *testing.T) {
	b := NewBuilder(DefaultMotorConstants(), nil)

	tests := []struct {
		lat, long float64
		eleva     int
	}{
		{90.01, 0, 0},
		{-90.01, 0, 0},
		{0, 180.5, 0},
		{0, -181, 0},
		{0, 0, -1},
		{math.NaN(), 0, 0},
	}
	for _, tt := range tests {
		_, err := b.BuildEnvironmentConfig(tt.lat, tt.long, tt.eleva)
		if !errors.Is(err, ErrInputRange) {
			t.Errorf("(%v, %v, %d): expected ErrInputRange, got %v", tt.lat, tt.long, tt.eleva, err)
		}
	}
}

func TestBuildMotorConfigScenario(t *testing.T) {
	b := NewBuilder(DefaultMotorConstants(), nil)

	cfg, err := b.BuildMotorConfig(0.033, 0.011, 0, 0.033, 0.015)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.NozzleRadius != 0.033 || cfg.ThroatRadius != 0.011 || cfg.NozzlePosition != 0 ||
		cfg.GrainOuterRadius != 0.033 || cfg.GrainInnerRadius != 0.015 {
		t.Errorf("unexpected geometry: %+v", cfg)
	}
	if cfg.DryMass != 1.815 || cfg.BurnTime != 3.9 || cfg.GrainNumber != 5 {
		t.Errorf("unexpected constants: %+v", cfg.MotorConstants)
	}
	if cfg.GrainDensity != 1815 || cfg.GrainInitialHeight != 0.12 || cfg.GrainSeparation != 0.005 {
		t.Errorf("unexpected grain constants: %+v", cfg.MotorConstants)
	}
	if cfg.DryInertia != (Vector3{0.125, 0.125, 0.002}) {
		t.Errorf("unexpected dry inertia %v", cfg.DryInertia)
	}
	if cfg.CoordinateSystemOrientation != "nozzle_to_combustion_chamber" {
		t.Errorf("unexpected orientation %q", cfg.CoordinateSystemOrientation)
	}
	if cfg.ThrustSource != DefaultThrustSource {
		t.Errorf("unexpected thrust source %q", cfg.ThrustSource)
	}
}

func TestBuildMotorConfigRejectsInvertedGrain(t *testing.T) {
	b := NewBuilder(DefaultMotorConstants(), nil)

	for _, in := range []float64{0.05, 0.033} {
		_, err := b.BuildMotorConfig(0.033, 0.011, 0, 0.033, in)
		if !errors.Is(err, ErrGeometry) {
			t.Fatalf("inner %v: expected ErrGeometry, got %v", in, err)
		}
		if !errors.Is(err, ErrConstruction) {
			t.Errorf("geometry errors must also be construction errors")
		}
		if errors.Is(err, ErrInputRange) {
			t.Errorf("geometry errors must not be input range errors")
		}
	}
}

func TestBuildMotorConfigRejectsThroatWiderThanNozzle(t *testing.T) {
	b := NewBuilder(DefaultMotorConstants(), nil)

	_, err := b.BuildMotorConfig(0.011, 0.033, 0, 0.033, 0.015)
	if !errors.Is(err, ErrGeometry) {
		t.Fatalf("expected ErrGeometry, got %v", err)
	}
}

func TestBuildMotorConfigRejectsNonPositive(t *testing.T) {
	b := NewBuilder(DefaultMotorConstants(), nil)

	tests := [][5]float64{
		{0, 0.011, 0, 0.033, 0.015},
		{0.033, 0, 0, 0.033, 0.015},
		{0.033, 0.011, 0, 0, 0},
		{0.033, 0.011, 0, 0.033, -0.001},
		{0.033, 0.011, math.Inf(1), 0.033, 0.015},
	}
	for _, tt := range tests {
		_, err := b.BuildMotorConfig(tt[0], tt[1], tt[2], tt[3], tt[4])
		if !errors.Is(err, ErrInputRange) {
			t.Errorf("%v: expected ErrInputRange, got %v", tt, err)
		}
	}
}

func TestNewBuilderFillsThrustSource(t *testing.T) {
	c := DefaultMotorConstants()
	c.ThrustSource = ""
	if got := NewBuilder(c, nil).Constants().ThrustSource; got != DefaultThrustSource {
		t.Errorf("expected default thrust source, got %q", got)
	}
}
