package rocket

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeAtmosphere struct {
	calls   int
	last    EnvironmentConfig
	profile AtmosphereProfile
	err     error
}

func (f *fakeAtmosphere) Name() string { return "fake" }

func (f *fakeAtmosphere) Forecast(ctx context.Context, cfg EnvironmentConfig) (AtmosphereProfile, error) {
	f.calls++
	f.last = cfg
	return f.profile, f.err
}

type fakeCurves struct {
	curves map[string][]byte
	err    error
}

func (f *fakeCurves) Resolve(ctx context.Context, ref string) (ThrustCurve, error) {
	if f.err != nil {
		return ThrustCurve{}, f.err
	}
	data, ok := f.curves[ref]
	if !ok {
		return ThrustCurve{}, NewError(ErrResourceNotFound, nil, "no curve %q", ref)
	}
	return ThrustCurve{Reference: ref, Data: data}, nil
}

type fakeNamer struct {
	name string
	err  error
}

func (f fakeNamer) Name(ctx context.Context, lat, lon float64) (string, error) {
	return f.name, f.err
}

type sliceStore struct {
	mu   sync.Mutex
	runs []Run
}

func (s *sliceStore) Save(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
}

func (s *sliceStore) Get(id string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return Run{}, errors.New("not found")
}

func (s *sliceStore) Latest(limit int) []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Run, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		out = append(out, s.runs[i])
	}
	return out
}

func testProfile() AtmosphereProfile {
	return AtmosphereProfile{
		Provider:      "fake",
		Model:         ForecastFileGFS,
		GridElevation: 4,
		Levels: []AtmosphereLevel{
			{PressureHpa: 1000, HeightM: 110, TemperatureC: 26.1, WindSpeedMS: 3.2, WindDirectionDeg: 90},
			{PressureHpa: 850, HeightM: 1520, TemperatureC: 17.4, WindSpeedMS: 8.9, WindDirectionDeg: 120},
			{PressureHpa: 500, HeightM: 5880, TemperatureC: -6.0, WindSpeedMS: 14.5, WindDirectionDeg: 250},
		},
	}
}

func newTestService(atm *fakeAtmosphere, curves *fakeCurves, namer SiteNamer) (*Service, *sliceStore) {
	st := &sliceStore{}
	b := NewBuilder(DefaultMotorConstants(), fixedClock(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)))
	var src ThrustCurveSource
	if curves != nil {
		src = curves
	}
	return NewService(b, atm, src, namer, st), st
}

func TestSubmitEnvironment(t *testing.T) {
	atm := &fakeAtmosphere{profile: testProfile()}
	svc, st := newTestService(atm, nil, fakeNamer{name: "Cape Canaveral, FL, USA"})

	run, err := svc.SubmitEnvironment(context.Background(), EnvironmentInput{Latitude: 28.5, Longitude: -80.6, Elevation: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atm.calls != 1 {
		t.Fatalf("expected one forecast call, got %d", atm.calls)
	}
	if !atm.last.Date.Equal(time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected forecast date %v", atm.last.Date)
	}
	if run.ID == "" || run.Kind != RunKindEnvironment || run.Environment == nil {
		t.Fatalf("unexpected run %+v", run)
	}

	ws := run.Result.Series[SeriesWindSpeed]
	if len(ws) != 3 || ws[0] != 3.2 || ws[2] != 14.5 {
		t.Errorf("unexpected wind_speed series %v", ws)
	}
	for _, want := range []string{"Cape Canaveral", "Launch Site Latitude: 28.50000", "Peak Wind Speed: 14.50 m/s"} {
		if !strings.Contains(run.Result.Report, want) {
			t.Errorf("report missing %q:\n%s", want, run.Result.Report)
		}
	}
	if len(st.runs) != 1 {
		t.Errorf("expected run to be recorded")
	}
}

func TestSubmitEnvironmentRangeSkipsForecast(t *testing.T) {
	atm := &fakeAtmosphere{profile: testProfile()}
	svc, st := newTestService(atm, nil, nil)

	_, err := svc.SubmitEnvironment(context.Background(), EnvironmentInput{Latitude: 91, Longitude: 0})
	if !errors.Is(err, ErrInputRange) {
		t.Fatalf("expected ErrInputRange, got %v", err)
	}
	if atm.calls != 0 {
		t.Errorf("forecast must not be called for invalid input")
	}
	if len(st.runs) != 0 {
		t.Errorf("failed submits must not be recorded")
	}
}

func TestSubmitEnvironmentClassifiesProviderFailure(t *testing.T) {
	atm := &fakeAtmosphere{err: errors.New("dial tcp: connection refused")}
	svc, _ := newTestService(atm, nil, nil)

	_, err := svc.SubmitEnvironment(context.Background(), EnvironmentInput{Latitude: 1, Longitude: 1})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("cause must be kept, got %v", err)
	}
	if UserMessage(err) == "" || strings.Contains(UserMessage(err), "tcp") {
		t.Errorf("user message should be readable without the cause, got %q", UserMessage(err))
	}
}

func TestSubmitEnvironmentIgnoresNamerFailure(t *testing.T) {
	atm := &fakeAtmosphere{profile: testProfile()}
	svc, _ := newTestService(atm, nil, fakeNamer{err: errors.New("quota exceeded")})

	run, err := svc.SubmitEnvironment(context.Background(), EnvironmentInput{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range strings.Split(run.Result.Report, "\n") {
		if strings.HasPrefix(line, "Site: ") {
			t.Errorf("site line should be omitted when naming fails, got %q", line)
		}
	}
}

func TestSubmitMotor(t *testing.T) {
	curves := &fakeCurves{curves: map[string][]byte{DefaultThrustSource: []byte("M1670-BS 75 757 0 3.101 5.231 CTI\n")}}
	svc, _ := newTestService(&fakeAtmosphere{}, curves, nil)

	run, err := svc.SubmitMotor(context.Background(), MotorInput{
		NozzleRadius: 0.033, ThroatRadius: 0.011, GrainOuterRadius: 0.033, GrainInnerRadius: 0.015,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := run.Motor
	if m == nil {
		t.Fatal("expected motor")
	}
	wantMass := 5 * math.Pi * (0.033*0.033 - 0.015*0.015) * 0.12 * 1815
	if math.Abs(m.PropellantMass-wantMass) > 1e-9 {
		t.Errorf("expected propellant mass %v, got %v", wantMass, m.PropellantMass)
	}
	if math.Abs(m.ExpansionRatio-9) > 1e-9 {
		t.Errorf("expected expansion ratio 9, got %v", m.ExpansionRatio)
	}
	if math.Abs(m.GrainStackLength-0.62) > 1e-9 {
		t.Errorf("expected grain stack 0.62, got %v", m.GrainStackLength)
	}
	if !strings.Contains(run.Result.Report, "Number of Grains: 5") {
		t.Errorf("unexpected report:\n%s", run.Result.Report)
	}
	if len(run.Result.Series) != 0 {
		t.Errorf("motor runs carry no series")
	}
}

func TestSubmitMotorGeometryNeverResolvesCurve(t *testing.T) {
	curves := &fakeCurves{err: errors.New("must not be called")}
	svc, _ := newTestService(&fakeAtmosphere{}, curves, nil)

	_, err := svc.SubmitMotor(context.Background(), MotorInput{
		NozzleRadius: 0.033, ThroatRadius: 0.011, GrainOuterRadius: 0.033, GrainInnerRadius: 0.05,
	})
	if !errors.Is(err, ErrGeometry) {
		t.Fatalf("expected ErrGeometry, got %v", err)
	}
}

func TestSubmitMotorMissingCurve(t *testing.T) {
	svc, _ := newTestService(&fakeAtmosphere{}, &fakeCurves{}, nil)

	_, err := svc.SubmitMotor(context.Background(), MotorInput{
		NozzleRadius: 0.033, ThroatRadius: 0.011, GrainOuterRadius: 0.033, GrainInnerRadius: 0.015,
	})
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestSubmitMotorEmptyCurve(t *testing.T) {
	curves := &fakeCurves{curves: map[string][]byte{DefaultThrustSource: {}}}
	svc, _ := newTestService(&fakeAtmosphere{}, curves, nil)

	_, err := svc.SubmitMotor(context.Background(), MotorInput{
		NozzleRadius: 0.033, ThroatRadius: 0.011, GrainOuterRadius: 0.033, GrainInnerRadius: 0.015,
	})
	if !errors.Is(err, ErrConstruction) || errors.Is(err, ErrGeometry) {
		t.Fatalf("expected plain ErrConstruction, got %v", err)
	}
}

func TestSubmitLaunch(t *testing.T) {
	atm := &fakeAtmosphere{profile: testProfile()}
	curves := &fakeCurves{curves: map[string][]byte{DefaultThrustSource: []byte("curve")}}
	svc, st := newTestService(atm, curves, nil)

	launch, err := svc.SubmitLaunch(context.Background(),
		EnvironmentInput{Latitude: 28.5, Longitude: -80.6, Elevation: 3},
		MotorInput{NozzleRadius: 0.033, ThroatRadius: 0.011, GrainOuterRadius: 0.033, GrainInnerRadius: 0.015},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if launch.Environment.Kind != RunKindEnvironment || launch.Motor.Kind != RunKindMotor {
		t.Errorf("unexpected launch kinds %s/%s", launch.Environment.Kind, launch.Motor.Kind)
	}
	if launch.Environment.ID == launch.Motor.ID {
		t.Error("runs must have distinct ids")
	}
	if got := svc.ListRuns(0); len(got) != 2 || len(st.runs) != 2 {
		t.Errorf("expected both runs recorded, got %d", len(got))
	}
}

func TestSubmitLaunchStopsOnEnvironmentFailure(t *testing.T) {
	atm := &fakeAtmosphere{err: NewError(ErrDataUnavailable, nil, "down")}
	curves := &fakeCurves{err: errors.New("must not be called")}
	svc, _ := newTestService(atm, curves, nil)

	_, err := svc.SubmitLaunch(context.Background(),
		EnvironmentInput{Latitude: 1, Longitude: 1},
		MotorInput{NozzleRadius: 0.033, ThroatRadius: 0.011, GrainOuterRadius: 0.033, GrainInnerRadius: 0.015},
	)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewError(ErrInputRange, nil, "x"), "input_range"},
		{NewError(ErrGeometry, nil, "x"), "geometry"},
		{NewError(ErrConstruction, nil, "x"), "construction"},
		{NewError(ErrResourceNotFound, errors.New("gone"), "x"), "resource_not_found"},
		{NewError(ErrDataUnavailable, nil, "x"), "data_unavailable"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := KindName(tt.err); got != tt.want {
			t.Errorf("KindName(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
