package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
)

// environmentForm holds the site fields of one environment submit. Pointers
// tell a missing field apart from an explicit zero.
type environmentForm struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Elevation *int     `json:"elevation" validate:"required,gte=0"`
}

func (f environmentForm) toInput() rocket.EnvironmentInput {
	return rocket.EnvironmentInput{
		Latitude:  *f.Latitude,
		Longitude: *f.Longitude,
		Elevation: *f.Elevation,
	}
}

// motorForm holds the geometry fields of one motor submit.
type motorForm struct {
	NozzleRadius     *float64 `json:"nozzleRadius" validate:"required,gt=0"`
	ThroatRadius     *float64 `json:"throatRadius" validate:"required,gt=0"`
	NozzlePosition   *float64 `json:"nozzlePosition" validate:"required"`
	GrainOuterRadius *float64 `json:"grainOuterRadius" validate:"required,gt=0"`
	GrainInnerRadius *float64 `json:"grainInnerRadius" validate:"required,gte=0"`
}

func (f motorForm) toInput() rocket.MotorInput {
	return rocket.MotorInput{
		NozzleRadius:     *f.NozzleRadius,
		ThroatRadius:     *f.ThroatRadius,
		NozzlePosition:   *f.NozzlePosition,
		GrainOuterRadius: *f.GrainOuterRadius,
		GrainInnerRadius: *f.GrainInnerRadius,
	}
}

// launchForm carries both groups for the combined submit.
type launchForm struct {
	Environment environmentForm `json:"environment"`
	Motor       motorForm       `json:"motor"`
}

// Form field names, shared with the HTML page.
const (
	fieldLatitude         = "latitude"
	fieldLongitude        = "longitude"
	fieldElevation        = "elevation"
	fieldNozzleRadius     = "nozzle_radius"
	fieldThroatRadius     = "throat_radius"
	fieldNozzlePosition   = "nozzle_position"
	fieldGrainOuterRadius = "grain_outer_radius"
	fieldGrainInnerRadius = "grain_inner_radius"
)

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

// bindEnvironment reads and validates the environment group from a JSON or
// form-encoded body. Any failure is an ErrInputRange.
func bindEnvironment(c *fiber.Ctx) (environmentForm, error) {
	var f environmentForm
	if isJSON(c) {
		if err := c.BodyParser(&f); err != nil {
			return f, rocket.NewError(rocket.ErrInputRange, err, "malformed request body")
		}
	} else {
		var err error
		if f, err = environmentFromValues(c.FormValue); err != nil {
			return f, err
		}
	}

	if err := rocket.Validator().Struct(f); err != nil {
		return f, rocket.RangeError(err)
	}
	return f, nil
}

// bindMotor reads and validates the motor group.
func bindMotor(c *fiber.Ctx) (motorForm, error) {
	var f motorForm
	if isJSON(c) {
		if err := c.BodyParser(&f); err != nil {
			return f, rocket.NewError(rocket.ErrInputRange, err, "malformed request body")
		}
	} else {
		var err error
		if f, err = motorFromValues(c.FormValue); err != nil {
			return f, err
		}
	}

	if err := rocket.Validator().Struct(f); err != nil {
		return f, rocket.RangeError(err)
	}
	return f, nil
}

func bindLaunch(c *fiber.Ctx) (launchForm, error) {
	var f launchForm
	if isJSON(c) {
		if err := c.BodyParser(&f); err != nil {
			return f, rocket.NewError(rocket.ErrInputRange, err, "malformed request body")
		}
	} else {
		var err error
		if f.Environment, err = environmentFromValues(c.FormValue); err != nil {
			return f, err
		}
		if f.Motor, err = motorFromValues(c.FormValue); err != nil {
			return f, err
		}
	}

	if err := rocket.Validator().Struct(f); err != nil {
		return f, rocket.RangeError(err)
	}
	return f, nil
}

type valueFunc func(key string, defaultValue ...string) string

func environmentFromValues(get valueFunc) (environmentForm, error) {
	var (
		f    environmentForm
		errs []error
	)
	f.Latitude = optionalFloat(get, fieldLatitude, &errs)
	f.Longitude = optionalFloat(get, fieldLongitude, &errs)
	f.Elevation = optionalInt(get, fieldElevation, &errs)
	return f, joinFieldErrors(errs)
}

func motorFromValues(get valueFunc) (motorForm, error) {
	var (
		f    motorForm
		errs []error
	)
	f.NozzleRadius = optionalFloat(get, fieldNozzleRadius, &errs)
	f.ThroatRadius = optionalFloat(get, fieldThroatRadius, &errs)
	f.NozzlePosition = optionalFloat(get, fieldNozzlePosition, &errs)
	f.GrainOuterRadius = optionalFloat(get, fieldGrainOuterRadius, &errs)
	f.GrainInnerRadius = optionalFloat(get, fieldGrainInnerRadius, &errs)
	return f, joinFieldErrors(errs)
}

// optionalFloat returns nil for an empty field so "required" can reject it.
func optionalFloat(get valueFunc, key string, errs *[]error) *float64 {
	raw := strings.TrimSpace(get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a number", key))
		return nil
	}
	return &v
}

func optionalInt(get valueFunc, key string, errs *[]error) *int {
	raw := strings.TrimSpace(get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a whole number", key))
		return nil
	}
	return &v
}

func joinFieldErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	err := errors.Join(errs...)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return rocket.NewError(rocket.ErrInputRange, err, "%s", strings.Join(msgs, "; "))
}
