package providers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
)

// AtmosphereChain queries several forecast providers concurrently and keeps
// the answer of the first one, in configuration order, that succeeded.
type AtmosphereChain struct {
	providers []rocket.AtmosphereProvider
}

// NewAtmosphereChain creates a chain over providers. Order is priority.
func NewAtmosphereChain(providers ...rocket.AtmosphereProvider) *AtmosphereChain {
	return &AtmosphereChain{providers: providers}
}

func (c *AtmosphereChain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ",")
}

// Forecast fans out to every provider. Failures are logged; the call only
// fails when no provider returned a profile.
func (c *AtmosphereChain) Forecast(ctx context.Context, cfg rocket.EnvironmentConfig) (rocket.AtmosphereProfile, error) {
	if len(c.providers) == 0 {
		return rocket.AtmosphereProfile{}, rocket.NewError(rocket.ErrDataUnavailable, nil, "no forecast providers configured")
	}

	type outcome struct {
		profile rocket.AtmosphereProfile
		err     error
	}

	var (
		wg       sync.WaitGroup
		outcomes = make([]outcome, len(c.providers))
	)

	for i, p := range c.providers {
		wg.Add(1)
		go func(i int, p rocket.AtmosphereProvider) {
			defer wg.Done()

			profile, err := p.Forecast(ctx, cfg)
			if err != nil {
				log.Printf("provider %s forecast failed for %.4f,%.4f: %v", p.Name(), cfg.Latitude, cfg.Longitude, err)
			}
			outcomes[i] = outcome{profile: profile, err: err}
		}(i, p)
	}

	wg.Wait()

	errs := make([]error, 0, len(outcomes))
	for i, o := range outcomes {
		if o.err == nil {
			return o.profile, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", c.providers[i].Name(), o.err))
	}

	return rocket.AtmosphereProfile{}, rocket.NewError(rocket.ErrDataUnavailable, errors.Join(errs...), "GFS forecast is unavailable")
}
