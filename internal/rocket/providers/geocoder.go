package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
)

// GoogleSiteNamer implements rocket.SiteNamer with Google reverse geocoding.
type GoogleSiteNamer struct {
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleSiteNamer configures the geocoder package with apiKey. It returns
// nil when no key is given so callers can skip site naming entirely.
func NewGoogleSiteNamer(apiKey string) *GoogleSiteNamer {
	if apiKey == "" {
		return nil
	}
	geocoder.ApiKey = apiKey
	return &GoogleSiteNamer{reverse: geocoder.GeocodingReverse}
}

// Name returns the formatted address closest to the coordinates.
func (n *GoogleSiteNamer) Name(ctx context.Context, lat, lon float64) (string, error) {
	type result struct {
		addrs []geocoder.Address
		err   error
	}

	// The geocoder package has no context support, so bound it here.
	ch := make(chan result, 1)
	go func() {
		addrs, err := n.reverse(geocoder.Location{Latitude: lat, Longitude: lon})
		ch <- result{addrs, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		if len(res.addrs) == 0 {
			return "", fmt.Errorf("no address for %.4f,%.4f", lat, lon)
		}
		if res.addrs[0].FormattedAddress != "" {
			return res.addrs[0].FormattedAddress, nil
		}
		return res.addrs[0].FormatAddress(), nil
	}
}
