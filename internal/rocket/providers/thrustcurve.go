package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"

	"github.com/sony/gobreaker"

	"github.com/i474232898/rocket-sim-console/internal/common"
	"github.com/i474232898/rocket-sim-console/internal/rocket"
)

// Reference schemes understood by ThrustCurveResolver. Anything without a
// scheme is a local file path.
const (
	schemeBundle = "bundle://"
	schemeFile   = "file://"
	schemeHTTP   = "http://"
	schemeHTTPS  = "https://"
)

// maxCurveBytes bounds downloads; real curve files are a few kilobytes.
const maxCurveBytes = 1 << 20

var curveExtensions = []string{".eng", ".rse", ".csv"}

// ThrustCurveResolver implements rocket.ThrustCurveSource over bundled
// assets, local files and HTTP URLs.
type ThrustCurveResolver struct {
	bundle  fs.FS
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewThrustCurveResolver creates a resolver. bundle holds the files
// addressed as bundle://name under a motors/ directory.
func NewThrustCurveResolver(bundle fs.FS, client *http.Client) *ThrustCurveResolver {
	return &ThrustCurveResolver{
		bundle: bundle,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("thrustcurve"),
	}
}

// Resolve loads the curve behind ref. Every failure to reach it is reported
// as rocket.ErrResourceNotFound with the cause attached.
func (r *ThrustCurveResolver) Resolve(ctx context.Context, ref string) (rocket.ThrustCurve, error) {
	if ref == "" {
		return rocket.ThrustCurve{}, rocket.NewError(rocket.ErrResourceNotFound, nil, "thrust curve reference is empty")
	}

	scheme, target, _ := common.CutAnyPrefix(ref, schemeBundle, schemeFile, schemeHTTP, schemeHTTPS)
	if !common.HasAnySuffix(target, curveExtensions...) {
		return rocket.ThrustCurve{}, rocket.NewError(rocket.ErrResourceNotFound, nil,
			"thrust curve %q is not a .eng, .rse or .csv file", ref)
	}

	var (
		data []byte
		err  error
	)
	switch scheme {
	case schemeBundle:
		data, err = r.readBundle(target)
	case schemeHTTP, schemeHTTPS:
		data, err = r.download(ctx, ref)
	default:
		data, err = os.ReadFile(target)
	}
	if err != nil {
		return rocket.ThrustCurve{}, rocket.NewError(rocket.ErrResourceNotFound, err, "thrust curve %q not found", ref)
	}

	return rocket.ThrustCurve{Reference: ref, Data: data}, nil
}

func (r *ThrustCurveResolver) readBundle(name string) ([]byte, error) {
	if r.bundle == nil {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(r.bundle, path.Join("motors", path.Clean("/" + name)[1:]))
}

func (r *ThrustCurveResolver) download(ctx context.Context, u string) ([]byte, error) {
	resp, err := doRequestWithResilience(ctx, r.httpCfg, r.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fs.ErrNotExist
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCurveBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading thrust curve body: %w", err)
	}
	if len(data) > maxCurveBytes {
		return nil, fmt.Errorf("thrust curve larger than %d bytes", maxCurveBytes)
	}
	return data, nil
}
