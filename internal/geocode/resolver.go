// Package geocode resolves street addresses to coordinates. Lookup failures
// are soft: the resolver returns nil coordinates and pricing falls back to
// the default travel distance.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/babyconnect/service-booking/internal/domain/booking"
)

// Resolver is the coordinate resolver contract consumed by the pricing path.
type Resolver interface {
	// Resolve returns the coordinates for an address, or nil when the
	// address cannot be resolved. Only context cancellation is returned
	// as an error; lookup failures are not.
	Resolve(ctx context.Context, address string) (*booking.Coordinates, error)
}

// HTTPResolver resolves addresses against a Nominatim-compatible endpoint.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPResolver creates an HTTPResolver with the given endpoint and timeout.
func NewHTTPResolver(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve looks up the address. Any transport, status, or decoding problem
// yields (nil, nil) so booking creation never fails on geocoding.
func (r *HTTPResolver) Resolve(ctx context.Context, address string) (*booking.Coordinates, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", r.baseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		r.logger.Warn("geocode request build failed", zap.Error(err))
		return nil, nil
	}
	req.Header.Set("User-Agent", "babyconnect-booking/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("geocode lookup failed", zap.String("address", address), zap.Error(err))
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("geocode lookup returned non-200",
			zap.String("address", address),
			zap.Int("status", resp.StatusCode),
		)
		return nil, nil
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil || len(results) == 0 {
		r.logger.Warn("geocode response unusable", zap.String("address", address))
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, nil
	}

	return &booking.Coordinates{Latitude: lat, Longitude: lon}, nil
}
