// Package geocode resolves city names to coordinates with the Google
// Geocoding API.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/gsod-weather/internal/observability"
)

var errNoAPIKey = errors.New("geocoder api key not configured")

// keyMu guards geocoder.ApiKey, a package-level variable.
var keyMu sync.Mutex

// lookupFunc matches geocoder.Geocoding.
type lookupFunc func(geocoder.Address) (geocoder.Location, error)

// Client looks up coordinates for a city and optional country code.
type Client struct {
	lookup  lookupFunc
	metrics *observability.Metrics
}

// New configures the geocoder with apiKey.
func New(apiKey string, metrics *observability.Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, errNoAPIKey
	}
	keyMu.Lock()
	geocoder.ApiKey = apiKey
	keyMu.Unlock()
	return &Client{lookup: geocoder.Geocoding, metrics: metrics}, nil
}

// Locate returns the latitude and longitude of city. The underlying client
// does not take a context, so cancellation abandons the lookup rather than
// aborting it.
func (c *Client) Locate(ctx context.Context, city, countryCode string) (float64, float64, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := c.lookup(geocoder.Address{City: city, Country: countryCode})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		c.observe("error")
		return 0, 0, ctx.Err()
	case r := <-done:
		if r.err != nil {
			c.observe("error")
			return 0, 0, fmt.Errorf("geocode %q: %w", city, r.err)
		}
		c.observe("success")
		return r.loc.Latitude, r.loc.Longitude, nil
	}
}

func (c *Client) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
	}
}
