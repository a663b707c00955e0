// Package location resolves where the user is and what to call that place.
//
// A Provider produces at most one coordinate fix, a Geocoder turns a fix into
// a human readable locality, and Resolver wraps both with the timeout and
// message handling the store expects.
package location

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f, %.5f", c.Latitude, c.Longitude)
}

// Valid reports whether c lies within WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Provider yields the current position. found=false with a nil error means
// the provider had no answer.
type Provider interface {
	CurrentLocation(ctx context.Context) (c Coordinates, found bool, err error)
}

// StaticProvider always reports the same position.
type StaticProvider struct {
	Coordinates Coordinates
}

// CurrentLocation implements Provider.
func (p StaticProvider) CurrentLocation(context.Context) (Coordinates, bool, error) {
	return p.Coordinates, true, nil
}

// ErrDisabled is returned by NoProvider.
var ErrDisabled = errors.New("location services disabled")

// NoProvider stands in when location is switched off.
type NoProvider struct{}

// CurrentLocation implements Provider.
func (NoProvider) CurrentLocation(context.Context) (Coordinates, bool, error) {
	return Coordinates{}, false, ErrDisabled
}

// DefaultLookupURL is an ip-api.com compatible geolocation endpoint.
const DefaultLookupURL = "http://ip-api.com/json/"

const (
	userAgent    = "kart/0.1"
	maxBodyBytes = 1 << 20
)

// IPProvider approximates the position from the public IP address.
type IPProvider struct {
	URL    string
	Client *http.Client
}

// CurrentLocation queries the lookup endpoint. Both ip-api style (lat/lon)
// and ipapi.co style (latitude/longitude) payloads are understood.
func (p IPProvider) CurrentLocation(ctx context.Context) (Coordinates, bool, error) {
	endpoint := p.URL
	if endpoint == "" {
		endpoint = DefaultLookupURL
	}
	body, err := getJSON(ctx, p.Client, endpoint)
	if err != nil {
		return Coordinates{}, false, err
	}
	if status := gjson.GetBytes(body, "status"); status.Exists() && status.String() != "success" {
		return Coordinates{}, false, nil
	}
	lat := firstOf(body, "lat", "latitude")
	lon := firstOf(body, "lon", "longitude")
	if !lat.Exists() || !lon.Exists() {
		return Coordinates{}, false, nil
	}
	c := Coordinates{Latitude: lat.Float(), Longitude: lon.Float()}
	if !c.Valid() {
		return Coordinates{}, false, fmt.Errorf("lookup returned out of range position %s", c)
	}
	return c, true, nil
}

func firstOf(body []byte, paths ...string) gjson.Result {
	for _, path := range paths {
		if r := gjson.GetBytes(body, path); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func getJSON(ctx context.Context, hc *http.Client, endpoint string) ([]byte, error) {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid json response")
	}
	return body, nil
}
