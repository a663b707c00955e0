package location

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Geocoder turns coordinates into a locality name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c Coordinates) (string, error)
}

// ErrNoAddress reports that the geocoder answered but had nothing for the
// position.
var ErrNoAddress = errors.New("no address found")

// DefaultGeocodeURL is the public Nominatim reverse endpoint.
const DefaultGeocodeURL = "https://nominatim.openstreetmap.org/reverse"

// localityFields are tried in order; rural fixes often lack a city.
var localityFields = []string{
	"address.city",
	"address.town",
	"address.village",
	"address.municipality",
	"address.county",
}

// HTTPGeocoder queries a Nominatim compatible reverse geocoding endpoint.
type HTTPGeocoder struct {
	URL    string
	Client *http.Client
}

// ReverseGeocode implements Geocoder.
func (g HTTPGeocoder) ReverseGeocode(ctx context.Context, c Coordinates) (string, error) {
	endpoint := g.URL
	if endpoint == "" {
		endpoint = DefaultGeocodeURL
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("format", "jsonv2")
	q.Set("zoom", "10")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', 6, 64))
	u.RawQuery = q.Encode()

	body, err := getJSON(ctx, g.Client, u.String())
	if err != nil {
		return "", err
	}
	if gjson.GetBytes(body, "error").Exists() {
		return "", ErrNoAddress
	}
	for _, field := range localityFields {
		if name := strings.TrimSpace(gjson.GetBytes(body, field).String()); name != "" {
			return name, nil
		}
	}
	return "", ErrNoAddress
}
