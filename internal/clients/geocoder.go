package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

// Place is the reverse-geocoded description of a coordinate pair.
type Place struct {
	City   string
	Region string
	Postal string
}

// Geocoder wraps the ArcGIS world geocoding service.
type Geocoder struct {
	geocodeURL string
	reverseURL string
	httpc      *http.Client
	logger     *zap.Logger
}

// NewGeocoder creates an ArcGIS geocoder client.
func NewGeocoder(geocodeURL, reverseURL string, httpc *http.Client, logger *zap.Logger) *Geocoder {
	return &Geocoder{geocodeURL: geocodeURL, reverseURL: reverseURL, httpc: httpc, logger: logger}
}

// Geocode resolves an address string to coordinates, selecting the
// candidate with the highest score. ok is false when the service has no
// candidate for the address.
func (g *Geocoder) Geocode(ctx context.Context, addr string) (types.Coordinates, bool, error) {
	u := g.geocodeURL + "?" + url.Values{
		"f":          {"json"},
		"singleLine": {addr},
		"outFields":  {"Match_addr,Addr_type"},
	}.Encode()

	var payload struct {
		Candidates []struct {
			Address  string  `json:"address"`
			Score    float64 `json:"score"`
			Location struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"location"`
		} `json:"candidates"`
	}
	if err := getJSON(ctx, g.httpc, u, nil, &payload); err != nil {
		return types.Coordinates{}, false, err
	}
	if len(payload.Candidates) == 0 {
		g.logger.Debug("no geocode candidates", zap.String("address", addr))
		return types.Coordinates{}, false, nil
	}

	top := payload.Candidates[0]
	for _, c := range payload.Candidates[1:] {
		if c.Score > top.Score {
			top = c
		}
	}
	return types.Coordinates{X: top.Location.X, Y: top.Location.Y}, true, nil
}

// ReverseGeocode describes a coordinate pair as a city, region and postal
// code.
func (g *Geocoder) ReverseGeocode(ctx context.Context, coords types.Coordinates) (Place, error) {
	u := g.reverseURL + "?" + url.Values{
		"f":        {"json"},
		"location": {fmt.Sprintf("%f,%f", coords.X, coords.Y)},
	}.Encode()

	var payload struct {
		Address struct {
			City   string `json:"City"`
			Region string `json:"Region"`
			Postal string `json:"Postal"`
		} `json:"address"`
	}
	if err := getJSON(ctx, g.httpc, u, nil, &payload); err != nil {
		return Place{}, err
	}
	return Place{
		City:   payload.Address.City,
		Region: payload.Address.Region,
		Postal: payload.Address.Postal,
	}, nil
}
