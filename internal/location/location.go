// Package location decides whether an address or coordinate pair falls
// inside the service area.
package location

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/address"
	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

// ReverseGeocoder describes coordinates as a place.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, coords types.Coordinates) (clients.Place, error)
}

// Checker judges whether a location is inside the configured city.
type Checker struct {
	city     string
	state    string
	geocoder ReverseGeocoder
	logger   *zap.Logger
}

// NewChecker creates an in-city checker for the given city and state.
func NewChecker(city, state string, geocoder ReverseGeocoder, logger *zap.Logger) *Checker {
	return &Checker{city: city, state: state, geocoder: geocoder, logger: logger}
}

// IsInCity reports whether the given location is inside the service area.
// Coordinates take precedence and are reverse-geocoded; otherwise the
// parsed trailing token of the address text is inspected. Absence of
// contrary evidence counts as in-city, so addresses that omit a city are
// not over-rejected.
func (c *Checker) IsInCity(ctx context.Context, addressText string, coords *types.Coordinates) (bool, error) {
	if coords != nil {
		place, err := c.geocoder.ReverseGeocode(ctx, *coords)
		if err != nil {
			return false, err
		}
		in := strings.EqualFold(place.City, c.city) && strings.EqualFold(place.Region, c.state)
		c.logger.Debug("reverse geocode in-city check",
			zap.String("city", place.City), zap.String("region", place.Region), zap.Bool("in_city", in))
		return in, nil
	}

	parsed := address.Parse(addressText)
	if parsed.Other == "" {
		return true, nil
	}
	// A numeric trailing token is a zip code; zip mismatches are left to
	// the downstream lookups to surface.
	if parsed.OtherIsZip() {
		return true, nil
	}
	if strings.Contains(strings.ToLower(parsed.Other), strings.ToLower(c.city)) {
		return true, nil
	}
	c.logger.Debug("address text deemed out of city",
		zap.String("address", addressText), zap.String("other", parsed.Other))
	return false, nil
}
