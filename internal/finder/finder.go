// Package finder locates the closest city facility to an origin address
// by driving distance. Facility records come from either an open-data CSV
// export or an ArcGIS feature server; both sources share the same ranking.
package finder

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
)

// Record keys added to the closest record with the driving results.
const (
	DrivingDistanceKey = "Driving_distance"
	DrivingTimeKey     = "Driving_time"
)

// Record is one facility row with string-valued fields.
type Record map[string]string

// Source produces the facility records to rank.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// Driving computes driving info from one origin to many destinations.
type Driving interface {
	Driving(ctx context.Context, origin string, destinations []string) ([]clients.DrivingInfo, error)
}

// Finder ranks a source's records by driving distance from an origin.
type Finder struct {
	source     Source
	driving    Driving
	addressKey string
	city       string
	state      string
	logger     *zap.Logger
}

// New creates a Finder. addressKey names the record field holding the
// facility's street address; city and state are appended to destinations
// that lack them.
func New(source Source, driving Driving, addressKey, city, state string, logger *zap.Logger) *Finder {
	return &Finder{
		source:     source,
		driving:    driving,
		addressKey: addressKey,
		city:       city,
		state:      state,
		logger:     logger,
	}
}

// Closest returns the record nearest to origin by driving distance, with
// the driving distance and time texts merged in under DrivingDistanceKey
// and DrivingTimeKey.
func (f *Finder) Closest(ctx context.Context, origin string) (Record, error) {
	records, err := f.source.Records(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no facility records", clients.ErrBadAPIResponse)
	}

	byDestination := make(map[string]Record, len(records))
	destinations := make([]string, 0, len(records))
	for _, rec := range records {
		addr := strings.TrimSpace(rec[f.addressKey])
		if addr == "" {
			continue
		}
		dest := addr + " " + f.city + ", " + f.state
		if _, dup := byDestination[dest]; !dup {
			byDestination[dest] = rec
			destinations = append(destinations, dest)
		}
	}
	if len(destinations) == 0 {
		return nil, fmt.Errorf("%w: facility records carry no addresses", clients.ErrBadAPIResponse)
	}

	infos, err := f.driving.Driving(ctx, origin, destinations)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: no reachable facilities", clients.ErrBadAPIResponse)
	}

	closest := infos[0]
	for _, info := range infos[1:] {
		if info.DistanceValue < closest.DistanceValue {
			closest = info
		}
	}

	record := byDestination[closest.Address]
	merged := make(Record, len(record)+2)
	for k, v := range record {
		merged[k] = v
	}
	merged[DrivingDistanceKey] = closest.DistanceText
	merged[DrivingTimeKey] = closest.TimeText

	f.logger.Debug("closest facility",
		zap.String("origin", origin),
		zap.String("destination", closest.Address),
		zap.String("distance", closest.DistanceText))
	return merged, nil
}
