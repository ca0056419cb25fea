package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const crimeQueryLimit = 5

// CrimeIncident is one record from the crime incident reports datastore.
type CrimeIncident struct {
	Offense      string `json:"OFFENSE_DESCRIPTION"`
	OffenseGroup string `json:"OFFENSE_CODE_GROUP"`
	Street       string `json:"STREET"`
	OccurredOn   string `json:"OCCURRED_ON_DATE"`
}

// CrimeAPI queries the crime incident reports datastore near a coordinate
// pair.
type CrimeAPI struct {
	sqlURL     string
	resourceID string
	httpc      *http.Client
	logger     *zap.Logger
}

// NewCrimeAPI creates a crime incident reports client. sqlURL is the
// datastore SQL search endpoint.
func NewCrimeAPI(sqlURL, resourceID string, httpc *http.Client, logger *zap.Logger) *CrimeAPI {
	return &CrimeAPI{sqlURL: sqlURL, resourceID: resourceID, httpc: httpc, logger: logger}
}

// RecentNear returns recent incidents whose coordinates share a
// two-decimal prefix with coords, which bounds the search to roughly a
// square kilometer around the address.
func (c *CrimeAPI) RecentNear(ctx context.Context, coords types.Coordinates) ([]CrimeIncident, error) {
	latPrefix := fmt.Sprintf("%.2f", coords.Y)
	longPrefix := fmt.Sprintf("%.2f", coords.X)
	sql := fmt.Sprintf(
		`SELECT * FROM "%s" WHERE "Lat" LIKE '%s%%' AND "Long" LIKE '%s%%' LIMIT %d`,
		c.resourceID, latPrefix, longPrefix, crimeQueryLimit)

	u := c.sqlURL + "?" + url.Values{"sql": {sql}}.Encode()

	var payload struct {
		Success bool `json:"success"`
		Result  struct {
			Records []CrimeIncident `json:"records"`
		} `json:"result"`
	}
	if err := getJSON(ctx, c.httpc, u, nil, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("%w: crime datastore reported failure", ErrBadAPIResponse)
	}
	c.logger.Debug("crime incidents near",
		zap.String("lat_prefix", latPrefix), zap.String("long_prefix", longPrefix),
		zap.Int("records", len(payload.Result.Records)))
	return payload.Result.Records, nil
}
