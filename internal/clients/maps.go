package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// DrivingInfo is the driving distance and time from an origin to one
// destination address.
type DrivingInfo struct {
	Address       string
	DistanceValue int // meters
	DistanceText  string
	TimeValue     int // seconds
	TimeText      string
}

// DistanceMatrix wraps the Google distance-matrix API for driving
// distances from one origin to many destinations.
type DistanceMatrix struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewDistanceMatrix creates a distance-matrix client.
func NewDistanceMatrix(baseURL, apiKey string, httpc *http.Client, logger *zap.Logger) *DistanceMatrix {
	return &DistanceMatrix{baseURL: baseURL, apiKey: apiKey, httpc: httpc, logger: logger}
}

// Driving returns driving info from origin to each destination, in the
// same order as destinations. Unreachable destinations are omitted.
func (m *DistanceMatrix) Driving(ctx context.Context, origin string, destinations []string) ([]DrivingInfo, error) {
	u := m.baseURL + "?" + url.Values{
		"units":        {"imperial"},
		"origins":      {origin},
		"destinations": {strings.Join(destinations, "|")},
		"key":          {m.apiKey},
	}.Encode()

	var payload struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Value int    `json:"value"`
					Text  string `json:"text"`
				} `json:"distance"`
				Duration struct {
					Value int    `json:"value"`
					Text  string `json:"text"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := getJSON(ctx, m.httpc, u, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" || len(payload.Rows) == 0 {
		return nil, fmt.Errorf("%w: distance matrix status %q", ErrBadAPIResponse, payload.Status)
	}

	elements := payload.Rows[0].Elements
	infos := make([]DrivingInfo, 0, len(elements))
	for i, el := range elements {
		if i >= len(destinations) || el.Status != "OK" {
			continue
		}
		infos = append(infos, DrivingInfo{
			Address:       destinations[i],
			DistanceValue: el.Distance.Value,
			DistanceText:  el.Distance.Text,
			TimeValue:     el.Duration.Value,
			TimeText:      el.Duration.Text,
		})
	}
	m.logger.Debug("distance matrix",
		zap.String("origin", origin),
		zap.Int("destinations", len(destinations)),
		zap.Int("reachable", len(infos)))
	return infos, nil
}
