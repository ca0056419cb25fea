package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// Report311 is one service request from the Boston 311 datastore.
type Report311 struct {
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
	Type    string `json:"type"`
	OpenDt  string `json:"open_dt"`
}

// Boston311 queries the city's 311 service-request datastore.
type Boston311 struct {
	baseURL    string
	resourceID string
	httpc      *http.Client
	logger     *zap.Logger
}

// NewBoston311 creates a 311 datastore client.
func NewBoston311(baseURL, resourceID string, httpc *http.Client, logger *zap.Logger) *Boston311 {
	return &Boston311{baseURL: baseURL, resourceID: resourceID, httpc: httpc, logger: logger}
}

// Latest returns the most recently opened n service requests.
func (b *Boston311) Latest(ctx context.Context, n int) ([]Report311, error) {
	u := b.baseURL + "?" + url.Values{
		"resource_id": {b.resourceID},
		"limit":       {fmt.Sprint(n)},
		"sort":        {"open_dt desc"},
	}.Encode()

	var payload struct {
		Success bool `json:"success"`
		Result  struct {
			Records []Report311 `json:"records"`
		} `json:"result"`
	}
	if err := getJSON(ctx, b.httpc, u, nil, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("%w: 311 datastore reported failure", ErrBadAPIResponse)
	}
	b.logger.Debug("latest 311 reports", zap.Int("requested", n),
		zap.Int("returned", len(payload.Result.Records)))
	return payload.Result.Records, nil
}
