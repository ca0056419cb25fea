package clients

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// FeatureRecord is the attribute map of one feature returned from an
// ArcGIS feature server.
type FeatureRecord map[string]any

// String returns the named attribute as a string, or "" when absent or of
// another type.
func (r FeatureRecord) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// FeatureServer queries City of Boston ArcGIS feature servers for flat
// record lists.
type FeatureServer struct {
	httpc  *http.Client
	logger *zap.Logger
}

// NewFeatureServer creates a feature-server query client.
func NewFeatureServer(httpc *http.Client, logger *zap.Logger) *FeatureServer {
	return &FeatureServer{httpc: httpc, logger: logger}
}

// Query runs a where-clause query against the feature server at baseURL
// and returns the attribute records of every matching feature. An empty
// where clause selects all records.
func (f *FeatureServer) Query(ctx context.Context, baseURL, where string) ([]FeatureRecord, error) {
	if where == "" {
		where = "1=1"
	}
	u := strings.TrimSuffix(baseURL, "/") + "/query?" + url.Values{
		"f":         {"json"},
		"where":     {where},
		"outFields": {"*"},
		"outSR":     {"4326"},
	}.Encode()

	var payload struct {
		Features []struct {
			Attributes FeatureRecord `json:"attributes"`
		} `json:"features"`
	}
	if err := getJSON(ctx, f.httpc, u, nil, &payload); err != nil {
		return nil, err
	}

	records := make([]FeatureRecord, 0, len(payload.Features))
	for _, feat := range payload.Features {
		records = append(records, feat.Attributes)
	}
	f.logger.Debug("feature server query",
		zap.String("url", baseURL), zap.Int("records", len(records)))
	return records, nil
}
