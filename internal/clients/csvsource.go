package clients

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// CSVSource fetches open-data CSV exports and returns them as one record
// map per row, keyed by header.
type CSVSource struct {
	httpc  *http.Client
	logger *zap.Logger
}

// NewCSVSource creates a CSV export client.
func NewCSVSource(httpc *http.Client, logger *zap.Logger) *CSVSource {
	return &CSVSource{httpc: httpc, logger: logger}
}

// Fetch downloads the CSV at url and converts each row into a map keyed by
// the header row.
func (c *CSVSource) Fetch(ctx context.Context, url string) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadAPIResponse, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable CSV header: %v", ErrBadAPIResponse, err)
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable CSV row: %v", ErrBadAPIResponse, err)
		}
		record := make(map[string]string, len(header))
		for i, field := range row {
			if i < len(header) {
				record[header[i]] = field
			}
		}
		records = append(records, record)
	}
	c.logger.Debug("fetched CSV resource", zap.String("url", url), zap.Int("rows", len(records)))
	return records, nil
}
