package finder

import (
	"context"
	"fmt"

	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
)

// CSVFetcher downloads a CSV export as row maps.
type CSVFetcher interface {
	Fetch(ctx context.Context, url string) ([]map[string]string, error)
}

// CSVRecordSource reads facility records from an open-data CSV export,
// optionally dropping rows the filter rejects.
type CSVRecordSource struct {
	URL     string
	Fetcher CSVFetcher
	Filter  func(Record) bool
}

// Records implements Source.
func (s *CSVRecordSource) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.Fetcher.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record(row)
		if s.Filter != nil && !s.Filter(rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FeatureQuerier queries an ArcGIS feature server.
type FeatureQuerier interface {
	Query(ctx context.Context, baseURL, where string) ([]clients.FeatureRecord, error)
}

// FeatureRecordSource reads facility records from a feature server,
// flattening attribute values to strings and dropping records the filter
// rejects.
type FeatureRecordSource struct {
	URL     string
	Where   string
	Querier FeatureQuerier
	Filter  func(Record) bool
}

// Records implements Source.
func (s *FeatureRecordSource) Records(ctx context.Context) ([]Record, error) {
	features, err := s.Querier.Query(ctx, s.URL, s.Where)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(features))
	for _, feat := range features {
		rec := make(Record, len(feat))
		for k, v := range feat {
			switch val := v.(type) {
			case string:
				rec[k] = val
			case nil:
				rec[k] = ""
			default:
				rec[k] = fmt.Sprint(val)
			}
		}
		if s.Filter != nil && !s.Filter(rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
