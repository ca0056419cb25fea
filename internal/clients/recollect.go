package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var dayCodePattern = regexp.MustCompile(`\d+A? - `)

// Candidate is one address suggestion from the ReCollect directory. The
// identifier fields are what the events endpoint needs to look up pickup
// data for the address.
type Candidate struct {
	Name      string `json:"name"`
	AreaName  string `json:"area_name"`
	AreaID    int    `json:"area_id"`
	ParcelID  string `json:"parcel_id"`
	ServiceID string `json:"service_id"`
	PlaceID   string `json:"place_id"`
}

// ReCollect talks to the ReCollect address-suggest and pickup-events API.
type ReCollect struct {
	baseURL   string
	serviceID string
	area      string
	httpc     *http.Client
	logger    *zap.Logger
}

// NewReCollect creates a ReCollect client for the given service area.
func NewReCollect(baseURL, area, serviceID string, httpc *http.Client, logger *zap.Logger) *ReCollect {
	return &ReCollect{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		serviceID: serviceID,
		area:      area,
		httpc:     httpc,
		logger:    logger,
	}
}

// Suggest returns the directory's address candidates for the query text.
// An empty result list is not an error; callers decide what zero matches
// means.
func (c *ReCollect) Suggest(ctx context.Context, query string) ([]Candidate, error) {
	u := fmt.Sprintf("%s/areas/%s/services/%s/address-suggest?%s",
		c.baseURL, c.area, c.serviceID,
		url.Values{"q": {query}, "locale": {"en-US"}}.Encode())

	var candidates []Candidate
	if err := getJSON(ctx, c.httpc, u, nil, &candidates); err != nil {
		c.logger.Warn("recollect suggest failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("recollect suggest",
		zap.String("query", query), zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// PickupDays returns the trash and recycling pickup days for a resolved
// candidate, parsed out of the next scheduled event's zone title.
func (c *ReCollect) PickupDays(ctx context.Context, cand Candidate) ([]string, error) {
	u := fmt.Sprintf("%s/places/%s/services/%s/events?%s",
		c.baseURL, cand.PlaceID, cand.ServiceID,
		url.Values{"area_id": {fmt.Sprint(cand.AreaID)}}.Encode())

	var payload struct {
		NextEvent struct {
			Zone struct {
				Title string `json:"title"`
			} `json:"zone"`
		} `json:"next_event"`
	}
	if err := getJSON(ctx, c.httpc, u, nil, &payload); err != nil {
		return nil, err
	}

	title := payload.NextEvent.Zone.Title
	if title == "" {
		return nil, fmt.Errorf("%w: missing next_event zone title", ErrBadAPIResponse)
	}

	// Titles look like "3A - Tue & Fri"; strip the zone code and the
	// ampersand, leaving the day names.
	title = dayCodePattern.ReplaceAllString(title, "")
	title = strings.ReplaceAll(title, "&", "")
	days := strings.Fields(title)
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no pickup days in zone title", ErrBadAPIResponse)
	}
	return days, nil
}
