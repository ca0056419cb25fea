package intents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/address"
	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/internal/session"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const (
	crimeCardTitle      = "Crime Report"
	crimeNoResultSpeech = "We found no incidents in that area."
	crimeIncidentSpeech = "%s an incident at %s with description %s categorized as %s occurred."

	crimeDateLayout   = "2006-01-02 15:04:05"
	crimeSpokenLayout = "On Monday 02 of January 2006 at 03:04PM"
)

// CrimeGeocoder resolves an address to coordinates for the incident query.
type CrimeGeocoder interface {
	Geocode(ctx context.Context, addr string) (types.Coordinates, bool, error)
}

// IncidentSource returns recent crime incidents near a coordinate pair.
type IncidentSource interface {
	RecentNear(ctx context.Context, coords types.Coordinates) ([]clients.CrimeIncident, error)
}

// CrimeHandler reports recent crime incidents near the session's address.
type CrimeHandler struct {
	Geocoder  CrimeGeocoder
	Incidents IncidentSource
	City      string
	State     string
	Logger    *zap.Logger
}

// Handle implements Handler.
func (h *CrimeHandler) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	attrs := session.Wrap(req.SessionAttributes)

	currentAddress, ok := attrs.CurrentAddress()
	if !ok {
		return RequestAddress(req), nil
	}

	resp := types.NewResponse(req)
	resp.CardTitle = crimeCardTitle
	resp.ShouldEndSession = true

	origin := address.BuildOrigin(address.Parse(currentAddress), h.City, h.State)
	coords, found, err := h.Geocoder.Geocode(ctx, origin)
	if err != nil || !found {
		if err != nil {
			h.Logger.Warn("crime geocode failed", zap.Error(err))
		}
		resp.OutputSpeech = BadAPIResponseSpeech
		return resp, nil
	}

	incidents, err := h.Incidents.RecentNear(ctx, coords)
	if err != nil {
		h.Logger.Warn("crime incident query failed", zap.Error(err))
		resp.OutputSpeech = BadAPIResponseSpeech
		return resp, nil
	}
	if len(incidents) == 0 {
		resp.OutputSpeech = crimeNoResultSpeech
		return resp, nil
	}

	speech := ""
	for _, inc := range incidents {
		speech += fmt.Sprintf(crimeIncidentSpeech,
			occurredSpeech(inc.OccurredOn), inc.Street, inc.Offense, inc.OffenseGroup) + " "
	}
	resp.OutputSpeech = speech
	return resp, nil
}

// occurredSpeech speaks a datastore timestamp as a full date. A timestamp
// that does not parse is spoken as-is.
func occurredSpeech(raw string) string {
	t, err := time.Parse(crimeDateLayout, raw)
	if err != nil {
		return "On " + raw
	}
	return t.Format(crimeSpokenLayout)
}
