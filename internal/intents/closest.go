package intents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/address"
	"github.com/codeforboston/voiceapp311-sub000/internal/finder"
	"github.com/codeforboston/voiceapp311-sub000/internal/location"
	"github.com/codeforboston/voiceapp311-sub000/internal/session"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

// ClosestFacilityHandler answers "where is the nearest X" intents (snow
// emergency parking, food trucks, open spaces, grocery stores) by ranking
// a facility source by driving distance from the user's location. The
// record source and speech template are configuration; the flow is shared.
type ClosestFacilityHandler struct {
	Finder    *finder.Finder
	Checker   *location.Checker
	CardTitle string

	// SpeechTemplate is formatted with the closest record via Format.
	SpeechTemplate string
	// Format turns the closest record into the template's arguments.
	Format func(rec finder.Record) []any

	// AllowGeolocation lets device coordinates stand in for an address.
	AllowGeolocation bool

	City   string
	State  string
	Logger *zap.Logger
}

// UsesGeolocation implements GeolocationUser.
func (h *ClosestFacilityHandler) UsesGeolocation() bool { return h.AllowGeolocation }

// Handle implements Handler.
func (h *ClosestFacilityHandler) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	attrs := session.Wrap(req.SessionAttributes)

	var coords *types.Coordinates
	if h.AllowGeolocation && req.GeolocationGiven && req.Geolocation != nil {
		coords = req.Geolocation
	}

	currentAddress, haveAddress := attrs.CurrentAddress()
	if coords == nil && !haveAddress {
		if h.AllowGeolocation && req.HasGeolocation && !req.GeolocationGiven {
			return RequestGeolocationPermission(req), nil
		}
		return RequestAddress(req), nil
	}

	inCity, err := h.Checker.IsInCity(ctx, currentAddress, coords)
	if err != nil {
		return h.failure(req), nil
	}
	if !inCity {
		resp := types.NewResponse(req)
		resp.CardTitle = h.CardTitle
		resp.OutputSpeech = NotInBostonSpeech
		resp.ShouldEndSession = true
		return resp, nil
	}

	origin := h.origin(currentAddress, coords)
	record, err := h.Finder.Closest(ctx, origin)
	if err != nil {
		h.Logger.Warn("closest facility lookup failed",
			zap.String("card", h.CardTitle), zap.Error(err))
		return h.failure(req), nil
	}

	resp := types.NewResponse(req)
	resp.CardTitle = h.CardTitle
	resp.OutputSpeech = fmt.Sprintf(h.SpeechTemplate, h.Format(record)...)
	resp.ShouldEndSession = true
	return resp, nil
}

func (h *ClosestFacilityHandler) origin(currentAddress string, coords *types.Coordinates) string {
	if coords != nil {
		return fmt.Sprintf("%f,%f", coords.Y, coords.X)
	}
	return address.BuildOrigin(address.Parse(currentAddress), h.City, h.State)
}

func (h *ClosestFacilityHandler) failure(req *types.Request) *types.Response {
	resp := types.NewResponse(req)
	resp.CardTitle = h.CardTitle
	resp.OutputSpeech = BadAPIResponseSpeech
	resp.ShouldEndSession = true
	return resp
}
