package intents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const farmersMarketCardTitle = "Farmers Markets"

// FeatureSource queries an ArcGIS feature server.
type FeatureSource interface {
	Query(ctx context.Context, baseURL, where string) ([]clients.FeatureRecord, error)
}

// FarmersMarketHandler lists the farmers markets open today.
type FarmersMarketHandler struct {
	Source FeatureSource
	URL    string
	// Now is injectable for tests; defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Handle implements Handler.
func (h *FarmersMarketHandler) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	resp := types.NewResponse(req)
	resp.CardTitle = farmersMarketCardTitle
	resp.ShouldEndSession = true

	markets, err := h.Source.Query(ctx, h.URL, "")
	if err != nil {
		h.Logger.Warn("farmers market query failed", zap.Error(err))
		resp.OutputSpeech = BadAPIResponseSpeech
		return resp, nil
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	today := now().Weekday().String()

	speech := "Available farmers markets today are: "
	found := false
	for _, market := range markets {
		if market.String("Day_of_Week") != today {
			continue
		}
		found = true
		speech += market.String("Name") + " located at " + market.String("Address") +
			" from " + market.String("Hours") + ". "
	}
	if !found {
		speech = "There are no farmers markets open today."
	}
	resp.OutputSpeech = speech
	return resp, nil
}
