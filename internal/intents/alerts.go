package intents

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

const alertsCardTitle = "City Alerts"

// Service is a named city service the alerts page reports on. The set is
// closed; pruning and ordering iterate over allServices.
type Service int

const (
	StreetCleaning Service = iota
	TrashAndRecycling
	CityBuildingHours
	ParkingMeters
	TowLot
	PublicTransit
	Schools
	AlertHeader
)

var allServices = []Service{
	StreetCleaning,
	TrashAndRecycling,
	CityBuildingHours,
	ParkingMeters,
	TowLot,
	PublicTransit,
	Schools,
	AlertHeader,
}

var serviceNames = map[Service]string{
	StreetCleaning:    "Street Cleaning",
	TrashAndRecycling: "Trash and recycling",
	CityBuildingHours: "City building hours",
	ParkingMeters:     "Parking meters",
	TowLot:            "Tow lot",
	PublicTransit:     "Public Transit",
	Schools:           "Schools",
	AlertHeader:       "Alert header",
}

// String returns the service's display name.
func (s Service) String() string { return serviceNames[s] }

var serviceByName = func() map[string]Service {
	m := make(map[string]Service, len(serviceNames))
	for svc, name := range serviceNames {
		m[name] = svc
	}
	return m
}()

// The tow lot's everyday hours are published in the same slot as real
// alerts and must be filtered out verbatim.
const towLotNormalMessage = "The tow lot is open from 7 a.m. - 11 p.m. " +
	"Automated kiosks are available 24 hours a day, seven days a week " +
	"for vehicle releases."

const noAlertsSpeech = "There are no alerts. City services are operating " +
	"on their normal schedule."

// AlertSource fetches the current alert text per city service.
type AlertSource interface {
	Alerts(ctx context.Context) (map[Service]string, error)
}

// NamedAlertSource adapts a fetcher keyed by service display name, such as
// the city-site scraper, to the closed Service set. Names outside the set
// are dropped.
type NamedAlertSource struct {
	Fetch func(ctx context.Context) (map[string]string, error)
}

// Alerts implements AlertSource.
func (s NamedAlertSource) Alerts(ctx context.Context) (map[Service]string, error) {
	named, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make(map[Service]string, len(named))
	for name, text := range named {
		if svc, ok := serviceByName[name]; ok {
			alerts[svc] = text
		}
	}
	return alerts, nil
}

// AlertsHandler reports citywide service alerts.
type AlertsHandler struct {
	Source AlertSource
	Logger *zap.Logger
}

// Handle implements Handler.
func (h *AlertsHandler) Handle(ctx context.Context, req *types.Request) (*types.Response, error) {
	resp := types.NewResponse(req)
	resp.CardTitle = alertsCardTitle
	resp.ShouldEndSession = true

	alerts, err := h.Source.Alerts(ctx)
	if err != nil {
		h.Logger.Warn("alert fetch failed", zap.Error(err))
		resp.OutputSpeech = BadAPIResponseSpeech
		return resp, nil
	}

	alerts = PruneNormalAlerts(alerts)
	resp.OutputSpeech = alertsToSpeech(alerts)
	return resp, nil
}

// PruneNormalAlerts drops entries that merely state a service is running
// on its normal schedule, leaving only genuine alerts.
func PruneNormalAlerts(alerts map[Service]string) map[Service]string {
	pruned := make(map[Service]string, len(alerts))
	for svc, text := range alerts {
		if svc != AlertHeader && strings.Contains(text, "normal") {
			continue
		}
		if svc == TowLot && text == towLotNormalMessage {
			continue
		}
		pruned[svc] = text
	}
	// A header with nothing under it is not an alert.
	if len(pruned) == 1 {
		if _, only := pruned[AlertHeader]; only {
			delete(pruned, AlertHeader)
		}
	}
	return pruned
}

func alertsToSpeech(alerts map[Service]string) string {
	if len(alerts) == 0 {
		return noAlertsSpeech
	}
	var b strings.Builder
	if header, ok := alerts[AlertHeader]; ok {
		b.WriteString(header)
		b.WriteString(" ")
	}
	for _, svc := range allServices {
		if svc == AlertHeader {
			continue
		}
		if text, ok := alerts[svc]; ok {
			b.WriteString(text)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
