package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/internal/alexa"
	"github.com/codeforboston/voiceapp311-sub000/internal/clients"
	"github.com/codeforboston/voiceapp311-sub000/internal/config"
	"github.com/codeforboston/voiceapp311-sub000/internal/controller"
	"github.com/codeforboston/voiceapp311-sub000/internal/finder"
	"github.com/codeforboston/voiceapp311-sub000/internal/intents"
	"github.com/codeforboston/voiceapp311-sub000/internal/location"
	"github.com/codeforboston/voiceapp311-sub000/internal/resolver"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	logger.Info("configuration loaded", zap.String("port", cfg.Port))

	httpc := &http.Client{Timeout: cfg.HTTPTimeout}

	// External service clients.
	recollect := clients.NewReCollect(cfg.ReCollectBaseURL, cfg.City, cfg.ReCollectServiceID, httpc, logger)
	geocoder := clients.NewGeocoder(cfg.ArcGISGeocodeURL, cfg.ArcGISReverseURL, httpc, logger)
	features := clients.NewFeatureServer(httpc, logger)
	distances := clients.NewDistanceMatrix(cfg.DistanceMatrixURL, cfg.MapsAPIKey, httpc, logger)
	device := clients.NewDeviceAddressAPI(cfg.DeviceAddressURL, httpc, logger)
	boston311 := clients.NewBoston311(cfg.Boston311URL, cfg.Boston311Resource, httpc, logger)
	crimes := clients.NewCrimeAPI(cfg.CrimeAPIURL, cfg.CrimeResourceID, httpc, logger)
	cityAlerts := clients.NewCityAlerts(cfg.CityAlertsURL, httpc, logger)
	slack := clients.NewSlack(cfg.SlackWebhookURL, httpc, logger)
	csvs := clients.NewCSVSource(httpc, logger)

	checker := location.NewChecker(cfg.City, cfg.State, geocoder, logger)
	addresses := resolver.New(recollect, logger)

	ctrl := controller.New(device, logger)

	ctrl.Register("TrashDayIntent", &intents.TrashHandler{
		Resolver: addresses,
		Pickup:   recollect,
		Checker:  checker,
		Logger:   logger,
	}, true)

	snowFinder := finder.New(
		&finder.CSVRecordSource{URL: cfg.SnowParkingCSVURL, Fetcher: csvs},
		distances, "Address", cfg.City, cfg.State, logger)
	ctrl.Register("SnowParkingIntent", &intents.ClosestFacilityHandler{
		Finder:    snowFinder,
		Checker:   checker,
		CardTitle: "Snow Parking",
		SpeechTemplate: "The closest snow emergency parking lot, %s, is at %s. " +
			"It is %s away and should take you %s to drive there. " +
			"The lot has %s spaces when empty.%s%s%s",
		Format:           formatSnowLot,
		AllowGeolocation: true,
		City:             cfg.City,
		State:            cfg.State,
		Logger:           logger,
	}, true)

	openSpacesFinder := finder.New(
		&finder.CSVRecordSource{URL: cfg.OpenSpacesCSVURL, Fetcher: csvs},
		distances, "Address", cfg.City, cfg.State, logger)
	ctrl.Register("GetOpenSpacesIntent", &intents.ClosestFacilityHandler{
		Finder:    openSpacesFinder,
		Checker:   checker,
		CardTitle: "Open Spaces",
		SpeechTemplate: "The closest park, %s, is at %s. It is %s away " +
			"and should take you %s to drive there.",
		Format: func(rec finder.Record) []any {
			return []any{
				rec["SITE_NAME"], rec["Address"],
				rec[finder.DrivingDistanceKey], rec[finder.DrivingTimeKey],
			}
		},
		City:   cfg.City,
		State:  cfg.State,
		Logger: logger,
	}, true)

	foodTruckFinder := finder.New(
		&finder.FeatureRecordSource{
			URL:     cfg.FoodTruckURL,
			Querier: features,
			// The schedule layer carries every weekday; only today's
			// stops are candidates.
			Filter: func(rec finder.Record) bool {
				return rec["Day"] == time.Now().Weekday().String()
			},
		},
		distances, "Loc", cfg.City, cfg.State, logger)
	ctrl.Register("FoodTruckIntent", &intents.ClosestFacilityHandler{
		Finder:    foodTruckFinder,
		Checker:   checker,
		CardTitle: "Food Trucks",
		SpeechTemplate: "The closest food truck, %s, is located at %s. " +
			"It is %s away and should take you %s to drive there.",
		Format: func(rec finder.Record) []any {
			return []any{
				rec["Truck"], rec["Loc"],
				rec[finder.DrivingDistanceKey], rec[finder.DrivingTimeKey],
			}
		},
		AllowGeolocation: true,
		City:             cfg.City,
		State:            cfg.State,
		Logger:           logger,
	}, true)

	groceryFinder := finder.New(
		&finder.FeatureRecordSource{URL: cfg.GroceryStoreURL, Querier: features},
		distances, "Address", cfg.City, cfg.State, logger)
	ctrl.Register("GroceryStoreIntent", &intents.ClosestFacilityHandler{
		Finder:    groceryFinder,
		Checker:   checker,
		CardTitle: "Grocery Store",
		SpeechTemplate: "The closest grocery store, %s, in %s is located at %s. " +
			"It is %s away and should take you %s to drive there.",
		Format: func(rec finder.Record) []any {
			return []any{
				rec["Store"], rec["Neighborho"], rec["Address"],
				rec[finder.DrivingDistanceKey], rec[finder.DrivingTimeKey],
			}
		},
		AllowGeolocation: true,
		City:             cfg.City,
		State:            cfg.State,
		Logger:           logger,
	}, true)

	ctrl.Register("CrimeIncidentsIntent", &intents.CrimeHandler{
		Geocoder:  geocoder,
		Incidents: crimes,
		City:      cfg.City,
		State:     cfg.State,
		Logger:    logger,
	}, true)

	ctrl.Register("GetAlertsIntent", &intents.AlertsHandler{
		Source: intents.NamedAlertSource{Fetch: cityAlerts.Alerts},
		Logger: logger,
	}, false)
	ctrl.Register("LatestThreeOneOne", &intents.ThreeOneOneHandler{
		Source: boston311,
		Logger: logger,
	}, false)
	ctrl.Register("FarmersMarketIntent", &intents.FarmersMarketHandler{
		Source: features,
		URL:    cfg.FarmersMarketURL,
		Logger: logger,
	}, false)
	ctrl.Register("FeedbackIntent", &intents.FeedbackHandler{
		Sink:   slack,
		Logger: logger,
	}, false)

	h := alexa.NewHandler(ctrl, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/alexa", h.Webhook)
	}

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// formatSnowLot prepares the speech arguments for the closest snow lot,
// turning the raw fee and phone fields into full sentences and passing
// through any posted comments.
func formatSnowLot(rec finder.Record) []any {
	fee := " There is no fee."
	if rec["Fee"] != "" && rec["Fee"] != "No Charge" {
		fee = " The fee is " + rec["Fee"] + "."
	}
	comments := ""
	if c := rec["Comments"]; c != "" {
		comments = " " + c
	}
	phone := ""
	if p := rec["Phone"]; p != "" {
		phone = " Call " + p + " for information."
	}
	return []any{
		rec["Name"], rec["Address"],
		rec[finder.DrivingDistanceKey], rec[finder.DrivingTimeKey],
		rec["Spaces"], fee, comments, phone,
	}
}
