package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is loaded once in
// main and passed to the components that need it; nothing reads the
// environment after startup.
type Config struct {
	// Server configuration
	Port string

	// Service area
	City  string
	State string

	// External API endpoints
	ReCollectBaseURL   string
	ReCollectServiceID string
	ArcGISGeocodeURL   string
	ArcGISReverseURL   string
	DeviceAddressURL   string
	DistanceMatrixURL  string
	Boston311URL       string
	Boston311Resource  string
	CrimeAPIURL        string
	CrimeResourceID    string
	SnowParkingCSVURL  string
	OpenSpacesCSVURL   string
	FoodTruckURL       string
	FarmersMarketURL   string
	GroceryStoreURL    string
	CityAlertsURL      string
	SlackWebhookURL    string

	// API keys
	MapsAPIKey string

	// Outbound HTTP
	HTTPTimeout time.Duration
}

// Load loads configuration from environment variables, reading a .env file
// first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		City:  getEnv("SERVICE_CITY", "Boston"),
		State: getEnv("SERVICE_STATE", "MA"),

		ReCollectBaseURL:   getEnv("RECOLLECT_BASE_URL", "https://api.recollect.net/api"),
		ReCollectServiceID: getEnv("RECOLLECT_SERVICE_ID", "310"),
		ArcGISGeocodeURL:   getEnv("ARCGIS_GEOCODE_URL", "https://geocode.arcgis.com/arcgis/rest/services/World/GeocodeServer/findAddressCandidates"),
		ArcGISReverseURL:   getEnv("ARCGIS_REVERSE_URL", "https://geocode.arcgis.com/arcgis/rest/services/World/GeocodeServer/reverseGeocode"),
		DeviceAddressURL:   getEnv("DEVICE_ADDRESS_URL", "https://api.amazonalexa.com/v1/devices"),
		DistanceMatrixURL:  getEnv("DISTANCE_MATRIX_URL", "https://maps.googleapis.com/maps/api/distancematrix/json"),
		Boston311URL:       getEnv("BOSTON_311_URL", "https://data.boston.gov/api/3/action/datastore_search"),
		Boston311Resource:  getEnv("BOSTON_311_RESOURCE_ID", "6ff6a6fd-3141-4440-a880-6f60a37fe789"),
		CrimeAPIURL:        getEnv("CRIME_API_URL", "https://data.boston.gov/api/3/action/datastore_search_sql"),
		CrimeResourceID:    getEnv("CRIME_RESOURCE_ID", "12cb3883-56f5-47de-afa5-3b1cf61b257b"),
		SnowParkingCSVURL:  getEnv("SNOW_PARKING_CSV_URL", "http://bostonopendata-boston.opendata.arcgis.com/datasets/53ebc23fcc654111b642f70e61c63852_0.csv"),
		OpenSpacesCSVURL:   getEnv("OPEN_SPACES_CSV_URL", "http://bostonopendata-boston.opendata.arcgis.com/datasets/2868d370c55d4d458d4ae2224ef8cddd_7.csv"),
		FoodTruckURL:       getEnv("FOOD_TRUCK_URL", "https://services.arcgis.com/sFnw0xNflSi8J0uh/arcgis/rest/services/food_trucks_schedule/FeatureServer/0"),
		FarmersMarketURL:   getEnv("FARMERS_MARKET_URL", "https://services.arcgis.com/sFnw0xNflSi8J0uh/arcgis/rest/services/Farmers_Markets_Fresh_Trucks_View/FeatureServer/0"),
		GroceryStoreURL:    getEnv("GROCERY_STORE_URL", "https://services.arcgis.com/sFnw0xNflSi8J0uh/ArcGIS/rest/services/Supermarkets_GroceryStores/FeatureServer/0"),
		CityAlertsURL:      getEnv("CITY_ALERTS_URL", "https://www.boston.gov"),
		SlackWebhookURL:    getEnv("SLACK_WEBHOOKS_URL", ""),

		MapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
	}

	return cfg, nil
}

// Helper functions for getting environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
