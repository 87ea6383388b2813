package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment
// variables. These are populated at startup by the LoadConfig function.
var (
	// PoolAPIURL is the base URL of the market-data service that supplies
	// pool snapshots.
	PoolAPIURL string

	// PriceAPIKey authenticates against the price history service. Optional;
	// the service rate-limits unauthenticated requests.
	PriceAPIKey string

	// WebPort is the port the projection API listens on.
	WebPort string

	// SnapshotRetention is the number of stored projection snapshots the
	// history endpoint returns by default.
	SnapshotRetention int
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. PoolAPIURL is required, the rest have defaults.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	PoolAPIURL, err = getEnv("POOL_API_URL")
	if err != nil {
		return err
	}

	PriceAPIKey = getEnvOrDefault("PRICE_API_KEY", "")
	WebPort = getEnvOrDefault("WEB_PORT", "8080")

	SnapshotRetention, err = getEnvAsIntOrDefault("SNAPSHOT_RETENTION", 100)
	if err != nil {
		return err
	}

	log.Debug().
		Str("PoolAPIURL", PoolAPIURL).
		Str("WebPort", WebPort).
		Int("SnapshotRetention", SnapshotRetention).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

func getEnvOrDefault(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsIntOrDefault(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be an integer")
	}
	return parsed, nil
}
