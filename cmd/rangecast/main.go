package main

import (
	"os"
	"strconv"

	"github.com/rangelab/rangecast/internal/config"
	"github.com/rangelab/rangecast/internal/datafetcher"
	"github.com/rangelab/rangecast/internal/logger"
	"github.com/rangelab/rangecast/internal/state"
	"github.com/rangelab/rangecast/internal/types"
	"github.com/rangelab/rangecast/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// main is the entry point for the projection API server.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Rangecast projection API starting...")

	// Snapshot persistence is optional: without a database the API still
	// serves projections, it just keeps no history.
	persist := false
	if os.Getenv("DB_HOST") != "" {
		dbCfg := state.DBConfig{
			Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
			User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
			DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
		}
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
		persist = true
	} else {
		log.Warn().Msg("DB_HOST not set, projection snapshots will not be persisted")
	}

	// --- 2. Serve ---
	server := web.NewWebServer(config.WebPort, poolSource{}, priceSource{}, persist)
	log.Info().
		Str("port", config.WebPort).
		Str("url", "http://localhost:"+config.WebPort).
		Msg("Serving projection API")
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Web server failed")
	}
}

// poolSource adapts the datafetcher package to the web server's PoolSource.
type poolSource struct{}

func (poolSource) GetPoolSnapshots() ([]types.PoolSnapshot, error) {
	return datafetcher.GetPoolSnapshots()
}

func (poolSource) GetPoolSnapshot(id types.PoolID) (types.PoolSnapshot, error) {
	return datafetcher.GetPoolSnapshot(id)
}

// priceSource adapts the datafetcher package to the web server's PriceSource.
type priceSource struct{}

func (priceSource) GetSpotPrice(symbol string) (float64, error) {
	return datafetcher.GetSpotPrice(symbol)
}

func (priceSource) GetHourlyPrices(symbol string, hours int) ([]types.PricePoint, error) {
	return datafetcher.GetHourlyPrices(symbol, hours)
}

func mustAtoi(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
