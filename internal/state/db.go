// ./internal/state/db.go
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS projection_snapshots (
			snapshot_id SERIAL PRIMARY KEY,
			snapshot_timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			pool_id VARCHAR(128) NOT NULL,
			scenario_slot INTEGER NOT NULL,
			deposit_usd DECIMAL(20, 8) NOT NULL,
			timeline_days INTEGER NOT NULL,
			leverage DECIMAL(20, 8) NOT NULL,
			in_range BOOLEAN NOT NULL,
			estimated_apr_pct DECIMAL(20, 8) NOT NULL,
			net_yield_usd DECIMAL(20, 8) NOT NULL,
			scenario JSONB NOT NULL,
			projection JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_projection_snapshots_pool_timestamp ON projection_snapshots(pool_id, snapshot_timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_projection_snapshots_timestamp ON projection_snapshots(snapshot_timestamp DESC);
	`

	if _, err := DB.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Info().Msg("Database schema ensured.")
	return nil
}
