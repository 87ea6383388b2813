// ./internal/state/projection_store.go
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rangelab/rangecast/internal/types"
	"github.com/rs/zerolog/log"
)

// StoredProjection is one persisted projection snapshot row.
type StoredProjection struct {
	SnapshotID int64            `json:"snapshot_id"`
	Timestamp  time.Time        `json:"timestamp"`
	Scenario   types.Scenario   `json:"scenario"`
	Projection types.Projection `json:"projection"`
}

// SaveProjectionSnapshot persists a scenario and its computed projection so
// historical what-ifs can be replayed against later pool state.
func SaveProjectionSnapshot(scenario types.Scenario, projection types.Projection) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	scenarioJSON, err := json.Marshal(scenario)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal scenario: %w", err)
	}
	projectionJSON, err := json.Marshal(projection)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal projection: %w", err)
	}

	query := `
		INSERT INTO projection_snapshots (
			pool_id, scenario_slot, deposit_usd, timeline_days,
			leverage, in_range, estimated_apr_pct, net_yield_usd,
			scenario, projection
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING snapshot_id;
	`

	var snapshotID int64
	err = DB.QueryRow(
		query,
		string(projection.PoolID), scenario.Slot, scenario.DepositUSD, scenario.TimelineDays,
		projection.Leverage, projection.InRange, projection.EstimatedAprPct, projection.NetYieldUSD,
		scenarioJSON, projectionJSON,
	).Scan(&snapshotID)
	if err != nil {
		return 0, fmt.Errorf("failed to save projection snapshot: %w", err)
	}

	log.Debug().
		Int64("snapshot_id", snapshotID).
		Str("pool_id", string(projection.PoolID)).
		Int("slot", scenario.Slot).
		Float64("net_yield_usd", projection.NetYieldUSD).
		Msg("Projection snapshot saved to database")

	return snapshotID, nil
}

// LoadRecentProjectionSnapshots returns the most recent stored projections,
// newest first.
func LoadRecentProjectionSnapshots(limit int) ([]StoredProjection, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT snapshot_id, snapshot_timestamp, scenario, projection
		FROM projection_snapshots
		ORDER BY snapshot_timestamp DESC
		LIMIT $1;
	`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query projection snapshots: %w", err)
	}
	defer rows.Close()

	var stored []StoredProjection
	for rows.Next() {
		var row StoredProjection
		var scenarioJSON, projectionJSON []byte
		if err := rows.Scan(&row.SnapshotID, &row.Timestamp, &scenarioJSON, &projectionJSON); err != nil {
			return nil, fmt.Errorf("failed to scan projection snapshot: %w", err)
		}
		if err := json.Unmarshal(scenarioJSON, &row.Scenario); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scenario for snapshot %d: %w", row.SnapshotID, err)
		}
		if err := json.Unmarshal(projectionJSON, &row.Projection); err != nil {
			return nil, fmt.Errorf("failed to unmarshal projection for snapshot %d: %w", row.SnapshotID, err)
		}
		stored = append(stored, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projection snapshots: %w", err)
	}

	return stored, nil
}
