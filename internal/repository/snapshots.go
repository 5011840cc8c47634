package repository

import (
	"context"
	"fmt"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/rs/zerolog/log"
)

// SnapshotRepository handles the append-only odds snapshot ledger. Rows are
// inserted and never updated, deleted or deduplicated: each feed pull that
// observes a price appends a new row.
type SnapshotRepository struct {
	db *Database
}

// Create appends a snapshot row
func (r *SnapshotRepository) Create(ctx context.Context, snap *models.OddsSnapshot) error {
	query := `
		INSERT INTO odds_snapshots (
			market_outcome_id, provider_id, snapshot_time_utc,
			american_odds, decimal_odds, source
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		snap.MarketOutcomeID, snap.ProviderID, snap.SnapshotTimeUTC,
		snap.AmericanOdds, snap.DecimalOdds, snap.Source,
	).Scan(&snap.ID)

	if err != nil {
		return fmt.Errorf("failed to create odds snapshot: %w", err)
	}

	log.Debug().
		Int("id", snap.ID).
		Int("market_outcome_id", snap.MarketOutcomeID).
		Int("american_odds", snap.AmericanOdds).
		Str("source", snap.Source).
		Msg("Odds snapshot recorded")

	return nil
}

// CountForOutcome returns the number of snapshots recorded for one outcome
func (r *SnapshotRepository) CountForOutcome(ctx context.Context, marketOutcomeID int) (int, error) {
	query := `SELECT COUNT(*) FROM odds_snapshots WHERE market_outcome_id = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, marketOutcomeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count odds snapshots: %w", err)
	}

	return count, nil
}

// ListForOutcome retrieves the snapshot history for one outcome, oldest first
func (r *SnapshotRepository) ListForOutcome(ctx context.Context, marketOutcomeID int) ([]*models.OddsSnapshot, error) {
	query := `
		SELECT id, market_outcome_id, provider_id, snapshot_time_utc,
		       american_odds, decimal_odds, source
		FROM odds_snapshots
		WHERE market_outcome_id = $1
		ORDER BY snapshot_time_utc ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, marketOutcomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list odds snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*models.OddsSnapshot
	for rows.Next() {
		var snap models.OddsSnapshot
		err := rows.Scan(
			&snap.ID, &snap.MarketOutcomeID, &snap.ProviderID, &snap.SnapshotTimeUTC,
			&snap.AmericanOdds, &snap.DecimalOdds, &snap.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating odds snapshots: %w", err)
	}

	return snaps, nil
}
