package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/metrics"
	"github.com/bezalele/BetOddsIngestor/internal/models"
)

// RecordIfPresent appends one price observation to the snapshot ledger.
// A nil price means the provider did not quote that side; nothing is
// written, and in particular no zero-odds row.
func (p *Pipeline) RecordIfPresent(ctx context.Context, outcomeID, providerID int, american *int, takenAtUTC time.Time, source string) error {
	if american == nil {
		return nil
	}

	snap := &models.OddsSnapshot{
		MarketOutcomeID: outcomeID,
		ProviderID:      providerID,
		SnapshotTimeUTC: takenAtUTC,
		AmericanOdds:    *american,
		DecimalOdds:     models.DecimalFromAmerican(*american),
		Source:          source,
	}

	if err := p.snapshots.Create(ctx, snap); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	metrics.RecordSnapshot()
	return nil
}
