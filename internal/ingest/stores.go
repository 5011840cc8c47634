// Package ingest turns canonical feed records into stored rows. It owns the
// three ingestion passes (schedule, odds, results) and the identity
// resolution that keeps repeated runs idempotent.
package ingest

import (
	"context"

	"github.com/bezalele/BetOddsIngestor/internal/models"
)

// The pipeline depends on narrow store contracts rather than concrete
// repositories so its behavior is testable without a database. The
// repository types satisfy these as-is.

type SportStore interface {
	FindOrCreate(ctx context.Context, name, code string) (*models.Sport, error)
}

type LeagueStore interface {
	FindOrCreate(ctx context.Context, sportID int, name, code string) (*models.League, error)
}

type ProviderStore interface {
	FindOrCreate(ctx context.Context, name, code string) (*models.OddsProvider, error)
}

type TeamStore interface {
	FindOrCreate(ctx context.Context, leagueID int, name, abbreviation string) (*models.Team, error)
}

type GameStore interface {
	GetByExternalRef(ctx context.Context, externalRef string) (*models.Game, error)
	Create(ctx context.Context, in models.GameUpsert) (*models.Game, error)
	UpdateChanged(ctx context.Context, id int, changes models.GameChanges) error
}

type MarketStore interface {
	FindOrCreateType(ctx context.Context, code, description string) (*models.MarketType, error)
	FindOrCreateMarket(ctx context.Context, gameID, marketTypeID int, period string) (*models.Market, error)
	FindOrCreateOutcome(ctx context.Context, marketID int, outcomeCode, description string, sortOrder int) (*models.MarketOutcome, error)
}

type SnapshotStore interface {
	Create(ctx context.Context, snap *models.OddsSnapshot) error
}

// ResultStore receives finished-game scores. It must be idempotent on the
// result's natural key so re-ingesting a window overwrites rather than
// duplicates.
type ResultStore interface {
	UpsertGameResult(ctx context.Context, res models.GameResultUpsert) error
}
