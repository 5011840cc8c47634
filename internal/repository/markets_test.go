package repository

import (
	"testing"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketRepository_Scaffolding(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := mustGame(t, db, ctx, testRef("market"))

	mt, err := db.Markets.FindOrCreateType(ctx, models.MarketTypeMoneyline, "Moneyline")
	require.NoError(t, err)

	market, err := db.Markets.FindOrCreateMarket(ctx, game.ID, mt.ID, models.MarketPeriodFull)
	require.NoError(t, err)

	again, err := db.Markets.FindOrCreateMarket(ctx, game.ID, mt.ID, models.MarketPeriodFull)
	require.NoError(t, err)
	assert.Equal(t, market.ID, again.ID, "One market per (game, type, period)")

	home, err := db.Markets.FindOrCreateOutcome(ctx, market.ID, models.OutcomeHome, "Home team wins", 1)
	require.NoError(t, err)
	away, err := db.Markets.FindOrCreateOutcome(ctx, market.ID, models.OutcomeAway, "Away team wins", 2)
	require.NoError(t, err)
	assert.NotEqual(t, home.ID, away.ID)

	homeAgain, err := db.Markets.FindOrCreateOutcome(ctx, market.ID, models.OutcomeHome, "Home team wins", 1)
	require.NoError(t, err)
	assert.Equal(t, home.ID, homeAgain.ID)
}

func TestSnapshotRepository_AppendOnly(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := mustGame(t, db, ctx, testRef("snapshot"))

	mt, err := db.Markets.FindOrCreateType(ctx, models.MarketTypeMoneyline, "Moneyline")
	require.NoError(t, err)
	market, err := db.Markets.FindOrCreateMarket(ctx, game.ID, mt.ID, models.MarketPeriodFull)
	require.NoError(t, err)
	outcome, err := db.Markets.FindOrCreateOutcome(ctx, market.ID, models.OutcomeHome, "Home team wins", 1)
	require.NoError(t, err)

	provider, err := db.Providers.FindOrCreate(ctx, "FANDUEL", "FANDUEL")
	require.NoError(t, err)

	before, err := db.Snapshots.CountForOutcome(ctx, outcome.ID)
	require.NoError(t, err)

	// The same price recorded twice is two ledger rows
	for i := 0; i < 2; i++ {
		err = db.Snapshots.Create(ctx, &models.OddsSnapshot{
			MarketOutcomeID: outcome.ID,
			ProviderID:      provider.ID,
			SnapshotTimeUTC: time.Now().UTC(),
			AmericanOdds:    -150,
			DecimalOdds:     models.DecimalFromAmerican(-150),
			Source:          "FANDUEL",
		})
		require.NoError(t, err)
	}

	after, err := db.Snapshots.CountForOutcome(ctx, outcome.ID)
	require.NoError(t, err)
	assert.Equal(t, before+2, after, "Snapshots are appended, never deduplicated")

	rows, err := db.Snapshots.ListForOutcome(ctx, outcome.ID)
	require.NoError(t, err)
	assert.Len(t, rows, after)
}

func TestResultRepository_UpsertGameResult(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	res := models.GameResultUpsert{
		LeagueCode:   "NBA",
		Season:       "2024",
		SlateDateUTC: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamName: "Boston Celtics",
		AwayTeamName: "Los Angeles Lakers",
		HomeScore:    112,
		AwayScore:    105,
		FinalStatus:  "Final",
	}

	require.NoError(t, db.Results.UpsertGameResult(ctx, res))

	// Same key with a corrected score overwrites
	res.HomeScore = 114
	require.NoError(t, db.Results.UpsertGameResult(ctx, res))
}
