package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGame(t *testing.T, db *Database, ctx context.Context, externalRef string) *models.Game {
	league := mustLeague(t, db, ctx)

	home, err := db.Teams.FindOrCreate(ctx, league.ID, "Boston Celtics", models.TeamAbbreviation("Boston Celtics"))
	require.NoError(t, err)
	away, err := db.Teams.FindOrCreate(ctx, league.ID, "Los Angeles Lakers", models.TeamAbbreviation("Los Angeles Lakers"))
	require.NoError(t, err)

	game, err := db.Games.Create(ctx, models.GameUpsert{
		LeagueID:     league.ID,
		ExternalRef:  externalRef,
		Season:       "2024",
		StartTimeUTC: time.Date(2024, 1, 16, 0, 30, 0, 0, time.UTC),
		SlateDateUTC: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
	})
	require.NoError(t, err)
	return game
}

func testRef(name string) string {
	return fmt.Sprintf("%s-%d", name, time.Now().UnixNano())
}

func TestGameRepository_CreateAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ref := testRef("create")
	game := mustGame(t, db, ctx, ref)
	assert.Equal(t, models.GameStatusScheduled, game.Status)

	retrieved, err := db.Games.GetByExternalRef(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, game.ID, retrieved.ID)
	assert.Equal(t, "2024", retrieved.Season)

	byID, err := db.Games.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, ref, byID.ExternalRef)
}

func TestGameRepository_CreateConflictReturnsExisting(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ref := testRef("conflict")
	first := mustGame(t, db, ctx, ref)
	second := mustGame(t, db, ctx, ref)

	assert.Equal(t, first.ID, second.ID, "Creating the same external ref twice must return the same row")
}

func TestGameRepository_UpdateChanged(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := mustGame(t, db, ctx, testRef("update"))

	newStart := time.Date(2024, 1, 17, 0, 30, 0, 0, time.UTC)
	newSlate := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	newStatus := models.GameStatusFinal

	err := db.Games.UpdateChanged(ctx, game.ID, models.GameChanges{
		StartTimeUTC: &newStart,
		SlateDateUTC: &newSlate,
		Status:       &newStatus,
	})
	require.NoError(t, err)

	updated, err := db.Games.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, updated.StartTimeUTC.Equal(newStart))
	assert.True(t, updated.SlateDateUTC.Equal(newSlate))
	assert.Equal(t, models.GameStatusFinal, updated.Status)
	assert.Equal(t, "2024", updated.Season, "Unset fields must be untouched")
}

func TestGameRepository_UpdateChangedEmptyIsNoOp(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := mustGame(t, db, ctx, testRef("noop"))

	err := db.Games.UpdateChanged(ctx, game.ID, models.GameChanges{})
	require.NoError(t, err)

	after, err := db.Games.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.Equal(game.UpdatedAt), "An empty change set must not touch the row")
}

func TestGameRepository_ListBySlateDate(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := mustGame(t, db, ctx, testRef("slate"))

	games, err := db.Games.ListBySlateDate(ctx, game.LeagueID, "2024-01-15")
	require.NoError(t, err)
	assert.NotEmpty(t, games)

	var found bool
	for _, g := range games {
		if g.ID == game.ID {
			found = true
		}
	}
	assert.True(t, found, "The created game should appear on its slate day")
}
