package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `id, league_id, season, start_time_utc, slate_date_utc,
	       home_team_id, away_team_id, status, external_ref, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.LeagueID, &game.Season, &game.StartTimeUTC, &game.SlateDateUTC,
		&game.HomeTeamID, &game.AwayTeamID, &game.Status, &game.ExternalRef,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GetByExternalRef retrieves a game by the provider-assigned id. The
// external ref is the sole dedup key across ingestion runs.
func (r *GameRepository) GetByExternalRef(ctx context.Context, externalRef string) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE external_ref = $1
	`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, externalRef))
	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByID retrieves a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1
	`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// Create inserts a new game. The unique index on external_ref guards the
// check-then-create race: when a concurrent run created the row first, the
// insert returns nothing and the existing row is re-read.
func (r *GameRepository) Create(ctx context.Context, in models.GameUpsert) (*models.Game, error) {
	query := `
		INSERT INTO games (league_id, season, start_time_utc, slate_date_utc,
		                   home_team_id, away_team_id, status, external_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_ref) DO NOTHING
		RETURNING ` + gameColumns + `
	`

	game, err := scanGame(r.db.Pool.QueryRow(
		ctx, query,
		in.LeagueID, in.Season, in.StartTimeUTC, in.SlateDateUTC,
		in.HomeTeamID, in.AwayTeamID, models.GameStatusScheduled, in.ExternalRef,
	))

	if err == pgx.ErrNoRows {
		return r.GetByExternalRef(ctx, in.ExternalRef)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Debug().
		Int("id", game.ID).
		Str("external_ref", game.ExternalRef).
		Str("slate_date", game.SlateDateUTC.Format("2006-01-02")).
		Msg("Game created")

	return game, nil
}

// UpdateChanged writes back only the fields set on changes. A no-op set of
// changes never reaches the database.
func (r *GameRepository) UpdateChanged(ctx context.Context, id int, changes models.GameChanges) error {
	if changes.IsEmpty() {
		return nil
	}

	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if changes.Season != nil {
		add("season", *changes.Season)
	}
	if changes.StartTimeUTC != nil {
		add("start_time_utc", *changes.StartTimeUTC)
	}
	if changes.SlateDateUTC != nil {
		add("slate_date_utc", *changes.SlateDateUTC)
	}
	if changes.HomeTeamID != nil {
		add("home_team_id", *changes.HomeTeamID)
	}
	if changes.AwayTeamID != nil {
		add("away_team_id", *changes.AwayTeamID)
	}
	if changes.Status != nil {
		add("status", *changes.Status)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE games SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(set, ", "), len(args),
	)

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found: id=%d", id)
	}

	return nil
}

// ListBySlateDate retrieves games on one slate day in a league
func (r *GameRepository) ListBySlateDate(ctx context.Context, leagueID int, slateDate string) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE league_id = $1 AND slate_date_utc = $2
		ORDER BY start_time_utc
	`

	rows, err := r.db.Pool.Query(ctx, query, leagueID, slateDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list games by slate date: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
