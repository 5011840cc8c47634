package repository

import (
	"context"
	"fmt"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// GetByNameOrAbbreviation retrieves the team in a league whose stored name
// equals the normalized name OR whose abbreviation equals the derived one.
// Either match resolves to the same row; this is what tolerates minor
// name-spelling drift across providers.
func (r *TeamRepository) GetByNameOrAbbreviation(ctx context.Context, leagueID int, name, abbreviation string) (*models.Team, error) {
	query := `
		SELECT id, league_id, name, abbreviation, external_ref, is_active, created_at, updated_at
		FROM teams
		WHERE league_id = $1 AND (name = $2 OR abbreviation = $3)
		ORDER BY id
		LIMIT 1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, leagueID, name, abbreviation).Scan(
		&team.ID, &team.LeagueID, &team.Name, &team.Abbreviation,
		&team.ExternalRef, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// FindOrCreate resolves a normalized name and derived abbreviation to a team
// row, creating one when neither matches. The unique index on
// (league_id, abbreviation) guards the check-then-create race: a concurrent
// creator makes the insert return no row, and the lookup is re-run.
func (r *TeamRepository) FindOrCreate(ctx context.Context, leagueID int, name, abbreviation string) (*models.Team, error) {
	team, err := r.GetByNameOrAbbreviation(ctx, leagueID, name, abbreviation)
	if err == nil {
		return team, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO teams (league_id, name, abbreviation, external_ref, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT DO NOTHING
		RETURNING id, league_id, name, abbreviation, external_ref, is_active, created_at, updated_at
	`

	team = &models.Team{}
	err = r.db.Pool.QueryRow(ctx, query, leagueID, name, abbreviation, name).Scan(
		&team.ID, &team.LeagueID, &team.Name, &team.Abbreviation,
		&team.ExternalRef, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return r.GetByNameOrAbbreviation(ctx, leagueID, name, abbreviation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Int("league_id", leagueID).
		Str("name", team.Name).
		Str("abbreviation", team.Abbreviation).
		Msg("Team created")

	return team, nil
}

// GetByID retrieves a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, league_id, name, abbreviation, external_ref, is_active, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.LeagueID, &team.Name, &team.Abbreviation,
		&team.ExternalRef, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// ListByLeague retrieves all teams in a league
func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	query := `
		SELECT id, league_id, name, abbreviation, external_ref, is_active, created_at, updated_at
		FROM teams
		WHERE league_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.LeagueID, &team.Name, &team.Abbreviation,
			&team.ExternalRef, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams in a league
func (r *TeamRepository) Count(ctx context.Context, leagueID int) (int, error) {
	query := `SELECT COUNT(*) FROM teams WHERE league_id = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, leagueID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
