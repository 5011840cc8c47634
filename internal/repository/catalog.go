package repository

import (
	"context"
	"fmt"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Catalog repositories cover the small singleton-per-code tables: sports,
// leagues and odds providers. All of them follow the same race-safe
// find-or-create discipline: select by code, insert with ON CONFLICT DO
// NOTHING, and re-select when the insert lost a concurrent race. The unique
// index on the code column is the correctness guarantee, not the lookup.

// SportRepository handles sport database operations
type SportRepository struct {
	db *Database
}

// GetByCode retrieves a sport by its code
func (r *SportRepository) GetByCode(ctx context.Context, code string) (*models.Sport, error) {
	query := `
		SELECT id, name, code, created_at
		FROM sports
		WHERE code = $1
	`

	var sport models.Sport
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&sport.ID, &sport.Name, &sport.Code, &sport.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sport: %w", err)
	}

	return &sport, nil
}

// FindOrCreate returns the sport row for a code, creating it on first need.
func (r *SportRepository) FindOrCreate(ctx context.Context, name, code string) (*models.Sport, error) {
	sport, err := r.GetByCode(ctx, code)
	if err == nil {
		return sport, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO sports (name, code)
		VALUES ($1, $2)
		ON CONFLICT (code) DO NOTHING
		RETURNING id, name, code, created_at
	`

	sport = &models.Sport{}
	err = r.db.Pool.QueryRow(ctx, query, name, code).Scan(
		&sport.ID, &sport.Name, &sport.Code, &sport.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		// Lost the create race; the row exists now.
		return r.GetByCode(ctx, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create sport: %w", err)
	}

	log.Debug().Int("id", sport.ID).Str("code", sport.Code).Msg("Sport created")
	return sport, nil
}

// LeagueRepository handles league database operations
type LeagueRepository struct {
	db *Database
}

// GetByCode retrieves a league by sport and league code
func (r *LeagueRepository) GetByCode(ctx context.Context, sportID int, code string) (*models.League, error) {
	query := `
		SELECT id, sport_id, name, code, created_at
		FROM leagues
		WHERE sport_id = $1 AND code = $2
	`

	var league models.League
	err := r.db.Pool.QueryRow(ctx, query, sportID, code).Scan(
		&league.ID, &league.SportID, &league.Name, &league.Code, &league.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}

	return &league, nil
}

// FindOrCreate returns the league row for a (sport, code), creating it on first need.
func (r *LeagueRepository) FindOrCreate(ctx context.Context, sportID int, name, code string) (*models.League, error) {
	league, err := r.GetByCode(ctx, sportID, code)
	if err == nil {
		return league, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO leagues (sport_id, name, code)
		VALUES ($1, $2, $3)
		ON CONFLICT (sport_id, code) DO NOTHING
		RETURNING id, sport_id, name, code, created_at
	`

	league = &models.League{}
	err = r.db.Pool.QueryRow(ctx, query, sportID, name, code).Scan(
		&league.ID, &league.SportID, &league.Name, &league.Code, &league.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return r.GetByCode(ctx, sportID, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	log.Debug().Int("id", league.ID).Str("code", league.Code).Msg("League created")
	return league, nil
}

// ProviderRepository handles odds provider database operations
type ProviderRepository struct {
	db *Database
}

// GetByCode retrieves a provider by its bookmaker code
func (r *ProviderRepository) GetByCode(ctx context.Context, code string) (*models.OddsProvider, error) {
	query := `
		SELECT id, name, code, is_active, created_at
		FROM odds_providers
		WHERE code = $1
	`

	var provider models.OddsProvider
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&provider.ID, &provider.Name, &provider.Code, &provider.IsActive, &provider.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	return &provider, nil
}

// FindOrCreate returns the provider row for a bookmaker code, creating it on first need.
func (r *ProviderRepository) FindOrCreate(ctx context.Context, name, code string) (*models.OddsProvider, error) {
	provider, err := r.GetByCode(ctx, code)
	if err == nil {
		return provider, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO odds_providers (name, code, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (code) DO NOTHING
		RETURNING id, name, code, is_active, created_at
	`

	provider = &models.OddsProvider{}
	err = r.db.Pool.QueryRow(ctx, query, name, code).Scan(
		&provider.ID, &provider.Name, &provider.Code, &provider.IsActive, &provider.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return r.GetByCode(ctx, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	log.Debug().Int("id", provider.ID).Str("code", provider.Code).Msg("Odds provider created")
	return provider, nil
}
