package repository

import (
	"context"
	"fmt"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// MarketRepository handles market type, market and market outcome scaffolding.
// Every level is a race-safe find-or-create against a composite unique key;
// none of these methods ever touch price data.
type MarketRepository struct {
	db *Database
}

// GetTypeByCode retrieves a market type by code
func (r *MarketRepository) GetTypeByCode(ctx context.Context, code string) (*models.MarketType, error) {
	query := `
		SELECT id, code, description
		FROM market_types
		WHERE code = $1
	`

	var mt models.MarketType
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(&mt.ID, &mt.Code, &mt.Description)

	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market type: %w", err)
	}

	return &mt, nil
}

// FindOrCreateType returns the market type row for a code, creating it on first need.
func (r *MarketRepository) FindOrCreateType(ctx context.Context, code, description string) (*models.MarketType, error) {
	mt, err := r.GetTypeByCode(ctx, code)
	if err == nil {
		return mt, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO market_types (code, description)
		VALUES ($1, $2)
		ON CONFLICT (code) DO NOTHING
		RETURNING id, code, description
	`

	mt = &models.MarketType{}
	err = r.db.Pool.QueryRow(ctx, query, code, description).Scan(&mt.ID, &mt.Code, &mt.Description)

	if err == pgx.ErrNoRows {
		return r.GetTypeByCode(ctx, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create market type: %w", err)
	}

	log.Debug().Int("id", mt.ID).Str("code", mt.Code).Msg("Market type created")
	return mt, nil
}

// GetMarket retrieves a market by its composite identity key
func (r *MarketRepository) GetMarket(ctx context.Context, gameID, marketTypeID int, period string) (*models.Market, error) {
	query := `
		SELECT id, game_id, market_type_id, period, is_active, created_utc
		FROM markets
		WHERE game_id = $1 AND market_type_id = $2 AND period = $3
	`

	var m models.Market
	err := r.db.Pool.QueryRow(ctx, query, gameID, marketTypeID, period).Scan(
		&m.ID, &m.GameID, &m.MarketTypeID, &m.Period, &m.IsActive, &m.CreatedUTC,
	)

	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}

	return &m, nil
}

// FindOrCreateMarket returns the market row for (game, type, period), creating it at most once.
func (r *MarketRepository) FindOrCreateMarket(ctx context.Context, gameID, marketTypeID int, period string) (*models.Market, error) {
	m, err := r.GetMarket(ctx, gameID, marketTypeID, period)
	if err == nil {
		return m, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO markets (game_id, market_type_id, period, is_active, created_utc)
		VALUES ($1, $2, $3, TRUE, NOW())
		ON CONFLICT (game_id, market_type_id, period) DO NOTHING
		RETURNING id, game_id, market_type_id, period, is_active, created_utc
	`

	m = &models.Market{}
	err = r.db.Pool.QueryRow(ctx, query, gameID, marketTypeID, period).Scan(
		&m.ID, &m.GameID, &m.MarketTypeID, &m.Period, &m.IsActive, &m.CreatedUTC,
	)

	if err == pgx.ErrNoRows {
		return r.GetMarket(ctx, gameID, marketTypeID, period)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create market: %w", err)
	}

	log.Debug().Int("id", m.ID).Int("game_id", gameID).Str("period", period).Msg("Market created")
	return m, nil
}

// GetOutcome retrieves a market outcome by (market, outcome code)
func (r *MarketRepository) GetOutcome(ctx context.Context, marketID int, outcomeCode string) (*models.MarketOutcome, error) {
	query := `
		SELECT id, market_id, outcome_code, description, sort_order
		FROM market_outcomes
		WHERE market_id = $1 AND outcome_code = $2
	`

	var o models.MarketOutcome
	err := r.db.Pool.QueryRow(ctx, query, marketID, outcomeCode).Scan(
		&o.ID, &o.MarketID, &o.OutcomeCode, &o.Description, &o.SortOrder,
	)

	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market outcome: %w", err)
	}

	return &o, nil
}

// FindOrCreateOutcome returns the outcome row for (market, code), creating it at most once.
func (r *MarketRepository) FindOrCreateOutcome(ctx context.Context, marketID int, outcomeCode, description string, sortOrder int) (*models.MarketOutcome, error) {
	o, err := r.GetOutcome(ctx, marketID, outcomeCode)
	if err == nil {
		return o, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	query := `
		INSERT INTO market_outcomes (market_id, outcome_code, description, sort_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (market_id, outcome_code) DO NOTHING
		RETURNING id, market_id, outcome_code, description, sort_order
	`

	o = &models.MarketOutcome{}
	err = r.db.Pool.QueryRow(ctx, query, marketID, outcomeCode, description, sortOrder).Scan(
		&o.ID, &o.MarketID, &o.OutcomeCode, &o.Description, &o.SortOrder,
	)

	if err == pgx.ErrNoRows {
		return r.GetOutcome(ctx, marketID, outcomeCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create market outcome: %w", err)
	}

	return o, nil
}
