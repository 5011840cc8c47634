package repository

import (
	"context"
	"fmt"

	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/rs/zerolog/log"
)

// ResultRepository implements the external game-result upsert contract on a
// Postgres table. The conflict key is the full natural key; repeated upserts
// overwrite score and status instead of duplicating rows.
type ResultRepository struct {
	db *Database
}

// UpsertGameResult inserts or overwrites a final score keyed by
// (league code, season, slate date, home team name, away team name).
func (r *ResultRepository) UpsertGameResult(ctx context.Context, res models.GameResultUpsert) error {
	query := `
		INSERT INTO game_results (
			league_code, season, slate_date_utc,
			home_team_name, away_team_name,
			home_score, away_score, final_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (league_code, season, slate_date_utc, home_team_name, away_team_name)
		DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			final_status = EXCLUDED.final_status,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		res.LeagueCode, res.Season, res.SlateDateUTC,
		res.HomeTeamName, res.AwayTeamName,
		res.HomeScore, res.AwayScore, res.FinalStatus,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert game result: %w", err)
	}

	log.Debug().
		Str("league", res.LeagueCode).
		Str("slate_date", res.SlateDateUTC.Format("2006-01-02")).
		Str("home", res.HomeTeamName).
		Str("away", res.AwayTeamName).
		Int("home_score", res.HomeScore).
		Int("away_score", res.AwayScore).
		Msg("Game result upserted")

	return nil
}
