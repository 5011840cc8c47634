// Package feed defines the canonical records and contracts the ingestion
// pipeline consumes. Vendor adapters translate provider payloads into these
// shapes; the pipeline never sees provider-specific JSON.
package feed

import (
	"context"
	"time"
)

// ScheduleGame is one game from a schedule provider. StartTimeUTC must be
// UTC; ExternalGameID is the provider's game id and is the sole dedup key.
type ScheduleGame struct {
	ExternalGameID string
	LeagueCode     string
	Season         string
	HomeTeamName   string
	AwayTeamName   string
	StartTimeUTC   time.Time
}

// OddsRecord is one (game, bookmaker) observation from an odds provider.
// Price and line fields are nil when that market or side was not quoted;
// absence is carried as nil end to end, never as a zero sentinel.
type OddsRecord struct {
	GameID       string
	GameTimeUTC  time.Time
	ProviderCode string
	HomeTeam     string
	AwayTeam     string

	HomeMoneyline *int
	AwayMoneyline *int

	SpreadPoints   *float64
	SpreadHomeOdds *int
	SpreadAwayOdds *int

	TotalPoints *float64
	OverOdds    *int
	UnderOdds   *int
}

// ScoreGame is one game with a score from a results provider. HomeScore and
// AwayScore are nil when the provider had no score for that side; consumers
// skip entries lacking either.
type ScoreGame struct {
	ExternalGameID string
	LeagueCode     string
	Season         string
	HomeTeamName   string
	AwayTeamName   string
	StartTimeUTC   time.Time
	HomeScore      *int
	AwayScore      *int
	Status         string
}

// ScheduleFeed returns all games intersecting the half-open window
// [fromUTC, toUTC), not just completed ones.
type ScheduleFeed interface {
	GetSchedule(ctx context.Context, fromUTC, toUTC time.Time) ([]ScheduleGame, error)
}

// OddsFeed returns the current odds board, one record per (game, bookmaker).
type OddsFeed interface {
	GetTodayOdds(ctx context.Context) ([]OddsRecord, error)
}

// ResultsFeed returns games with scores in [fromUTC, toUTC).
type ResultsFeed interface {
	GetScores(ctx context.Context, fromUTC, toUTC time.Time) ([]ScoreGame, error)
}
