package models

import "time"

// Canonical market scaffolding codes. Only moneyline markets are built
// today; the schema is keyed so other market kinds slot in without change.
const (
	MarketTypeMoneyline = "MONEYLINE"
	MarketPeriodFull    = "FULL_GAME"

	OutcomeHome = "HOME"
	OutcomeAway = "AWAY"
)

// OddsProvider is one row per bookmaker code (e.g. "FANDUEL").
type OddsProvider struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// MarketType is one row per market kind.
type MarketType struct {
	ID          int    `db:"id"`
	Code        string `db:"code"`
	Description string `db:"description"`
}

// Market is the per-game container for outcomes of one market type and
// period. At most one row exists per (game, market type, period).
type Market struct {
	ID           int       `db:"id"`
	GameID       int       `db:"game_id"`
	MarketTypeID int       `db:"market_type_id"`
	Period       string    `db:"period"`
	IsActive     bool      `db:"is_active"`
	CreatedUTC   time.Time `db:"created_utc"`
}

// MarketOutcome is one side of a market, at most one row per
// (market, outcome code).
type MarketOutcome struct {
	ID          int    `db:"id"`
	MarketID    int    `db:"market_id"`
	OutcomeCode string `db:"outcome_code"`
	Description string `db:"description"`
	SortOrder   int    `db:"sort_order"`
}

// OddsSnapshot is one immutable price observation for one outcome from one
// provider. The snapshot table is the system's price ledger: rows are only
// ever appended, never updated or deduplicated.
type OddsSnapshot struct {
	ID              int       `db:"id"`
	MarketOutcomeID int       `db:"market_outcome_id"`
	ProviderID      int       `db:"provider_id"`
	SnapshotTimeUTC time.Time `db:"snapshot_time_utc"`
	AmericanOdds    int       `db:"american_odds"`
	DecimalOdds     float64   `db:"decimal_odds"`
	Source          string    `db:"source"`
}

// DecimalFromAmerican converts an american price to its decimal equivalent.
// Prices between -100 and 100 are not quotable in american format; they are
// converted with the positive-side formula so the stored value stays
// deterministic if a provider ever emits one.
func DecimalFromAmerican(american int) float64 {
	if american < 0 {
		return 1 + 100/float64(-american)
	}
	return 1 + float64(american)/100
}
