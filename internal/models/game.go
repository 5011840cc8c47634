package models

import "time"

// Game statuses as stored in the games table.
const (
	GameStatusScheduled = "Scheduled"
	GameStatusCompleted = "Completed"
	GameStatusFinal     = "Final"
)

// Game represents one scheduled or played game. Identity across ingestion
// runs is the provider-assigned ExternalRef; re-ingesting the same ref
// updates the mutable fields instead of creating a duplicate row.
type Game struct {
	ID           int       `db:"id"`
	LeagueID     int       `db:"league_id"`
	Season       string    `db:"season"`
	StartTimeUTC time.Time `db:"start_time_utc"`
	SlateDateUTC time.Time `db:"slate_date_utc"`
	HomeTeamID   int       `db:"home_team_id"`
	AwayTeamID   int       `db:"away_team_id"`
	Status       string    `db:"status"`
	ExternalRef  string    `db:"external_ref"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// GameUpsert carries the fields the schedule pass reconciles against a
// stored game. Everything here may drift between provider pulls.
type GameUpsert struct {
	LeagueID     int
	ExternalRef  string
	Season       string
	StartTimeUTC time.Time
	SlateDateUTC time.Time
	HomeTeamID   int
	AwayTeamID   int
}

// GameChanges lists the mutable columns a later ingestion pass may rewrite.
// Only non-nil fields are written back, so an unchanged game costs no write.
// A changed start time always carries a recomputed slate date with it.
type GameChanges struct {
	Season       *string
	StartTimeUTC *time.Time
	SlateDateUTC *time.Time
	HomeTeamID   *int
	AwayTeamID   *int
	Status       *string
}

// IsEmpty reports whether no field is set.
func (c GameChanges) IsEmpty() bool {
	return c.Season == nil && c.StartTimeUTC == nil && c.SlateDateUTC == nil &&
		c.HomeTeamID == nil && c.AwayTeamID == nil && c.Status == nil
}
