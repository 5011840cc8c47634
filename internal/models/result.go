package models

import "time"

// GameResultUpsert is the record handed to the external game-result store.
// The store is idempotent on (league code, season, slate date, home team
// name, away team name): repeated upserts with the same key overwrite the
// score and status rather than duplicating rows.
type GameResultUpsert struct {
	LeagueCode   string
	Season       string
	SlateDateUTC time.Time
	HomeTeamName string
	AwayTeamName string
	HomeScore    int
	AwayScore    int
	FinalStatus  string
}
