package models

import (
	"time"
	"unicode"
)

// Sport is a top-level sport row, one per sport code (e.g. "BASKETBALL").
// Created lazily on first need and never mutated.
type Sport struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
}

// League is one row per league code within a sport (e.g. "NBA").
type League struct {
	ID        int       `db:"id"`
	SportID   int       `db:"sport_id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
}

// Team is a league-scoped team. Identity within a league is the normalized
// name or the derived abbreviation; either match resolves to the same row.
type Team struct {
	ID           int       `db:"id"`
	LeagueID     int       `db:"league_id"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	ExternalRef  string    `db:"external_ref"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const abbreviationFallback = "TEAM"

// TeamAbbreviation derives a stable abbreviation from a team name: drop
// everything that is not a letter or digit, uppercase, keep the first 10
// characters. An empty result falls back to "TEAM". The derivation is a pure
// function of the name, so spelling variants that clean to the same string
// collapse onto one team row regardless of which provider supplied them.
func TeamAbbreviation(name string) string {
	cleaned := make([]rune, 0, len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cleaned = append(cleaned, unicode.ToUpper(r))
		}
	}

	if len(cleaned) == 0 {
		return abbreviationFallback
	}
	if len(cleaned) > 10 {
		cleaned = cleaned[:10]
	}
	return string(cleaned)
}
