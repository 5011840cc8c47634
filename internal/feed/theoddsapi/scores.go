package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/feed"
	"github.com/bezalele/BetOddsIngestor/internal/metrics"

	"github.com/rs/zerolog/log"
)

type scoreEvent struct {
	ID           string       `json:"id"`
	CommenceTime time.Time    `json:"commence_time"`
	Completed    bool         `json:"completed"`
	HomeTeam     string       `json:"home_team"`
	AwayTeam     string       `json:"away_team"`
	Scores       []scoreEntry `json:"scores"`
}

type scoreEntry struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// GetScores returns completed games with final scores inside
// [fromUTC, toUTC). Events missing a score for either side are skipped;
// a partial score line is useless to the result store.
func (c *Client) GetScores(ctx context.Context, fromUTC, toUTC time.Time) ([]feed.ScoreGame, error) {
	start := time.Now()
	path := fmt.Sprintf("sports/%s/scores", c.opts.SportKey)

	body, err := c.get(ctx, path, map[string]string{
		"daysFrom": "3",
	})
	if err != nil {
		metrics.RecordFeedCall("scores", "error", time.Since(start).Seconds())
		log.Error().Err(err).Msg("Scores feed transport failure")
		return nil, nil
	}
	metrics.RecordFeedCall("scores", "success", time.Since(start).Seconds())

	var events []scoreEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score events: %w", err)
	}

	var games []feed.ScoreGame
	for _, ev := range events {
		commence := ev.CommenceTime.UTC()
		if commence.Before(fromUTC) || !commence.Before(toUTC) {
			continue
		}

		homeScore, awayScore := pickScores(ev)
		if homeScore == nil || awayScore == nil {
			log.Debug().
				Str("external_game_id", ev.ID).
				Msg("Skipping score event without both scores")
			continue
		}

		status := "Completed"
		if ev.Completed {
			status = "Final"
		}

		games = append(games, feed.ScoreGame{
			ExternalGameID: ev.ID,
			LeagueCode:     leagueCode,
			Season:         strconv.Itoa(commence.Year()),
			HomeTeamName:   ev.HomeTeam,
			AwayTeamName:   ev.AwayTeam,
			StartTimeUTC:   commence,
			HomeScore:      homeScore,
			AwayScore:      awayScore,
			Status:         status,
		})
	}

	log.Info().
		Int("count", len(games)).
		Time("from", fromUTC).
		Time("to", toUTC).
		Msg("Scores fetched")

	return games, nil
}

// pickScores matches score entries to home and away by team name,
// case-insensitively. The score field arrives as a string on the wire.
func pickScores(ev scoreEvent) (*int, *int) {
	var home, away *int
	for _, s := range ev.Scores {
		v, err := strconv.Atoi(strings.TrimSpace(s.Score))
		if err != nil {
			continue
		}
		switch {
		case strings.EqualFold(s.Name, ev.HomeTeam):
			sc := v
			home = &sc
		case strings.EqualFold(s.Name, ev.AwayTeam):
			sc := v
			away = &sc
		}
	}
	return home, away
}
