package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/feed"
	"github.com/bezalele/BetOddsIngestor/internal/metrics"

	"github.com/rs/zerolog/log"
)

const leagueCode = "NBA"

// GetSchedule returns all events whose commence time falls in
// [fromUTC, toUTC). The odds endpoint is used as the schedule source: it
// carries event id, both teams, and commence time, which is all a schedule
// record needs. The window filter is applied client-side.
func (c *Client) GetSchedule(ctx context.Context, fromUTC, toUTC time.Time) ([]feed.ScheduleGame, error) {
	start := time.Now()
	path := fmt.Sprintf("sports/%s/odds", c.opts.SportKey)

	body, err := c.get(ctx, path, map[string]string{
		"regions":    c.opts.Regions,
		"markets":    "h2h",
		"oddsFormat": c.opts.OddsFormat,
	})
	if err != nil {
		metrics.RecordFeedCall("schedule", "error", time.Since(start).Seconds())
		log.Error().Err(err).Msg("Schedule feed transport failure")
		return nil, nil
	}
	metrics.RecordFeedCall("schedule", "success", time.Since(start).Seconds())

	var events []oddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule events: %w", err)
	}

	var games []feed.ScheduleGame
	for _, ev := range events {
		commence := ev.CommenceTime.UTC()
		if commence.Before(fromUTC) || !commence.Before(toUTC) {
			continue
		}

		games = append(games, feed.ScheduleGame{
			ExternalGameID: ev.ID,
			LeagueCode:     leagueCode,
			Season:         strconv.Itoa(commence.Year()),
			HomeTeamName:   ev.HomeTeam,
			AwayTeamName:   ev.AwayTeam,
			StartTimeUTC:   commence,
		})
	}

	log.Info().
		Int("count", len(games)).
		Time("from", fromUTC).
		Time("to", toUTC).
		Msg("Schedule fetched")

	return games, nil
}
