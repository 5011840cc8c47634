package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/feed"
	"github.com/bezalele/BetOddsIngestor/internal/metrics"

	"github.com/rs/zerolog/log"
)

const oddsCacheKey = "theoddsapi:odds"

// Wire shapes for the /sports/{sport}/odds endpoint

type oddsEvent struct {
	ID           string      `json:"id"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key     string       `json:"key"`
	Markets []wireMarket `json:"markets"`
}

type wireMarket struct {
	Key      string        `json:"key"`
	Outcomes []wireOutcome `json:"outcomes"`
}

type wireOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point"`
}

// GetTodayOdds returns the current odds board, one record per
// (event, bookmaker). A transport failure is a soft failure: the last
// cached payload is served when one exists, otherwise an empty board.
func (c *Client) GetTodayOdds(ctx context.Context) ([]feed.OddsRecord, error) {
	start := time.Now()
	path := fmt.Sprintf("sports/%s/odds", c.opts.SportKey)

	body, err := c.get(ctx, path, map[string]string{
		"regions":    c.opts.Regions,
		"markets":    c.opts.Markets,
		"oddsFormat": c.opts.OddsFormat,
	})
	if err != nil {
		metrics.RecordFeedCall("odds", "error", time.Since(start).Seconds())
		log.Error().Err(err).Msg("Odds feed transport failure")

		body = c.cachedOddsPayload(ctx)
		if body == nil {
			return nil, nil
		}
		log.Warn().Int("size", len(body)).Msg("Serving cached odds payload")
	} else {
		metrics.RecordFeedCall("odds", "success", time.Since(start).Seconds())
		c.storeOddsPayload(ctx, body)
	}

	var events []oddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal odds events: %w", err)
	}

	var records []feed.OddsRecord
	for _, ev := range events {
		for _, bk := range ev.Bookmakers {
			if bk.Key == "" {
				continue
			}
			records = append(records, buildRecord(ev, bk))
		}
	}

	log.Info().Int("events", len(events)).Int("records", len(records)).Msg("Odds board fetched")
	return records, nil
}

// buildRecord flattens one bookmaker's markets into a canonical record.
// Outcomes are attributed to a side by exact team-name match (h2h, spreads)
// or the "Over"/"Under" label (totals); anything that matches neither is
// dropped without error.
func buildRecord(ev oddsEvent, bk bookmaker) feed.OddsRecord {
	rec := feed.OddsRecord{
		GameID:       ev.ID,
		GameTimeUTC:  ev.CommenceTime,
		ProviderCode: strings.ToUpper(bk.Key),
		HomeTeam:     ev.HomeTeam,
		AwayTeam:     ev.AwayTeam,
	}

	for _, m := range bk.Markets {
		switch m.Key {
		case "h2h":
			for _, o := range m.Outcomes {
				price := int(o.Price)
				if o.Name == ev.HomeTeam {
					rec.HomeMoneyline = &price
				} else if o.Name == ev.AwayTeam {
					rec.AwayMoneyline = &price
				}
			}
		case "spreads":
			for _, o := range m.Outcomes {
				price := int(o.Price)
				if o.Name == ev.HomeTeam {
					rec.SpreadPoints = o.Point
					rec.SpreadHomeOdds = &price
				} else if o.Name == ev.AwayTeam {
					rec.SpreadAwayOdds = &price
				}
			}
		case "totals":
			for _, o := range m.Outcomes {
				price := int(o.Price)
				if o.Name == "Over" {
					rec.TotalPoints = o.Point
					rec.OverOdds = &price
				} else if o.Name == "Under" {
					rec.UnderOdds = &price
				}
			}
		}
	}

	return rec
}

func (c *Client) cachedOddsPayload(ctx context.Context) []byte {
	if c.opts.Cache == nil {
		return nil
	}

	body, err := c.opts.Cache.Get(ctx, oddsCacheKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read cached odds payload")
		return nil
	}
	if body == nil {
		metrics.RecordCacheMiss()
		return nil
	}
	metrics.RecordCacheHit()
	return body
}

func (c *Client) storeOddsPayload(ctx context.Context, body []byte) {
	if c.opts.Cache == nil {
		return
	}
	if err := c.opts.Cache.Set(ctx, oddsCacheKey, body, c.opts.CacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache odds payload")
	}
}
