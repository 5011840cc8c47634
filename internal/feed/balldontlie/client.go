package balldontlie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/feed"
	"github.com/bezalele/BetOddsIngestor/internal/metrics"

	"github.com/rs/zerolog/log"
)

const (
	leagueCode  = "NBA"
	perPage     = 100
	maxPages    = 200
	dateLayout  = "2006-01-02"
	timeLayout  = "2006-01-02T15:04:05.000Z"
	timeLayout2 = "2006-01-02T15:04:05Z"
)

// Client fetches historical NBA games from the balldontlie API. It backs
// the long-lookback results feed used for score backfill.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type gamesPage struct {
	Data []wireGame `json:"data"`
	Meta pageMeta   `json:"meta"`
}

type pageMeta struct {
	NextPage *int `json:"next_page"`
}

type wireGame struct {
	ID               int      `json:"id"`
	Date             string   `json:"date"`
	Season           int      `json:"season"`
	Status           string   `json:"status"`
	HomeTeamScore    int      `json:"home_team_score"`
	VisitorTeamScore int      `json:"visitor_team_score"`
	HomeTeam         wireTeam `json:"home_team"`
	VisitorTeam      wireTeam `json:"visitor_team"`
}

type wireTeam struct {
	FullName string `json:"full_name"`
}

// GetScores walks the paginated games listing for [fromUTC, toUTC) and
// returns finished games. Games still at 0-0 are skipped: the API reports
// unplayed games with zero scores and there is no way to tell a genuine
// scoreless entry apart from one.
func (c *Client) GetScores(ctx context.Context, fromUTC, toUTC time.Time) ([]feed.ScoreGame, error) {
	start := time.Now()

	var games []feed.ScoreGame
	page := 1
	for pages := 0; pages < maxPages; pages++ {
		body, err := c.get(ctx, "games", map[string]string{
			"start_date": fromUTC.UTC().Format(dateLayout),
			"end_date":   toUTC.UTC().Format(dateLayout),
			"per_page":   strconv.Itoa(perPage),
			"page":       strconv.Itoa(page),
		})
		if err != nil {
			metrics.RecordFeedCall("history", "error", time.Since(start).Seconds())
			log.Error().Err(err).Int("page", page).Msg("History feed transport failure")
			return nil, nil
		}

		var resp gamesPage
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal games page: %w", err)
		}

		for _, g := range resp.Data {
			if g.HomeTeamScore == 0 && g.VisitorTeamScore == 0 {
				continue
			}

			startTime, err := parseGameTime(g.Date)
			if err != nil {
				log.Warn().Err(err).Int("game_id", g.ID).Msg("Skipping game with unparseable date")
				continue
			}
			if startTime.Before(fromUTC) || !startTime.Before(toUTC) {
				continue
			}

			home := g.HomeTeamScore
			away := g.VisitorTeamScore
			games = append(games, feed.ScoreGame{
				ExternalGameID: strconv.Itoa(g.ID),
				LeagueCode:     leagueCode,
				Season:         strconv.Itoa(g.Season),
				HomeTeamName:   g.HomeTeam.FullName,
				AwayTeamName:   g.VisitorTeam.FullName,
				StartTimeUTC:   startTime,
				HomeScore:      &home,
				AwayScore:      &away,
				Status:         "Final",
			})
		}

		if resp.Meta.NextPage == nil {
			break
		}
		page = *resp.Meta.NextPage
	}

	metrics.RecordFeedCall("history", "success", time.Since(start).Seconds())
	log.Info().
		Int("count", len(games)).
		Time("from", fromUTC).
		Time("to", toUTC).
		Msg("Historical scores fetched")

	return games, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// parseGameTime accepts the two timestamp shapes the API has used over
// time, plus the bare date form returned for older seasons.
func parseGameTime(raw string) (time.Time, error) {
	for _, layout := range []string{timeLayout, timeLayout2, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}
